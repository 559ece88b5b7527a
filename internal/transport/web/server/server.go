package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

type Server struct {
	TLSDisabled       bool
	TLSDisabledPort   int
	AutocertHostnames []string
	Router            http.Handler
}

func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	var err error
	if s.TLSDisabled {
		httpServer.Addr = fmt.Sprintf(":%d", s.TLSDisabledPort)
		err = httpServer.ListenAndServe()
	} else {
		err = httpServer.Serve(autocert.NewListener(s.AutocertHostnames...))
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

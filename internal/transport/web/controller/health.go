package controller

import (
	"net/http"
)

type Health struct{}

func (c Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, map[string]string{"status": "ok"})
}

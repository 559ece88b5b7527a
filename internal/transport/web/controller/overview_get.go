package controller

import (
	"net/http"

	"github.com/smartcontent/engine/internal/datasources"
)

type OverviewGet struct {
	Getter datasources.OverviewGetter
}

func (c OverviewGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := c.Getter.GetOverview(ctx)
	if err != nil {
		respondError(ctx, w, err, "unable to compute overview")
		return
	}

	respondJSON(ctx, w, overview)
}

package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

type InteractionRecord struct {
	RecordCmd command.Command[command.RecordInteractionRequest, command.RecordInteractionResult]
}

type InteractionRecordBody struct {
	Kind   domain.InteractionKind `json:"kind"`
	Rating int                    `json:"rating,omitempty"`
}

func (c InteractionRecord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	contentID := mux.Vars(r)["content_id"]
	logger := domain.LoggerFromContext(r.Context())
	ctx := domain.ContextWithLogger(r.Context(), logger.With("content_id", contentID))

	var body InteractionRecordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(ctx, w, domain.InvalidInput("unable to parse request body"), "unable to parse interaction")
		return
	}

	result, err := c.RecordCmd.Execute(ctx, command.RecordInteractionRequest{
		UserID:    domain.UserIDFromContext(ctx),
		ContentID: contentID,
		Kind:      body.Kind,
		Rating:    body.Rating,
	})
	if err != nil {
		respondError(ctx, w, err, "unable to record interaction")
		return
	}

	respondJSON(ctx, w, result)
}

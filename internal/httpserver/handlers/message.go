package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/streetpass/streetpass/internal/discovery"
	"github.com/streetpass/streetpass/internal/httpserver/deps"
	"github.com/streetpass/streetpass/internal/logger"
)

type updatedResponse struct {
	Updated bool `json:"updated"`
}

type hiddenResponse struct {
	Hidden bool `json:"hidden"`
}

// Message is the observation channel: the closed, discriminated message
// set the extension sends. Unrecognized or malformed envelopes are
// rejected here, before any orchestration runs.
func Message(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg discovery.Message
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&msg); err != nil {
			writeError(w, http.StatusBadRequest, "malformed message envelope")
			return
		}

		args, err := msg.DecodeArgs()
		if err != nil {
			d.Logger.Warn("rejected message",
				logger.String("name", string(msg.Name)),
				logger.Error(err))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := r.Context()
		switch args := args.(type) {
		case discovery.HrefPayloadArgs:
			d.Discovery.HandleHrefPayload(ctx, args)
			w.WriteHeader(http.StatusNoContent)

		case discovery.FetchProfileUpdateArgs:
			updated := d.Discovery.HandleFetchProfileUpdate(ctx, args)
			writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})

		case discovery.HideProfileOnClickArgs:
			hidden := d.Discovery.HandleHideProfileOnClick(ctx, args)
			writeJSON(w, http.StatusOK, hiddenResponse{Hidden: hidden})

		default:
			// DecodeArgs guarantees one of the cases above.
			writeError(w, http.StatusBadRequest, "unhandled message")
		}
	}
}

package mockgateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

func writeEnvelope(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status, code int, message string, data any) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "encode envelope data", err)
			}
			writeEnvelope(ctx, logg, w, http.StatusInternalServerError, types.EnvelopeInternal, "encoding failure", nil)
			return
		}
		raw = encoded
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(types.Envelope{Code: code, Message: message, Data: raw}); err != nil && logg != nil {
		logg.Error(ctx, "write envelope", err)
	}
}

func writeOK(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, data any) {
	writeEnvelope(ctx, logg, w, http.StatusOK, types.EnvelopeOK, "ok", data)
}

func writeCreated(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, data any) {
	writeEnvelope(ctx, logg, w, http.StatusCreated, types.EnvelopeOK, "ok", data)
}

func writeDomainError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, code int, message string) {
	// Domain rejections ride an HTTP 200; the client branches on the
	// envelope code.
	writeEnvelope(ctx, logg, w, http.StatusOK, code, message, nil)
}

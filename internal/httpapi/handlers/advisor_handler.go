package handlers

import (
	"net/http"

	"github.com/bengobox/advisor-service/internal/advisor"
	"github.com/bengobox/advisor-service/internal/httpapi/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AdvisorHandler exposes the advisor over HTTP.
type AdvisorHandler struct {
	service advisor.Advisor
	logger  *zap.Logger
}

// NewAdvisorHandler constructs a handler.
func NewAdvisorHandler(service advisor.Advisor, logger *zap.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		service: service,
		logger:  logger,
	}
}

// Advise echoes the caller payload next to the advice. Bodies that are not a
// JSON object are treated as {} rather than rejected.
func (h *AdvisorHandler) Advise(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.logger.Debug("advisor body unreadable, using empty payload",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		body = nil
	}

	payload, err := advisor.DecodePayload(body)
	if err != nil {
		h.logger.Debug("advisor body is not a JSON object, using empty payload",
			zap.Error(err),
			zap.Int("bytes", len(body)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		payload = advisor.EmptyPayload()
	}

	result, err := h.service.Advise(r.Context(), payload)
	if err != nil {
		h.logger.Error("advise failed",
			zap.Error(err),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		respond.Error(w, http.StatusInternalServerError, "advise_failed", "could not produce advice", nil)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

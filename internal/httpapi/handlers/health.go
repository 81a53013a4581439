package handlers

import (
	"net/http"

	"github.com/bengobox/advisor-service/internal/httpapi/respond"
)

// Health responds with basic service status.
func Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package httpapi

import (
	"net/http"

	"github.com/bengobox/advisor-service/internal/httpapi/respond"
)

func notFound(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusNotFound, "not_found", "not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
}

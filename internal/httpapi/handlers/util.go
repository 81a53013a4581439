package handlers

import (
	"io"
	"net/http"
)

// readBody drains the request body. Read failures, including bodies over the
// configured size limit, yield whatever was read so far.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close() //nolint:errcheck
	return io.ReadAll(r.Body)
}

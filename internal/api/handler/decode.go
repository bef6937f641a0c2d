package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/ofelia/internal/api/apierr"
)

// maxBodyBytes bounds request bodies; a registration carries the photo inline.
const maxBodyBytes = 8 << 20

// decodeBody reads a JSON body into v. On failure it writes the error
// response itself and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// decodeForm fills dst from a JSON body, or from form values keyed by the
// struct's json tags when the request is a form post.
func decodeForm(w http.ResponseWriter, r *http.Request, dst any, formKeys map[string]*string) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		for key, ptr := range formKeys {
			*ptr = r.FormValue(key)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return apperr.Validation("request body is required")
	}
	if err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

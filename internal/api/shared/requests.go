package shared

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// ReadBody reads the whole request body and replaces it with an in-memory
// copy, so later handlers can read it again.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// DecodeJSONLenient decodes body into v and reports whether it succeeded.
// Callers treat a malformed or empty body as an empty object, so v is reset
// to its zero value on failure.
func DecodeJSONLenient[T any](body []byte, v *T) bool {
	if err := json.Unmarshal(body, v); err != nil {
		var zero T
		*v = zero
		return false
	}
	return true
}

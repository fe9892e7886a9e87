package route

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// BindJSON decodes the request body as JSON into v. Unknown fields are
// rejected unless allowUnknownFields is true. Exactly one JSON value must
// be present in the body.
//
// Decoding failures are returned as a 400 *HTTPError, so handlers can
// return them unchanged.
func (r *Request) BindJSON(v any, allowUnknownFields ...bool) error {
	if r.Body == nil {
		return &HTTPError{Code: http.StatusBadRequest, Message: "request body is empty"}
	}

	dec := json.NewDecoder(r.Body)
	if len(allowUnknownFields) == 0 || !allowUnknownFields[0] {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &HTTPError{Code: http.StatusBadRequest, Message: "request body is empty", Err: err}
		}
		return &HTTPError{Code: http.StatusBadRequest, Message: "invalid JSON body: " + err.Error(), Err: err}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &HTTPError{Code: http.StatusBadRequest, Message: "unexpected trailing data after JSON value"}
	}
	return nil
}

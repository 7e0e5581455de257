package fperr

import (
	"encoding/json"
	"net/http"
)

// FromAPIResponse decodes a structured error body returned by the Flowpipe
// server into an ErrorModel. The server reports errors as
// {status, instance, detail, validation_errors, title}; anything that does
// not decode falls back to an error carrying the raw status code.
func FromAPIResponse(statusCode int, body []byte) ErrorModel {
	var e ErrorModel
	if err := json.Unmarshal(body, &e); err == nil && e.Status != 0 {
		if e.Instance == "" {
			e.Instance = reference()
		}
		return e
	}

	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeInternal,
		Title:    http.StatusText(statusCode),
		Status:   statusCode,
		Detail:   string(body),
	}
}

// FromTransport wraps a request that never reached the server, so there is
// no response body to decode.
func FromTransport(err error) ErrorModel {
	return ServiceUnavailableWithMessage(err.Error())
}

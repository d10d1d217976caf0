// Package jsonutil provides helper functions for JSON API responses.
//
// Every API response uses the same envelope:
//
//	{"success": true,  "data": ..., "source": "strapi"|"mongodb"}
//	{"success": false, "error": "message"}
//
// Use these helpers in API handlers so the envelope, Content-Type header and
// error formatting stay consistent.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read by Decode and DecodeMap.
const MaxBodyBytes = 1 << 20

// Envelope is the response body shape for every API endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Source  string `json:"source,omitempty"`
	Error   string `json:"error,omitempty"`

	// Metadata is resolved page metadata, set only on page lookups.
	Metadata any `json:"metadata,omitempty"`
}

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, jsonutil.Envelope{Success: true, Data: result})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Success writes a 200 OK envelope carrying data and the source that served it.
// An empty source is omitted.
func Success(w http.ResponseWriter, data any, source string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Source: source})
}

// SuccessWithMetadata is Success plus resolved page metadata.
func SuccessWithMetadata(w http.ResponseWriter, data any, source string, metadata any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Source: source, Metadata: metadata})
}

// OK writes a 200 OK envelope without a source.
func OK(w http.ResponseWriter, data any) {
	Success(w, data, "")
}

// Error writes a failure envelope with the given status code.
// The response body is {"success": false, "error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Error: message})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 Internal Server Error response.
// Use this for unexpected server errors. Do not expose internal details
// to clients - log the actual error separately.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// Decode reads and decodes JSON from the request body into v.
//
// Usage:
//
//	var input faqInput
//	if err := jsonutil.Decode(r, &input); err != nil {
//	    jsonutil.BadRequest(w, "invalid JSON")
//	    return
//	}
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes)).Decode(v)
}

// ErrNotObject is returned by DecodeMap when the body is valid JSON but not an object.
var ErrNotObject = errors.New("request body must be a JSON object")

// DecodeMap reads the request body as a JSON object of raw field values.
func DecodeMap(r *http.Request) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := Decode(r, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

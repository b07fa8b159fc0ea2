// Package httpjson has the JSON request/response helpers shared by the HTTP handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps request bodies; auth and CRUD payloads are small.
const maxBodyBytes = 1 << 20

// Decode reads the request body as JSON into dst. Unknown fields are
// rejected so typos surface as 400s instead of silently dropped fields.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// Write serializes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

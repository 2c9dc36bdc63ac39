// Package jsonutil provides helper functions for JSON API responses.
//
// Two envelope shapes are used across the API:
//   - success: {"success":true, "message":...} or {"success":true, "data":...}
//   - error:   {"error": <title>} optionally with "message" detail
//
// Use these helpers in handlers so both stay consistent.
package jsonutil

import (
	"encoding/json"
	"net/http"

	"github.com/quickstay/quickstay-api/internal/app/system/storeerr"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Message writes a 200 success envelope with a message.
//
//	{"success":true,"message":"Hotel Registered Successfully"}
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

// Data writes a success envelope carrying a payload.
func Data(w http.ResponseWriter, status int, data any) {
	JSON(w, status, map[string]any{"success": true, "data": data})
}

// List writes a success envelope carrying a slice plus its count.
func List(w http.ResponseWriter, count int, data any) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "count": count, "data": data})
}

// Error writes an error envelope with just a title.
// The response body is {"error": title}.
func Error(w http.ResponseWriter, status int, title string) {
	JSON(w, status, map[string]string{"error": title})
}

// ErrorDetail writes an error envelope with a title and detail message.
func ErrorDetail(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, map[string]string{"error": title, "message": detail})
}

// ValidationError writes the 400 envelope for missing/malformed fields.
func ValidationError(w http.ResponseWriter, detail string) {
	ErrorDetail(w, http.StatusBadRequest, "Validation failed", detail)
}

// Unauthorized writes a 401 error envelope.
func Unauthorized(w http.ResponseWriter, detail string) {
	ErrorDetail(w, http.StatusUnauthorized, "Not authenticated", detail)
}

// StoreError classifies err via storeerr and writes the mapped response.
// Internal detail is included only when verbose is true (development).
func StoreError(w http.ResponseWriter, err error, verbose bool) {
	k := storeerr.Classify(err)
	status, title := storeerr.Status(k), storeerr.Title(k)
	if k == storeerr.KindUnknown && !verbose {
		ErrorDetail(w, status, title, "Something went wrong")
		return
	}
	ErrorDetail(w, status, title, err.Error())
}

// Decode reads and decodes JSON from the request body into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

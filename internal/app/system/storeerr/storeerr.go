// Package storeerr maps store-level failures onto the HTTP status policy:
// validation 400, duplicate 409, timeout-shaped 504, anything else 500.
//
// Handlers classify once at the boundary instead of re-implementing the
// mapping per route. Internal detail is suppressed outside development.
package storeerr

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind buckets a store error for response mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindDuplicate
	KindTimeout
	KindNotFound
)

// ErrValidation marks handler-detected payload problems so they map to 400.
var ErrValidation = errors.New("validation failed")

// docValidationCode is MongoDB's DocumentValidationFailure server code.
const docValidationCode = 121

// Classify buckets err. A nil error is KindUnknown; callers check err first.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, mongo.ErrNoDocuments):
		return KindNotFound
	case mongo.IsDuplicateKeyError(err):
		return KindDuplicate
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return KindTimeout
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == docValidationCode {
				return KindValidation
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == docValidationCode {
		return KindValidation
	}

	return KindUnknown
}

// Status returns the HTTP status for a classified error.
func Status(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Title returns the error envelope's "error" field for a classified error.
func Title(k Kind) string {
	switch k {
	case KindValidation:
		return "Validation failed"
	case KindDuplicate:
		return "Conflict"
	case KindTimeout:
		return "Database timeout"
	case KindNotFound:
		return "Not found"
	default:
		return "Internal Server Error"
	}
}

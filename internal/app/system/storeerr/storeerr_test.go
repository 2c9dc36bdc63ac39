package storeerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
	docValErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: docValidationCode, Message: "document failed validation"}}}
	cmdValErr := mongo.CommandError{Code: docValidationCode, Message: "document failed validation"}
	cmdTimeout := mongo.CommandError{Code: 50, Message: "operation exceeded time limit", Labels: []string{"NetworkTimeoutError"}}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"validation sentinel", ErrValidation, KindValidation},
		{"wrapped validation sentinel", fmt.Errorf("register: %w", ErrValidation), KindValidation},
		{"no documents", mongo.ErrNoDocuments, KindNotFound},
		{"duplicate key", dupErr, KindDuplicate},
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"wrapped deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), KindTimeout},
		{"driver timeout", cmdTimeout, KindTimeout},
		{"document validation write error", docValErr, KindValidation},
		{"document validation command error", cmdValErr, KindValidation},
		{"plain error", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusAndTitle(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantStatus int
		wantTitle  string
	}{
		{KindValidation, http.StatusBadRequest, "Validation failed"},
		{KindDuplicate, http.StatusConflict, "Conflict"},
		{KindTimeout, http.StatusGatewayTimeout, "Database timeout"},
		{KindNotFound, http.StatusNotFound, "Not found"},
		{KindUnknown, http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		if got := Status(tt.kind); got != tt.wantStatus {
			t.Errorf("Status(%v) = %d, want %d", tt.kind, got, tt.wantStatus)
		}
		if got := Title(tt.kind); got != tt.wantTitle {
			t.Errorf("Title(%v) = %q, want %q", tt.kind, got, tt.wantTitle)
		}
	}
}

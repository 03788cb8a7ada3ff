package services_test

import (
	"errors"
	"net/http"
	"testing"

	"mixcrate/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	underlying := errors.New("boom")
	err := services.Wrap(services.ErrNotFound, "match", "lookup", "track missing", underlying)

	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected underlying error to survive wrapping: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "scanner", "save", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestKindAndHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"validation", services.Wrap(services.ErrValidation, "api", "", "bad allow-list", nil), "validation", http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "match", "", "", nil), "not_found", http.StatusNotFound},
		{"conflict", services.Wrap(services.ErrConflict, "scanner", "", "", nil), "conflict", http.StatusConflict},
		{"unknown", errors.New("plain"), "internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Kind(tt.err); got != tt.kind {
				t.Errorf("Kind = %q, want %q", got, tt.kind)
			}
			if got := services.HTTPStatus(tt.err); got != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.status)
			}
		})
	}
}

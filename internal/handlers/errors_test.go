package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"astrocadet/internal/game"
	"astrocadet/internal/session"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithGameErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: 9", session.ErrUnknownModule), want: http.StatusNotFound},
		{err: session.ErrCatalogUnavailable, want: http.StatusServiceUnavailable},
		{err: session.ErrInvalidAction, want: http.StatusConflict},
		{err: game.ErrPhaseOver, want: http.StatusConflict},
		{err: game.ErrNotATarget, want: http.StatusBadRequest},
		{err: game.ErrNoSuchBubble, want: http.StatusBadRequest},
		{err: errors.New("unexpected"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithGameError(recorder, tt.err)
			if recorder.Code != tt.want {
				t.Errorf("status = %d, want %d", recorder.Code, tt.want)
			}
		})
	}
}

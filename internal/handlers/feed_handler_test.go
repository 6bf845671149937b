package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/citypulse/internal/middleware"
	"github.com/joshua-takyi/citypulse/internal/models"
	"github.com/joshua-takyi/citypulse/internal/services"
)

var errStoreDown = errors.New("postgrest: connection refused")

type failingEventsRepo struct{}

func (f *failingEventsRepo) CreateEvent(ctx context.Context, event *models.Event, accessToken string) (*models.Event, error) {
	return nil, errStoreDown
}

func (f *failingEventsRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return nil, errStoreDown
}

func (f *failingEventsRepo) ListActiveEvents(ctx context.Context, now time.Time) ([]*models.Event, error) {
	return nil, errStoreDown
}

func (f *failingEventsRepo) UpdateEvent(ctx context.Context, id uuid.UUID, fields map[string]interface{}, accessToken string) (*models.Event, error) {
	return nil, errStoreDown
}

func (f *failingEventsRepo) DeleteEvent(ctx context.Context, id uuid.UUID, accessToken string) error {
	return errStoreDown
}

func TestGetFeedHidesStoreFailureDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fs := services.NewFeedService(&failingEventsRepo{}, nil)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	r.GET("/feed", GetFeed(fs, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "connection refused") || strings.Contains(body, "postgrest") {
		t.Errorf("store failure detail leaked to the client: %s", body)
	}
	if !strings.Contains(body, "Internal server error") {
		t.Errorf("expected the generic error message, got: %s", body)
	}
}

func TestGetFeedRejectsNonIntegerPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fs := services.NewFeedService(&failingEventsRepo{}, nil)

	r := gin.New()
	r.GET("/feed", GetFeed(fs, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feed?page=abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

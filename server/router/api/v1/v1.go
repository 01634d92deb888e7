// Package v1 implements the HTTP API surface: a chat endpoint driving the
// assistant plus direct event listing and export.
package v1

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/caltide/caltide/internal/profile"
	"github.com/caltide/caltide/server/middleware"
	"github.com/caltide/caltide/server/service/calendar"
	"github.com/caltide/caltide/store"
)

// QueryProcessor is the assistant seam used by the chat endpoint. Tests stub
// it.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, text string) string
}

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Calendar calendar.Service

	assistant   QueryProcessor
	rateLimiter *middleware.RateLimiter

	// chatSemaphore serializes conversations: one user message is processed
	// to completion before the next begins.
	chatSemaphore *semaphore.Weighted
}

// NewAPIV1Service creates the API service over its collaborators.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, cal calendar.Service, processor QueryProcessor) *APIV1Service {
	return &APIV1Service{
		Profile:       profile,
		Store:         store,
		Calendar:      cal,
		assistant:     processor,
		rateLimiter:   middleware.NewRateLimiter(2, 5),
		chatSemaphore: semaphore.NewWeighted(1),
	}
}

// Register wires the API routes onto the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.DELETE},
	}))

	api := e.Group("/api/v1")
	api.POST("/chat", s.Chat)
	api.GET("/events", s.ListEvents)
	api.POST("/events/export", s.ExportEvents)
	api.GET("/metrics", s.GetMetrics)
}

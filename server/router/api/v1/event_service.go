package v1

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/caltide/caltide/server/assistant"
	"github.com/caltide/caltide/server/internal/observability"
	"github.com/caltide/caltide/server/service/calendar"
)

// EventResponse is the wire representation of one event. Instants use the
// canonical millisecond-Z form.
type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"all_day,omitempty"`
}

// ListEvents returns the events overlapping the requested range.
// GET /api/v1/events?start=...&end=...
func (s *APIV1Service) ListEvents(c echo.Context) error {
	start, err := assistant.ParseInstant(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid start, expected RFC 3339"})
	}
	end, err := assistant.ParseInstant(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid end, expected RFC 3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "end must be after start"})
	}

	events, err := s.Calendar.ListEvents(c.Request().Context(), start, end)
	if err != nil {
		slog.Error("event listing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	response := make([]EventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, EventResponse{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Location:    event.Location,
			Start:       assistant.FormatInstant(event.Start),
			End:         assistant.FormatInstant(event.End),
			AllDay:      event.AllDay,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// ExportRequest is the snapshot export request body.
type ExportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExportEvents writes a JSON snapshot of the requested range under the data
// directory and returns its path.
// POST /api/v1/events/export
func (s *APIV1Service) ExportEvents(c echo.Context) error {
	req := &ExportRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	start, err := assistant.ParseInstant(req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid start, expected RFC 3339"})
	}
	end, err := assistant.ParseInstant(req.End)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid end, expected RFC 3339"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "end must be after start"})
	}

	name := "snapshot-" + time.Now().UTC().Format("20060102T150405") + "Z.json"
	path := filepath.Join(s.Profile.Data, "snapshots", name)
	if err := calendar.WriteSnapshotFile(c.Request().Context(), s.Calendar, start, end, path); err != nil {
		slog.Error("snapshot export failed", "path", path, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"path": path})
}

// GetMetrics returns the chat processing metrics summary.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, observability.GlobalMetrics().Current())
}

package calendar

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// wireInstantLayout encodes instants for the remote calendar: UTC with
// millisecond precision and a literal "Z" marker.
const wireInstantLayout = "2006-01-02T15:04:05.000Z"

// googleCalendarID is the calendar operated on. "primary" is the
// authenticated user's default calendar.
const googleCalendarID = "primary"

// GoogleService talks to the Google Calendar API. Credentials follow the
// usual two-file layout: an OAuth client secret plus a cached user token.
type GoogleService struct {
	service *gcalendar.Service
}

// NewGoogleService builds a calendar service from the OAuth client secret at
// credentialsFile and the cached token at tokenFile.
func NewGoogleService(ctx context.Context, credentialsFile, tokenFile string) (*GoogleService, error) {
	secret, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read credentials file %s", credentialsFile)
	}
	config, err := google.ConfigFromJSON(secret, gcalendar.CalendarScope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse OAuth client secret")
	}

	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read token file %s, complete the OAuth flow first", tokenFile)
	}

	service, err := gcalendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create calendar client")
	}
	return &GoogleService{service: service}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, errors.Wrap(err, "failed to decode token")
	}
	return token, nil
}

// ListEvents returns the events overlapping [start, end), ordered by start.
func (s *GoogleService) ListEvents(ctx context.Context, start, end time.Time) ([]*Event, error) {
	result, err := s.service.Events.List(googleCalendarID).
		TimeMin(start.UTC().Format(wireInstantLayout)).
		TimeMax(end.UTC().Format(wireInstantLayout)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	events := make([]*Event, 0, len(result.Items))
	for _, item := range result.Items {
		event, err := fromGoogleEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// CreateEvent creates an event on the primary calendar.
func (s *GoogleService) CreateEvent(ctx context.Context, create *CreateEventRequest) (string, error) {
	if create.Title == "" {
		return "", errors.New("event title is required")
	}
	if create.DurationMinutes < 1 {
		return "", errors.Errorf("invalid duration: %d minutes", create.DurationMinutes)
	}

	start := create.Start.UTC()
	end := start.Add(time.Duration(create.DurationMinutes) * time.Minute)

	body := &gcalendar.Event{
		Summary:     create.Title,
		Description: create.Description,
		Location:    create.Location,
		Start:       &gcalendar.EventDateTime{DateTime: start.Format(wireInstantLayout), TimeZone: "UTC"},
		End:         &gcalendar.EventDateTime{DateTime: end.Format(wireInstantLayout), TimeZone: "UTC"},
	}
	for _, attendee := range create.Attendees {
		body.Attendees = append(body.Attendees, &gcalendar.EventAttendee{Email: attendee})
	}

	created, err := s.service.Events.Insert(googleCalendarID, body).Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "failed to create event")
	}
	return created.Id, nil
}

// UpdateEvent patches the identified event with the non-nil fields.
func (s *GoogleService) UpdateEvent(ctx context.Context, id string, update *UpdateEventRequest) error {
	patch := &gcalendar.Event{}
	if update.Title != nil {
		patch.Summary = *update.Title
	}
	if update.Description != nil {
		patch.Description = *update.Description
	}
	if update.Location != nil {
		patch.Location = *update.Location
	}
	if update.Start != nil {
		existing, err := s.service.Events.Get(googleCalendarID, id).Context(ctx).Do()
		if err != nil {
			return errors.Wrapf(err, "failed to get event %s", id)
		}
		duration, err := googleEventDuration(existing)
		if err != nil {
			return err
		}
		start := update.Start.UTC()
		patch.Start = &gcalendar.EventDateTime{DateTime: start.Format(wireInstantLayout), TimeZone: "UTC"}
		patch.End = &gcalendar.EventDateTime{DateTime: start.Add(duration).Format(wireInstantLayout), TimeZone: "UTC"}
	}

	if _, err := s.service.Events.Patch(googleCalendarID, id, patch).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "failed to update event %s", id)
	}
	return nil
}

// DeleteEvent removes the identified event.
func (s *GoogleService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.service.Events.Delete(googleCalendarID, id).Context(ctx).Do(); err != nil {
		return errors.Wrapf(err, "failed to delete event %s", id)
	}
	return nil
}

// fromGoogleEvent maps a remote event onto the collaborator entity. Date-only
// bounds mark an all-day event spanning the whole UTC day.
func fromGoogleEvent(item *gcalendar.Event) (*Event, error) {
	event := &Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
	}

	switch {
	case item.Start == nil || item.End == nil:
		return nil, errors.Errorf("event %s has no time bounds", item.Id)
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start of event %s", item.Id)
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse end of event %s", item.Id)
		}
		event.Start = start.UTC()
		event.End = end.UTC()
	default:
		start, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse start date of event %s", item.Id)
		}
		end, err := time.Parse("2006-01-02", item.End.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse end date of event %s", item.Id)
		}
		event.Start = start.UTC()
		event.End = end.UTC()
		event.AllDay = true
	}

	return event, nil
}

func googleEventDuration(item *gcalendar.Event) (time.Duration, error) {
	event, err := fromGoogleEvent(item)
	if err != nil {
		return 0, err
	}
	return event.End.Sub(event.Start), nil
}

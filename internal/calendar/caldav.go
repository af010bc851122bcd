// Package calendar mirrors created events to a CalDAV server.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/daybook-ai/daybook/internal/config"
	"github.com/daybook-ai/daybook/internal/httpkit"
)

// defaultDuration applies when the classifier extracted no end time.
const defaultDuration = time.Hour

// Client creates events on a CalDAV calendar collection. It satisfies
// the pipeline's EventCreator interface.
type Client struct {
	dav      *caldav.Client
	calendar string
	logger   *slog.Logger
}

// New builds a CalDAV client with basic auth.
func New(cfg config.CalDAVConfig, logger *slog.Logger) (*Client, error) {
	httpClient := webdav.HTTPClientWithBasicAuth(httpkit.NewClient(), cfg.Username, cfg.Password)
	dav, err := caldav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("caldav client: %w", err)
	}
	return &Client{
		dav:      dav,
		calendar: strings.TrimSuffix(cfg.Calendar, "/"),
		logger:   logger,
	}, nil
}

// CreateEvent writes one VEVENT to the calendar collection and returns
// its UID.
func (c *Client) CreateEvent(ctx context.Context, title string, start time.Time, end *time.Time, location, description string) (string, error) {
	uid := uuid.NewString()

	endAt := start.Add(defaultDuration)
	if end != nil {
		endAt = *end
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, endAt)
	event.Props.SetText(ical.PropSummary, title)
	if location != "" {
		event.Props.SetText(ical.PropLocation, location)
	}
	if description != "" {
		event.Props.SetText(ical.PropDescription, description)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//daybook//daybook//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Children = append(cal.Children, event.Component)

	path := fmt.Sprintf("%s/%s.ics", c.calendar, uid)
	if _, err := c.dav.PutCalendarObject(ctx, path, cal); err != nil {
		return "", fmt.Errorf("put calendar object: %w", err)
	}

	c.logger.Debug("calendar event created", "uid", uid, "title", title, "start", start)
	return uid, nil
}

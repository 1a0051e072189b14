package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/orgtodo/pkg/auth"
	"github.com/harrisonrobin/orgtodo/pkg/colors"
	"github.com/harrisonrobin/orgtodo/pkg/index"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewClient authenticates with the credentials in authDir and returns a
// client for the calendar whose name is calendarName.
func NewClient(ctx context.Context, authDir, calendarName string, idx *index.EventIndex, cc *colors.ColorCache) (*CalendarClient, error) {
	client, err := auth.GetClient(ctx, authDir, auth.Scopes)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID, err := FindCalendarID(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx, cc), nil
}

// FindCalendarID looks a calendar up by its display name.
func FindCalendarID(ctx context.Context, srv *calendar.Service, name string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == name {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", name)
}

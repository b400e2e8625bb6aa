package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// CreateEventCmd creates the createEvent command
func CreateEventCmd(app *AppContext) *cobra.Command {
	var req workspace.CreateEventRequest
	cmd := &cobra.Command{
		Use:   "createEvent <summary> <start> <end>",
		Short: "Create a calendar event, optionally with Google Meet",
		Long: `Create a calendar event. Start and end are ISO 8601, e.g. 2025-06-01T09:00:00.
Times without an offset are read in --time-zone, or the configured default.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Summary, req.Start, req.End = args[0], args[1], args[2]
			return app.Print(app.API.CreateEvent(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&req.Location, "location", "", "Event location")
	cmd.Flags().StringVar(&req.TimeZone, "time-zone", "", "IANA time zone")
	cmd.Flags().StringVar(&req.CalendarID, "calendar", "", "Calendar ID (defaults to primary)")
	cmd.Flags().StringSliceVar(&req.Attendees, "attendee", nil, "Attendee email addresses")
	cmd.Flags().BoolVar(&req.UseGoogleMeet, "meet", false, "Attach a Google Meet conference")
	cmd.Flags().StringVar(&req.CustomJoinLink, "join-link", "", "Join link added to the description and location")
	cmd.Flags().StringArrayVar(&req.Recurrence, "recurrence", nil, "RRULE, EXRULE, RDATE or EXDATE line")
	cmd.Flags().StringVar(&req.SendUpdates, "send-updates", "all", "Who is notified: all, externalOnly or none")

	return cmd
}

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	var req workspace.ListEventsRequest
	cmd := &cobra.Command{
		Use:   "listEvents <start> <end>",
		Short: "List events between two ISO 8601 times",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Start, req.End = args[0], args[1]
			return app.Print(app.API.ListEvents(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.CalendarID, "calendar", "", "Calendar ID (defaults to primary)")
	cmd.Flags().StringVar(&req.TimeZone, "time-zone", "", "IANA time zone")
	cmd.Flags().IntVar(&req.MaxResults, "max", 100, "Maximum events returned")

	return cmd
}

// DeleteEventsCmd creates the deleteEvents command
func DeleteEventsCmd(app *AppContext) *cobra.Command {
	var calendarID string
	cmd := &cobra.Command{
		Use:   "deleteEvents <event_id>...",
		Short: "Delete one or more events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.DeleteEvents(app.Ctx, workspace.DeleteEventsRequest{EventIDs: args, CalendarID: calendarID}))
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID (defaults to primary)")

	return cmd
}

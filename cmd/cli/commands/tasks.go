package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// CreateTaskCmd creates the createTask command
func CreateTaskCmd(app *AppContext) *cobra.Command {
	var req workspace.CreateTaskRequest
	cmd := &cobra.Command{
		Use:   "createTask <title>",
		Short: "Add a task to a task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = args[0]
			return app.Print(app.API.CreateTask(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.Notes, "notes", "", "Task notes")
	cmd.Flags().StringVar(&req.Due, "due", "", "Due date, ISO 8601")
	cmd.Flags().StringVar(&req.TaskListID, "list", "", "Task list ID (defaults to the default list)")

	return cmd
}

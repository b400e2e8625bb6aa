package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// SendEmailCmd creates the sendEmail command
func SendEmailCmd(app *AppContext) *cobra.Command {
	var req workspace.SendEmailRequest
	cmd := &cobra.Command{
		Use:   "sendEmail <to>...",
		Short: "Send a plain-text email",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.To = args
			return app.Print(app.API.SendEmail(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.Sender, "from", "", "Sender address (defaults to the account)")
	cmd.Flags().StringVarP(&req.Subject, "subject", "s", "", "Subject")
	cmd.Flags().StringVarP(&req.Body, "body", "b", "", "Body text")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// CreateFormCmd creates the createForm command
func CreateFormCmd(app *AppContext) *cobra.Command {
	var req workspace.CreateFormRequest
	cmd := &cobra.Command{
		Use:   "createForm [title]",
		Short: "Create a form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title = ""
			if len(args) > 0 {
				req.Title = args[0]
			}
			return app.Print(app.API.CreateForm(app.Ctx, req))
		},
	}

	cmd.Flags().StringVar(&req.EmailCollection, "email-collection", "RESPONDER_INPUT", "VERIFIED, RESPONDER_INPUT or DO_NOT_COLLECT")

	return cmd
}

// SetEmailCollectionCmd creates the setEmailCollection command
func SetEmailCollectionCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setEmailCollection <form_id> <mode>",
		Short: "Set how a form collects respondent emails",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.SetEmailCollection(app.Ctx, workspace.SetEmailCollectionRequest{FormID: args[0], Mode: args[1]}))
		},
	}
}

// AddQuestionsCmd creates the addQuestions command
func AddQuestionsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "addQuestions <form_id> <requests_file>",
		Short: "Apply Forms batchUpdate requests read from a JSON array (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workspace.AddQuestionsRequest{FormID: args[0]}
			if err := readJSONFile(args[1], &req.Requests); err != nil {
				return err
			}
			return app.Print(app.API.AddQuestions(app.Ctx, req))
		},
	}
}

// FormResponsesCmd creates the formResponses command
func FormResponsesCmd(app *AppContext) *cobra.Command {
	var req workspace.FormResponsesRequest
	cmd := &cobra.Command{
		Use:   "formResponses <form_id>",
		Short: "List a form's responses as records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FormID = args[0]
			return app.Print(app.API.FormResponses(app.Ctx, req))
		},
	}

	cmd.Flags().BoolVar(&req.UseIDs, "ids", false, "Key answers by question ID instead of title")
	cmd.Flags().BoolVar(&req.AsLists, "lists", false, "Keep every answer as a list")

	return cmd
}

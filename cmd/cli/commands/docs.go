package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// WriteMarkdownCmd creates the writeMarkdown command
func WriteMarkdownCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "writeMarkdown <doc_id> <markdown_file>",
		Short: "Insert Markdown at the start of a Google Doc (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := readText(args[1])
			if err != nil {
				return err
			}
			return app.Print(app.API.WriteMarkdown(app.Ctx, workspace.WriteMarkdownRequest{DocID: args[0], Markdown: markdown}))
		},
	}
}

// ExtractMarkdownCmd creates the extractMarkdown command
func ExtractMarkdownCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extractMarkdown <doc_id>",
		Short: "Render a Google Doc as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.ExtractMarkdown(app.Ctx, workspace.ExtractMarkdownRequest{DocID: args[0]}))
		},
	}
}

// ParseMarkdownCmd creates the parseMarkdown command
func ParseMarkdownCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parseMarkdown <markdown_file>",
		Short: "Show the Docs requests Markdown converts into, without calling the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := readText(args[0])
			if err != nil {
				return err
			}
			return app.Print(workspace.ParseMarkdown(markdown))
		},
	}
}

func readText(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

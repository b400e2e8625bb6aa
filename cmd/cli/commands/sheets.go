package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/google-api-wrapper/pkg/workspace"
)

// ListSheetsCmd creates the listSheets command
func ListSheetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listSheets <spreadsheet_id>",
		Short: "Read every tab of a spreadsheet as records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Print(app.API.ListSheets(app.Ctx, workspace.ListSheetsRequest{SpreadsheetID: args[0]}))
		},
	}
}

// AddSheetCmd creates the addSheet command
func AddSheetCmd(app *AppContext) *cobra.Command {
	var (
		columns     []string
		rowsFile    string
		recordsFile string
	)
	cmd := &cobra.Command{
		Use:   "addSheet <spreadsheet_id> <sheet_name>",
		Short: "Add a tab and write a header and rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workspace.AddSheetRequest{
				SpreadsheetID: args[0],
				SheetName:     args[1],
				Columns:       columns,
			}
			if rowsFile != "" {
				if err := readJSONFile(rowsFile, &req.Rows); err != nil {
					return err
				}
			}
			if recordsFile != "" {
				if err := readJSONFile(recordsFile, &req.Records); err != nil {
					return err
				}
			}
			return app.Print(app.API.AddSheet(app.Ctx, req))
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Header columns")
	cmd.Flags().StringVar(&rowsFile, "rows", "", "JSON file holding an array of string rows")
	cmd.Flags().StringVar(&recordsFile, "records", "", "JSON file holding an array of objects")

	return cmd
}

package cmd

import (
	"os"

	"etlcheck/internal/mapping"
	"etlcheck/internal/report"
	"etlcheck/internal/sheet"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Detect a mapping sheet's layout and print the extracted mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("sheet")
		sheetName, _ := cmd.Flags().GetString("sheet-name")
		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")
		formatFlag, _ := cmd.Flags().GetString("format")

		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		rows, err := sheet.ReadFile(path, sheetName)
		if err != nil {
			return err
		}

		p := &mapping.Parser{
			SourceSchema: Catalog.Lookup(cmd.Context(), source),
			TargetSchema: Catalog.Lookup(cmd.Context(), target),
			Log:          Log,
		}
		return report.RenderSheet(os.Stdout, p.Parse(rows), format)
	},
}

func init() {
	RootCmd.AddCommand(parseCmd)

	f := parseCmd.Flags()
	f.StringP("sheet", "s", "", "mapping sheet file (.csv, .txt, .xlsx, .xlsm)")
	f.String("sheet-name", "", "worksheet name for xlsx files (default: first sheet)")
	f.String("source", "", "source connection name for column validation")
	f.String("target", "", "target connection name for column validation")
	f.StringP("format", "f", "table", "output format: table, markdown, json, yaml")
	parseCmd.MarkFlagRequired("sheet")
}

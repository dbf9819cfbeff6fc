package cmd

import (
	"fmt"
	"os"
	"time"

	"etlcheck/internal/report"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Fetch and print the schema of a configured connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		connFlag, _ := cmd.Flags().GetString("conn")
		formatFlag, _ := cmd.Flags().GetString("format")
		columns, _ := cmd.Flags().GetBool("columns")

		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		name, err := resolveConnection(connFlag)
		if err != nil {
			return err
		}

		start := time.Now()
		db, err := Catalog.FetchSchema(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("fetch schema for %s: %w", name, err)
		}
		if err := report.RenderSchema(os.Stdout, db, format, columns); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "🔍 %s: %d tables, %d columns (%s)\n",
			name, db.TableCount(), db.ColumnCount(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringP("conn", "c", "", "connection name (default: the active one)")
	schemaCmd.Flags().StringP("format", "f", "table", "output format: table, markdown, json, yaml")
	schemaCmd.Flags().Bool("columns", false, "list every column instead of one row per table")
}

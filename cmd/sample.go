package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"etlcheck/internal/engine"
	"etlcheck/internal/sheet"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic mapping sheet for trying out the generator",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("rows")
		seed, _ := cmd.Flags().GetInt64("seed")
		output, _ := cmd.Flags().GetString("output")

		if n <= 0 {
			return fmt.Errorf("--rows must be positive, got %d", n)
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		rows := engine.SampleSheet(n, seed)
		switch strings.ToLower(filepath.Ext(output)) {
		case "":
			return sheet.WriteCSV(os.Stdout, rows)
		case ".csv", ".txt":
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := sheet.WriteCSV(f, rows); err != nil {
				return err
			}
		case ".xlsx":
			if err := sheet.WriteXLSX(output, rows); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported sample output %q (use .csv or .xlsx)", output)
		}
		fmt.Fprintf(os.Stderr, "📄 %d sample rows written to %s (seed %d)\n", n, output, seed)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntP("rows", "n", 24, "number of mapping rows")
	sampleCmd.Flags().Int64("seed", 0, "random seed (default: time based)")
	sampleCmd.Flags().StringP("output", "o", "", "output file, .csv or .xlsx (default: csv on stdout)")
}

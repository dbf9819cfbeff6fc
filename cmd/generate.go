package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"etlcheck/internal/engine"
	"etlcheck/internal/mapping"
	"etlcheck/internal/report"
	"etlcheck/internal/sheet"
	"etlcheck/internal/testgen"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ETL validation tests from a mapping sheet",
	Long: `Parses a mapping sheet (csv or xlsx), optionally validates it against
live schemas, and writes a suite of paired source/target SQL tests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("sheet")
		sheetName, _ := cmd.Flags().GetString("sheet-name")
		output, _ := cmd.Flags().GetString("output")

		format, err := report.ParseFormat(viper.GetString("generate.format"))
		if err != nil {
			return err
		}

		rows, err := sheet.ReadFile(path, sheetName)
		if err != nil {
			return err
		}
		Log.Debug("sheet loaded", zap.String("path", path), zap.Int("rows", len(rows)))

		req := engine.Request{
			Rows:             rows,
			SourceConnection: viper.GetString("generate.source"),
			TargetConnection: viper.GetString("generate.target"),
			SourceDialect:    viper.GetString("generate.source_dialect"),
			TargetDialect:    viper.GetString("generate.target_dialect"),
			PipelineName:     viper.GetString("settings.pipeline"),
			AuditTable:       viper.GetString("audit.table"),
			RejectTable:      viper.GetString("audit.reject_table"),
			SampleLimit:      viper.GetInt("settings.sample_limit"),
			Suite: testgen.SuiteOptions{
				Comprehensive:    viper.GetBool("generate.comprehensive"),
				SchemaValidation: viper.GetBool("generate.schema_validation"),
				Audit:            viper.GetBool("generate.audit"),
			},
		}

		// the bar shares stdout with the report, so it only runs for file output
		var bar *uiprogress.Bar
		if output != "" {
			uiprogress.Start()
			req.Suite.Progress = func(p mapping.TablePair, done, total int) {
				if bar == nil {
					bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
					bar.PrependFunc(func(b *uiprogress.Bar) string {
						return "Generating: "
					})
				}
				bar.Incr()
			}
		}

		start := time.Now()
		res, err := engine.New(Catalog, Conns, Log).Run(cmd.Context(), req)
		if output != "" {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		if err := report.Render(w, report.Build(res.Analysis, nil), format); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "\n✅ %d tests for %d target tables (%s, confidence %.2f) in %s\n",
			len(res.Analysis.TestCases), len(res.Analysis.TargetTables),
			res.Sheet.Format, res.Sheet.Metadata.FormatConfidence, time.Since(start).Round(time.Millisecond))
		if output != "" {
			fmt.Fprintf(os.Stderr, "📄 Written to %s\n", output)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringP("sheet", "s", "", "mapping sheet file (.csv, .txt, .xlsx, .xlsm)")
	f.String("sheet-name", "", "worksheet name for xlsx files (default: first sheet)")
	f.String("source", "", "source connection name for schema validation")
	f.String("target", "", "target connection name for schema validation")
	f.String("source-dialect", "", "source SQL dialect (default: source connection's)")
	f.String("target-dialect", "", "target SQL dialect (default: target connection's)")
	f.String("pipeline", "", "pipeline name used by audit and integration tests")
	f.Int("sample-limit", 0, "row limit for sampled comparisons")
	f.Bool("comprehensive", false, "add the full per-table test catalog")
	f.Bool("schema-validation", false, "add schema structure checks per table")
	f.Bool("audit", false, "add pipeline audit checks")
	f.StringP("format", "f", "table", "output format: table, markdown, json, yaml")
	f.StringP("output", "o", "", "write the report to a file instead of stdout")
	generateCmd.MarkFlagRequired("sheet")

	viper.BindPFlag("generate.source", f.Lookup("source"))
	viper.BindPFlag("generate.target", f.Lookup("target"))
	viper.BindPFlag("generate.source_dialect", f.Lookup("source-dialect"))
	viper.BindPFlag("generate.target_dialect", f.Lookup("target-dialect"))
	viper.BindPFlag("generate.comprehensive", f.Lookup("comprehensive"))
	viper.BindPFlag("generate.schema_validation", f.Lookup("schema-validation"))
	viper.BindPFlag("generate.audit", f.Lookup("audit"))
	viper.BindPFlag("generate.format", f.Lookup("format"))
	viper.BindPFlag("settings.pipeline", f.Lookup("pipeline"))
	viper.BindPFlag("settings.sample_limit", f.Lookup("sample-limit"))
}

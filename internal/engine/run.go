package engine

import (
	"context"
	"errors"
	"time"

	"etlcheck/internal/catalog"
	"etlcheck/internal/mapping"
	"etlcheck/internal/schema"
	"etlcheck/internal/sheet"
	"etlcheck/internal/testgen"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoRows = errors.New("no mapping sheet rows provided")

// Request is one generation run. Connection ids are optional; without them
// the run works from sheet text alone.
type Request struct {
	Rows []sheet.Row

	SourceConnection string
	TargetConnection string
	// Dialect tags default to the connection's dialect.
	SourceDialect string
	TargetDialect string

	PipelineName string
	AuditTable   string
	RejectTable  string
	SampleLimit  int

	Suite testgen.SuiteOptions
}

type Result struct {
	Sheet        *mapping.Sheet
	Analysis     *testgen.Analysis
	SourceSchema *schema.Database
	TargetSchema *schema.Database
	Elapsed      time.Duration
}

// Engine wires the schema catalog, the parser and the generators.
type Engine struct {
	Catalog     *catalog.Catalog
	Connections catalog.Connections
	Log         *zap.Logger
}

func New(c *catalog.Catalog, conns catalog.Connections, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{Catalog: c, Connections: conns, Log: log}
}

// Run parses the sheet and builds the test suite. Schema problems never fail
// a run: a missing schema only skips validation.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Rows == nil {
		return nil, ErrNoRows
	}
	log := e.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	srcSchema, tgtSchema := e.schemas(ctx, req.SourceConnection, req.TargetConnection)

	parser := &mapping.Parser{SourceSchema: srcSchema, TargetSchema: tgtSchema, Log: log}
	parsed := parser.Parse(req.Rows)
	log.Info("mapping sheet parsed",
		zap.String("format", string(parsed.Format)),
		zap.Float64("confidence", parsed.Metadata.FormatConfidence),
		zap.Int("rows", parsed.Metadata.TotalRows),
		zap.Int("mappings", len(parsed.Mappings)))

	opts := testgen.Options{
		SourceSchema:  srcSchema,
		TargetSchema:  tgtSchema,
		PipelineName:  req.PipelineName,
		SourceDialect: e.dialectTag(req.SourceDialect, req.SourceConnection),
		TargetDialect: e.dialectTag(req.TargetDialect, req.TargetConnection),
		AuditTable:    req.AuditTable,
		RejectTable:   req.RejectTable,
		SampleLimit:   req.SampleLimit,
	}
	analysis := testgen.BuildSuite(parsed.Mappings, opts, req.Suite)

	res := &Result{
		Sheet:        parsed,
		Analysis:     analysis,
		SourceSchema: srcSchema,
		TargetSchema: tgtSchema,
		Elapsed:      time.Since(start),
	}
	log.Info("test suite generated",
		zap.Int("tests", len(analysis.TestCases)),
		zap.Int("targetTables", len(analysis.TargetTables)),
		zap.Duration("took", res.Elapsed))
	return res, nil
}

// schemas looks up both sides concurrently. Lookup is fail-open, so the
// group never carries an error.
func (e *Engine) schemas(ctx context.Context, srcID, tgtID string) (src, tgt *schema.Database) {
	if e.Catalog == nil {
		return nil, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src = e.Catalog.Lookup(gctx, srcID)
		return nil
	})
	g.Go(func() error {
		tgt = e.Catalog.Lookup(gctx, tgtID)
		return nil
	})
	_ = g.Wait()
	return src, tgt
}

func (e *Engine) dialectTag(explicit, connectionID string) string {
	if explicit != "" || connectionID == "" {
		return explicit
	}
	if conn, err := e.Connections.Get(connectionID); err == nil {
		return conn.DialectTag()
	}
	return ""
}

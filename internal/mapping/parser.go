package mapping

import (
	"fmt"
	"strings"

	"etlcheck/internal/schema"
	"etlcheck/internal/sheet"

	"go.uber.org/zap"
)

type strategy struct {
	name string
	run  func([]sheet.Row, []string) *result
}

// strategies in tie-break order
var strategies = []strategy{
	{"standard", parseStandard},
	{"multi_source", parseMultiSource},
	{"transformation_rules", parseRules},
	{"vertical", parseVertical},
	{"generic", parseGeneric},
}

// Parser turns mapping-sheet rows into column mappings. Schemas are optional
// and only used to drop mappings whose column is provably absent.
type Parser struct {
	SourceSchema *schema.Database
	TargetSchema *schema.Database
	Log          *zap.Logger
}

func (p *Parser) logger() *zap.Logger {
	if p == nil || p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Parse never fails: unrecognized input comes back as a generic result with
// near-zero confidence.
func (p *Parser) Parse(rows []sheet.Row) (out *Sheet) {
	log := p.logger()
	defer func() {
		if r := recover(); r != nil {
			log.Error("mapping sheet parse failed", zap.String("panic", fmt.Sprint(r)))
			out = p.assemble(len(rows), nil, parseGeneric(nil, nil))
		}
	}()

	body := discoverHeader(rows)
	headers := columnsOf(body)

	var best *result
	for _, s := range strategies {
		r := s.run(body, headers)
		if r == nil {
			continue
		}
		log.Debug("strategy evaluated",
			zap.String("strategy", s.name),
			zap.Float64("confidence", r.confidence),
			zap.Int("mappings", len(r.mappings)))
		if best == nil || r.confidence > best.confidence {
			best = r
		}
	}
	return p.assemble(len(rows), headers, best)
}

func (p *Parser) assemble(total int, headers []string, r *result) *Sheet {
	mappings := p.validate(r.mappings)

	out := &Sheet{
		SourceTables: []string{},
		TargetTables: []string{},
		Mappings:     mappings,
		Format:       r.format,
		Rules:        []string{},
		Metadata: Metadata{
			TotalRows:        total,
			DetectedColumns:  headers,
			FormatConfidence: clamp(r.confidence),
		},
	}
	if out.Mappings == nil {
		out.Mappings = []Mapping{}
	}
	if out.Metadata.DetectedColumns == nil {
		out.Metadata.DetectedColumns = []string{}
	}

	src, tgt, rules := newOrderedSet(), newOrderedSet(), newOrderedSet()
	for _, m := range mappings {
		src.add(m.SourceTable, strings.ToLower(m.SourceTable))
		tgt.add(m.TargetTable, strings.ToLower(m.TargetTable))
		if !m.IsDirect() {
			logic := strings.TrimSpace(m.TransformationLogic)
			rules.add(logic, logic)
		}
	}
	for _, rule := range r.rules {
		rules.add(rule, rule)
	}
	out.SourceTables = src.items
	out.TargetTables = tgt.items
	out.Rules = rules.items

	p.logger().Info("mapping sheet parsed",
		zap.String("format", string(out.Format)),
		zap.Float64("confidence", out.Metadata.FormatConfidence),
		zap.Int("mappings", len(out.Mappings)))
	return out
}

// validate drops a mapping only when its table is known to a schema and the
// column is missing from that table. Declared types are filled in from the
// schema when the sheet left them blank.
func (p *Parser) validate(in []Mapping) []Mapping {
	if p == nil || (p.SourceSchema == nil && p.TargetSchema == nil) {
		return in
	}
	log := p.logger()
	out := make([]Mapping, 0, len(in))
	for _, m := range in {
		if t := schema.FindTable(p.SourceSchema, m.SourceTable); t != nil {
			c := schema.FindColumn(t, m.SourceColumn)
			if c == nil {
				log.Debug("dropping mapping, source column not in schema",
					zap.String("table", t.FullName), zap.String("column", m.SourceColumn))
				continue
			}
			if m.SourceDataType == "" {
				m.SourceDataType = c.DataType
			}
			if !m.IsKey && t.IsKeyColumn(c.Name) {
				m.IsKey = true
			}
		}
		if t := schema.FindTable(p.TargetSchema, m.TargetTable); t != nil {
			c := schema.FindColumn(t, m.TargetColumn)
			if c == nil {
				log.Debug("dropping mapping, target column not in schema",
					zap.String("table", t.FullName), zap.String("column", m.TargetColumn))
				continue
			}
			if m.TargetDataType == "" {
				m.TargetDataType = c.DataType
			}
		}
		out = append(out, m)
	}
	return out
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(v, key string) {
	if v == "" || s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, v)
}

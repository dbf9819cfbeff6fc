package mapping

import "strings"

type role int

const (
	roleSourceColumn role = iota
	roleTargetColumn
	roleSourceTable
	roleTargetTable
	roleTransformation
	roleSourceSchema
	roleTargetSchema
	roleSourceDatabase
	roleTargetDatabase
	roleSourceDataType
	roleTargetDataType
	roleTransformationType
)

type roleSpec struct {
	role     role
	keywords []string
	// headers containing any of these never take the role
	excludes []string
}

var columnExcludes = []string{"table", "schema", "database", "db", "type", "length", "size", "nullable", "system", "description", "desc"}

// roleSpecs is also the claim order: each header is taken by the first role
// that scores it highest.
var roleSpecs = []roleSpec{
	{roleSourceColumn, []string{"sourcecolumn", "sourcefield", "srccolumn", "srcfield", "srccol", "sourcecol",
		"sourceattribute", "sourcecolumnname", "sourcefieldname", "fromcolumn", "fromfield", "source", "src"}, columnExcludes},
	{roleTargetColumn, []string{"targetcolumn", "targetfield", "tgtcolumn", "tgtfield", "tgtcol", "targetcol",
		"targetattribute", "targetcolumnname", "targetfieldname", "destinationcolumn", "destcolumn", "tocolumn", "tofield", "target", "tgt"}, columnExcludes},
	{roleSourceTable, []string{"sourcetable", "srctable", "sourcetablename", "sourceentity", "sourceobject", "fromtable", "sourcefile"},
		[]string{"column", "field", "schema", "database", "type"}},
	{roleTargetTable, []string{"targettable", "tgttable", "targettablename", "targetentity", "targetobject", "destinationtable", "totable"},
		[]string{"column", "field", "schema", "database", "type"}},
	{roleTransformation, []string{"transformationlogic", "transformation", "transformationrule", "transformationrules", "businessrule",
		"businesslogic", "mappinglogic", "mappingrule", "derivation", "derivationlogic", "logic", "transform", "rule"},
		[]string{"type", "id", "category"}},
	{roleSourceSchema, []string{"sourceschema", "srcschema"}, nil},
	{roleTargetSchema, []string{"targetschema", "tgtschema"}, nil},
	{roleSourceDatabase, []string{"sourcedatabase", "sourcedb", "srcdatabase", "srcdb"}, nil},
	{roleTargetDatabase, []string{"targetdatabase", "targetdb", "tgtdatabase", "tgtdb"}, nil},
	{roleSourceDataType, []string{"sourcedatatype", "srcdatatype", "sourcetype", "srctype"}, []string{"transformation"}},
	{roleTargetDataType, []string{"targetdatatype", "tgtdatatype", "targettype", "tgttype", "datatype"}, []string{"transformation", "source", "src"}},
	{roleTransformationType, []string{"transformationtype", "mappingtype", "ruletype"}, nil},
}

const roleThreshold = 0.3

// matchScore is 1.0 for an exact match, 0.8 for prefix/suffix, 0.6 when the
// header contains the keyword and 0.4 when the keyword contains the header.
func matchScore(header, keyword string) float64 {
	switch {
	case header == "":
		return 0
	case header == keyword:
		return 1.0
	case strings.HasPrefix(header, keyword) || strings.HasSuffix(header, keyword):
		return 0.8
	case strings.Contains(header, keyword):
		return 0.6
	case len(header) >= 3 && strings.Contains(keyword, header):
		return 0.4
	default:
		return 0
	}
}

func (s roleSpec) score(header string) float64 {
	h := normalizeHeader(header)
	for _, ex := range s.excludes {
		if strings.Contains(h, ex) {
			return 0
		}
	}
	best := 0.0
	for _, kw := range s.keywords {
		if sc := matchScore(h, kw); sc > best {
			best = sc
		}
	}
	return best
}

// assignRoles claims at most one header per role, in roleSpecs order.
func assignRoles(headers []string) map[role]string {
	out := make(map[role]string)
	taken := make(map[string]bool)
	for _, spec := range roleSpecs {
		bestHeader, bestScore := "", 0.0
		for _, h := range headers {
			if taken[h] || isPlaceholder(h) {
				continue
			}
			if sc := spec.score(h); sc > bestScore {
				bestHeader, bestScore = h, sc
			}
		}
		if bestHeader != "" && bestScore >= roleThreshold {
			out[spec.role] = bestHeader
			taken[bestHeader] = true
		}
	}
	return out
}

package testgen

import "strings"

// Phase is the pipeline stage a target table belongs to.
type Phase struct {
	Number int
	Name   string
}

// phaseRules are checked in order; EDWLANDING must precede LANDING and EDW.
var phaseRules = []struct {
	markers []string
	phase   Phase
}{
	{[]string{"EDWLANDING"}, Phase{2, "Stage To EDW Landing"}},
	{[]string{"LANDING"}, Phase{1, "Source To Landing"}},
	{[]string{"STAGE", "STG"}, Phase{2, "Landing To Stage"}},
	{[]string{"EDW"}, Phase{3, "Stage To EDW"}},
}

var phaseSeparators = strings.NewReplacer("_", "", "-", "", " ", "", ".", "", "[", "", "]", "", `"`, "", "`", "")

// DetectPhase infers the stage from a table name, ignoring separators.
func DetectPhase(table string) (Phase, bool) {
	n := strings.ToUpper(phaseSeparators.Replace(table))
	if n == "" {
		return Phase{}, false
	}
	for _, r := range phaseRules {
		for _, m := range r.markers {
			if strings.Contains(n, m) {
				return r.phase, true
			}
		}
	}
	return Phase{}, false
}

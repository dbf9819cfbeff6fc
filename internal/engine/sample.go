package engine

import (
	"fmt"
	"strings"

	"etlcheck/internal/schema"
	"etlcheck/internal/sheet"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SampleHeaders is the column layout SampleSheet writes.
var SampleHeaders = []string{
	"Source Table", "Source Column", "Source Data Type",
	"Target Table", "Target Column", "Target Data Type",
	"Transformation Logic", "Comments",
}

const columnsPerTable = 6

// SampleSheet generates n synthetic mapping-sheet rows. The same seed
// always yields the same rows.
func SampleSheet(n int, seed int64) []sheet.Row {
	if n <= 0 {
		return []sheet.Row{}
	}
	f := gofakeit.New(seed)
	title := cases.Title(language.English)

	rows := make([]sheet.Row, 0, n)
	var srcTable, tgtTable string
	var stems []string
	for i := 0; i < n; i++ {
		// 테이블마다 컬럼 순서를 새로 섞는다
		if i%columnsPerTable == 0 {
			entity := f.RandomString(Entities)
			srcTable = f.RandomString(SourceSchemas) + "." + entity
			tgtTable = f.RandomString(TargetSchemas) + "." + targetName(f, entity)
			stems = append([]string(nil), ColumnStems...)
			f.ShuffleStrings(stems)
		}
		stem := stems[i%columnsPerTable]
		rows = append(rows, sampleRow(f, title, srcTable, tgtTable, stem))
	}
	return rows
}

func targetName(f *gofakeit.Faker, entity string) string {
	switch f.Number(0, 2) {
	case 0:
		return "Dim" + entity
	case 1:
		return "Fact" + entity
	default:
		return entity
	}
}

func sampleRow(f *gofakeit.Faker, title cases.Caser, srcTable, tgtTable, stem string) sheet.Row {
	meaning := schema.InferMeaning(stem)
	target := strings.ReplaceAll(title.String(schema.ExpandAbbreviations(stem)), " ", "")

	logic := "Direct Move"
	if forms, ok := logicByMeaning[meaning]; ok {
		logic = f.RandomString(forms)
	}
	if strings.Contains(logic, "%s") {
		logic = fmt.Sprintf(logic, stem)
	}

	types, ok := sqlTypeByMeaning[meaning]
	if !ok {
		types = [2]string{"varchar(500)", "nvarchar(500)"}
	}

	return sheet.NewRow(
		"Source Table", srcTable,
		"Source Column", stem,
		"Source Data Type", types[0],
		"Target Table", tgtTable,
		"Target Column", target,
		"Target Data Type", types[1],
		"Transformation Logic", logic,
		"Comments", remarkFor(logic),
	)
}

func remarkFor(logic string) string {
	if r, ok := Remarks[logic]; ok {
		return r
	}
	u := strings.ToUpper(logic)
	// 가장 바깥 함수 기준
	if i := strings.IndexAny(u, "( "); i > 0 {
		u = u[:i]
	}
	return Remarks[u]
}

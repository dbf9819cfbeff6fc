package classify_test

import (
	"testing"

	"etlcheck/internal/classify"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		logic string
		want  classify.Type
	}{
		{"", classify.DirectMove},
		{"Direct Move", classify.DirectMove},
		{"direct", classify.DirectMove},
		{"  as is ", classify.DirectMove},
		{"1:1", classify.DirectMove},
		{"-", classify.DirectMove},
		{"Straight move from source", classify.DirectMove},
		{"CUST_ID", classify.DirectMove},
		{"[dbo].[Customer].[Name]", classify.DirectMove},
		{"src.customer_name", classify.DirectMove},
		{"Lookup DIM_CUSTOMER on CustID", classify.Lookup},
		{"LEFT JOIN dbo.Region r ON r.Id = s.RegionId", classify.Lookup},
		{"TO_DATE(order_dt, 'YYYYMMDD')", classify.DateFormat},
		{"CONVERT(DATE, OrderDate, 112)", classify.DateFormat},
		{"TRIM(Name)", classify.Trim},
		{"Trim", classify.Trim},
		{"TRIM(UPPER(Name))", classify.Trim},
		{"FirstName + ' ' + LastName", classify.Concatenation},
		{"first_name || ' ' || last_name", classify.Concatenation},
		{"UPPER(Name)", classify.CaseConversion},
		{"Convert to upper case", classify.CaseConversion},
		{"REPLACE(Phone, '-', '')", classify.StringReplace},
		{"SUBSTRING(Code, 1, 3)", classify.StringReplace},
		{"COALESCE(Region, 'UNKNOWN')", classify.NullHandling},
		{"ISNULL(Qty, 0)", classify.NullHandling},
		{"If null then default 0", classify.NullHandling},
		{"SUM(LineAmount)", classify.Aggregation},
		{"Count of orders, GROUP BY customer", classify.Aggregation},
		{"CAST(Amount AS DECIMAL(10,2))", classify.TypeCast},
		{"amount::numeric", classify.TypeCast},
		{"CASE WHEN Status = 'A' THEN 'Active' ELSE 'Inactive' END", classify.BusinessRule},
		{"Derived from policy effective period", classify.BusinessRule},
		{"Price * Quantity", classify.BusinessRule},
		{"ROUND(Amount, 2)", classify.BusinessRule},
		{"see attached document", classify.Unknown},
		{"Move to upper case", classify.CaseConversion},
		{"Copy and trim spaces", classify.Trim},
		{"Same as source but uppercase", classify.CaseConversion},
		{"Direct move, default to 0 when null", classify.NullHandling},
		{"Copy after removing leading zeros", classify.StringReplace},
		{"Direct move but mask card number", classify.StringReplace},
	}
	for _, tt := range tests {
		t.Run(tt.logic, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.Classify(tt.logic))
		})
	}
}

func TestIsDirectMove(t *testing.T) {
	direct := []string{"", "Direct", "SAME AS SOURCE", "copy", "Pass Through", "passthrough",
		"no transformation", "None", "one to one", "Same", "Direct move.", "CustomerID",
		"Straight move from source", "Copy from legacy system"}
	for _, s := range direct {
		assert.True(t, classify.IsDirectMove(s), s)
	}

	notDirect := []string{"UPPER(Name)", "CASE", "NULL", "a + b", "Direct (with trim)", "Lookup", "Uppercase", "GETDATE()",
		"Move to upper case", "Copy and trim spaces", "Same as source but uppercase",
		"Direct move, default to 0 when null", "Copy after removing leading zeros", "Copy, lookup region name"}
	for _, s := range notDirect {
		assert.False(t, classify.IsDirectMove(s), s)
	}
}

func TestAssessComplexity(t *testing.T) {
	tests := []struct {
		logic string
		want  classify.Complexity
	}{
		{"Direct Move", classify.Simple},
		{"", classify.Simple},
		{"UPPER(Name)", classify.Medium},
		{"TRIM(UPPER(Name))", classify.Medium},
		{"CASE WHEN a = 1 THEN 'x' END", classify.Medium},
		{"CASE WHEN a = 1 THEN 'x' WHEN a = 2 THEN 'y' END", classify.Complex},
		{"(SELECT Name FROM dim d JOIN x ON d.id = x.id)", classify.Complex},
	}
	for _, tt := range tests {
		t.Run(tt.logic, func(t *testing.T) {
			assert.Equal(t, tt.want, classify.AssessComplexity(tt.logic))
		})
	}
}

// isDirectMove and classify must agree for every input.
func TestDirectMoveAgreement(t *testing.T) {
	faker := gofakeit.New(42)
	inputs := []string{"UPPER(x)", "as is", "Trim", "N/A", "--", "NVL(a,0)"}
	for i := 0; i < 500; i++ {
		switch i % 4 {
		case 0:
			inputs = append(inputs, faker.Word())
		case 1:
			inputs = append(inputs, faker.Sentence(3))
		case 2:
			inputs = append(inputs, faker.Regex(`[A-Za-z_]{1,8}(\.[A-Za-z]{1,6})?`))
		default:
			inputs = append(inputs, faker.Regex(`[A-Z]{2,6}\([a-z]{1,5}(, ?[0-9]{1,2})?\)`))
		}
	}
	for _, s := range inputs {
		if classify.IsDirectMove(s) {
			assert.Equal(t, classify.DirectMove, classify.Classify(s), s)
		} else {
			assert.NotEqual(t, classify.DirectMove, classify.Classify(s), s)
		}
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Case conversion", classify.CaseConversion.Label())
	assert.Equal(t, "custom", classify.Type("custom").Label())
}

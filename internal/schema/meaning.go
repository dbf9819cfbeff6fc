package schema

import "strings"

var abbreviations = map[string]string{
	// Common Nouns
	"nm": "name", "dt": "date", "no": "number", "num": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone", "mob": "phone",
	"biz": "business", "img": "image", "zip": "zipcode", "post": "zipcode",
	"msg": "message", "txt": "text", "subj": "subject",
	"doc": "document", "usr": "user", "emp": "employee", "cust": "customer",
	"dept": "department", "grp": "group", "cat": "category", "prod": "product",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"bal": "balance", "calc": "calculation", "avg": "average",
	"acct": "account", "txn": "transaction", "ccy": "currency", "curr": "currency",

	// Verbs / Status
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "ord": "order", "seq": "sequence",
	"flg": "flag", "ind": "flag",
}

// meaningRules are checked in order against the decoded name.
var meaningRules = []struct {
	meaning  string
	keywords []string
}{
	{"email", []string{"email", "mail"}},
	{"phone", []string{"phone", "mobile", "fax"}},
	{"zipcode", []string{"zipcode", "postal"}},
	{"address", []string{"address", "street"}},
	{"date", []string{"date", "time", "created", "updated", "modified", "registered"}},
	{"yesno", []string{"yesno", "flag", "active", "deleted"}},
	{"price", []string{"price", "cost", "amount", "balance", "total"}},
	{"count", []string{"count", "quantity"}},
	{"code", []string{"code", "status", "type", "category", "currency", "country"}},
	{"id", []string{" id", "key", "number", "sequence"}},
	{"name", []string{"name", "title", "description"}},
}

// ExpandAbbreviations decodes well-known column-name abbreviations:
// "cust_tel_no" -> "customer phone number".
func ExpandAbbreviations(colName string) string {
	n := strings.ToLower(strings.TrimSpace(colName))
	parts := strings.FieldsFunc(n, func(r rune) bool { return r == '_' || r == ' ' || r == '-' || r == '.' })
	for i, part := range parts {
		if full, ok := abbreviations[part]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}

// InferMeaning classifies a column name into a small semantic vocabulary
// (email, phone, date, code, id, ...). Unclassified names come back decoded.
func InferMeaning(colName string) string {
	decoded := ExpandAbbreviations(colName)
	padded := " " + decoded
	if strings.HasSuffix(padded, "id") && !strings.HasSuffix(padded, " id") {
		padded = padded[:len(padded)-2] + " id"
	}
	for _, r := range meaningRules {
		for _, kw := range r.keywords {
			if strings.Contains(padded, kw) {
				return r.meaning
			}
		}
	}
	return decoded
}

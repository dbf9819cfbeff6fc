package engine

// 샘플 매핑 시트용 어휘 (테이블/컬럼/비고)
var (
	Entities = []string{
		"Customer", "Account", "Orders", "OrderLine", "Product", "Store",
		"Employee", "Payment", "Invoice", "Shipment", "Supplier", "Branch",
	}

	// ColumnStems are legacy-style abbreviated source column names.
	ColumnStems = []string{
		"cust_id", "cust_nm", "email_addr", "tel_no", "zip_cd", "addr",
		"reg_dt", "upd_dt", "stat_cd", "curr_cd", "bal_amt", "ord_qty",
		"active_yn", "del_flg", "prod_cd", "unit_price", "cat_cd", "emp_no",
		"txn_dt", "remark_txt",
	}

	SourceSchemas = []string{"src", "crm", "erp", "legacy"}
	TargetSchemas = []string{"dw", "edw", "stg", "mart"}
)

// logicByMeaning maps an inferred column meaning to the transformation the
// sample sheet writes for it. %s is the source column.
var logicByMeaning = map[string][]string{
	"name":    {"TRIM(%s)", "UPPER(%s)"},
	"email":   {"LOWER(%s)", "LOWER(TRIM(%s))"},
	"phone":   {"TRIM(%s)", "Direct Move"},
	"zipcode": {"TRIM(%s)"},
	"address": {"TRIM(%s)", "Direct Move"},
	"date":    {"CAST(%s AS DATE)", "Direct Move"},
	"code":    {"UPPER(%s)", "LOOKUP %s IN ref_code", "Direct Move"},
	"price":   {"ROUND(%s, 2)", "COALESCE(%s, 0)"},
	"count":   {"COALESCE(%s, 0)", "Direct Move"},
	"yesno":   {"COALESCE(%s, 'N')", "CASE WHEN %s = 'Y' THEN 1 ELSE 0 END"},
	"id":      {"Direct Move"},
}

// 비고 컬럼 문구
var Remarks = map[string]string{
	"Direct Move": "원천 그대로 적재",
	"TRIM":        "앞뒤 공백 제거",
	"UPPER":       "대문자 변환",
	"LOWER":       "소문자 변환",
	"CAST":        "형 변환",
	"ROUND":       "소수점 2자리 반올림",
	"COALESCE":    "NULL 기본값 적용",
	"LOOKUP":      "코드 테이블 조회",
	"CASE":        "조건 분기",
}

// sqlTypeByMeaning gives (source, target) data types.
var sqlTypeByMeaning = map[string][2]string{
	"name":    {"varchar(100)", "nvarchar(100)"},
	"email":   {"varchar(255)", "nvarchar(255)"},
	"phone":   {"varchar(20)", "varchar(20)"},
	"zipcode": {"char(5)", "char(5)"},
	"address": {"varchar(200)", "nvarchar(200)"},
	"date":    {"datetime", "date"},
	"code":    {"char(3)", "varchar(10)"},
	"price":   {"decimal(18,4)", "decimal(18,2)"},
	"count":   {"int", "int"},
	"yesno":   {"char(1)", "bit"},
	"id":      {"int", "bigint"},
}

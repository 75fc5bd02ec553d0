package submission

import (
	"github.com/goliatone/go-intake/pkg/answer"
)

// Column maps an answer id to its backend column.
type Column struct {
	Answer string
	Name   string
}

// Backend column names.
const (
	ColumnLanguage      = "language"
	ColumnFullName      = "full_name"
	ColumnEmail         = "email"
	ColumnNationality   = "nationality"
	ColumnBirthday      = "birthday"
	ColumnIDNumber      = "id_number"
	ColumnInsurance     = "insurance"
	ColumnHasChildren   = "has_children"
	ColumnChildrenNames = "children_names"
	ColumnTermsAccepted = "terms_accepted"
	ColumnSignature     = "signature"
)

// SignatureAnswerID is the answer holding the signature data URI.
const SignatureAnswerID = "signature"

// Columns is the fixed answer id to column mapping, in insert order.
var Columns = []Column{
	{Answer: "fullName", Name: ColumnFullName},
	{Answer: "email", Name: ColumnEmail},
	{Answer: "nationality", Name: ColumnNationality},
	{Answer: "birthday", Name: ColumnBirthday},
	{Answer: "idNumber", Name: ColumnIDNumber},
	{Answer: "insurance", Name: ColumnInsurance},
	{Answer: "hasChildren", Name: ColumnHasChildren},
	{Answer: "childrenNames", Name: ColumnChildrenNames},
	{Answer: "termsAccepted", Name: ColumnTermsAccepted},
}

// Record is one flattened row keyed by column name. Values are string, bool
// or nil.
type Record map[string]any

// ColumnNames lists every record column in insert order.
func ColumnNames() []string {
	names := make([]string, 0, len(Columns)+2)
	names = append(names, ColumnLanguage)
	for _, col := range Columns {
		names = append(names, col.Name)
	}
	return append(names, ColumnSignature)
}

// Values returns the record values ordered like ColumnNames.
func (r Record) Values() []any {
	names := ColumnNames()
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = r[name]
	}
	return out
}

// String returns the column value when it holds text.
func (r Record) String(column string) (string, bool) {
	v, ok := r[column].(string)
	return v, ok
}

// BuildRecord flattens answers into a Record. Answers to questions outside
// visibleIDs are dropped and their columns set to nil, so a conditional
// answer typed before its gate was closed never reaches the backend. A nil
// visibleIDs keeps every answer. The signature column carries signatureURL,
// never the raw payload.
func BuildRecord(answers answer.Store, locale, signatureURL string, visibleIDs []string) Record {
	var visible map[string]struct{}
	if visibleIDs != nil {
		visible = make(map[string]struct{}, len(visibleIDs))
		for _, id := range visibleIDs {
			visible[id] = struct{}{}
		}
	}

	record := Record{
		ColumnLanguage:  locale,
		ColumnSignature: signatureURL,
	}
	for _, col := range Columns {
		record[col.Name] = nil
		if visible != nil {
			if _, ok := visible[col.Answer]; !ok {
				continue
			}
		}
		if v, ok := answers.Get(col.Answer); ok {
			record[col.Name] = v.Interface()
		}
	}
	return record
}

package jql

// ValueArity says how many values an operator consumes.
type ValueArity int

const (
	ArityNone ValueArity = iota
	AritySingle
	ArityList
)

// HistoryMode marks operators that inspect field history.
type HistoryMode string

const (
	HistoryNone    HistoryMode = ""
	HistoryWas     HistoryMode = "was"
	HistoryChanged HistoryMode = "changed"
)

// OperatorSpec describes one catalog entry.
type OperatorSpec struct {
	Key        string
	Keyword    string
	Arity      ValueArity
	Preset     string // fixed value emitted for arity-none operators
	History    HistoryMode
	TextSearch bool
}

// operatorCatalog is the fixed set of 23 operator keys. Unknown keys
// fall back to "=".
var operatorCatalog = []OperatorSpec{
	{Key: "=", Keyword: "=", Arity: AritySingle},
	{Key: "!=", Keyword: "!=", Arity: AritySingle},
	{Key: ">", Keyword: ">", Arity: AritySingle},
	{Key: ">=", Keyword: ">=", Arity: AritySingle},
	{Key: "<", Keyword: "<", Arity: AritySingle},
	{Key: "<=", Keyword: "<=", Arity: AritySingle},
	{Key: "~", Keyword: "~", Arity: AritySingle, TextSearch: true},
	{Key: "!~", Keyword: "!~", Arity: AritySingle, TextSearch: true},
	{Key: "contains", Keyword: "~", Arity: AritySingle, TextSearch: true},
	{Key: "not_contains", Keyword: "!~", Arity: AritySingle, TextSearch: true},
	{Key: "in", Keyword: "IN", Arity: ArityList},
	{Key: "not_in", Keyword: "NOT IN", Arity: ArityList},
	{Key: "is", Keyword: "IS", Arity: AritySingle},
	{Key: "is_not", Keyword: "IS NOT", Arity: AritySingle},
	{Key: "is_empty", Keyword: "IS", Arity: ArityNone, Preset: "EMPTY"},
	{Key: "is_not_empty", Keyword: "IS NOT", Arity: ArityNone, Preset: "EMPTY"},
	{Key: "is_null", Keyword: "IS", Arity: ArityNone, Preset: "NULL"},
	{Key: "is_not_null", Keyword: "IS NOT", Arity: ArityNone, Preset: "NULL"},
	{Key: "was", Keyword: "WAS", Arity: AritySingle, History: HistoryWas},
	{Key: "was_not", Keyword: "WAS NOT", Arity: AritySingle, History: HistoryWas},
	{Key: "was_in", Keyword: "WAS IN", Arity: ArityList, History: HistoryWas},
	{Key: "was_not_in", Keyword: "WAS NOT IN", Arity: ArityList, History: HistoryWas},
	{Key: "changed", Keyword: "CHANGED", Arity: ArityNone, History: HistoryChanged},
}

var operatorByKey = func() map[string]OperatorSpec {
	m := make(map[string]OperatorSpec, len(operatorCatalog))
	for _, spec := range operatorCatalog {
		m[spec.Key] = spec
	}
	return m
}()

// LookupOperator resolves a catalog key, falling back to "=".
func LookupOperator(key string) OperatorSpec {
	if spec, ok := operatorByKey[key]; ok {
		return spec
	}
	return operatorByKey["="]
}

// OperatorKeys returns the catalog keys in catalog order.
func OperatorKeys() []string {
	keys := make([]string, len(operatorCatalog))
	for i, spec := range operatorCatalog {
		keys[i] = spec.Key
	}
	return keys
}

// reservedWords may not be emitted bare even when they look like
// simple identifiers. Part of the user-visible contract.
var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"was": true, "changed": true, "empty": true, "null": true,
	"order by": true, "asc": true, "desc": true, "from": true,
	"to": true, "by": true, "after": true, "before": true,
	"on": true, "during": true,
}

package aptransform

import (
	"regexp"
	"strings"

	"github.com/hubworks/sitepilot/internal/model"
)

// normalizeHeader lowers a header and keeps ASCII alphanumerics only,
// so "Oracle Invoice #" and "oracleinvoice" compare equal enough.
func normalizeHeader(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// headerAliases lists the normalized header variants per target, in
// preference order.
var headerAliases = map[string][]string{
	"key":                {"key", "issuekey", "issue", "ticket"},
	"vendor":             {"vendor", "vendorname", "payee", "payto"},
	"oracleInvoice":      {"oracleinvoicenumber", "oracleinvoice", "oracleinvoiceno", "invoicenumber", "invoiceno"},
	"oracleError":        {"oracleerror", "oracleerrormessage", "error"},
	"requestType":        {"requesttype", "request"},
	"mailing":            {"mailinginstructions", "mailing", "mailinginstruction"},
	"stock":              {"stocknumber", "stockno", "stock"},
	"vin":                {"vin", "vinnumber"},
	"pid":                {"pid", "purchaseid", "purchaseno", "purchasenumber"},
	"checkRequestAmount": {"checkrequestamount", "checkamount", "requestamount"},
	"amountToBePaid":     {"amounttobepaid", "amountdue", "amount"},
	"feeAmount":          {"feeamount", "fee", "fees"},
	"taxAmount":          {"taxamount", "tax", "taxes"},
	"address":            {"address", "vendoraddress", "mailingaddress", "remitaddress"},
	"description":        {"description", "summary", "details"},
	"apDepartment":       {"apdepartment", "department", "dept"},
	"apDescription":      {"apdescription"},
	"apRequestType":      {"aprequesttype"},
}

// rowValues is the alias-resolved view of one input row.
type rowValues struct {
	byNorm map[string]string
	joined string
}

func newRowValues(row model.TableRow) rowValues {
	byNorm := make(map[string]string, len(row.Headers))
	var lines []string
	for _, h := range row.Headers {
		v := model.CleanText(row.Cells[h])
		if _, ok := byNorm[normalizeHeader(h)]; !ok {
			byNorm[normalizeHeader(h)] = v
		}
		if v != "" {
			lines = append(lines, v)
		}
	}
	return rowValues{byNorm: byNorm, joined: strings.Join(lines, "\n")}
}

// get returns the first non-empty value among the target's aliases.
func (rv rowValues) get(target string) string {
	for _, alias := range headerAliases[target] {
		if v := rv.byNorm[alias]; v != "" {
			return v
		}
	}
	return ""
}

// isBlank treats the usual placeholder spellings as empty.
func isBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "n/a", "na", "-", "—":
		return true
	}
	return false
}

// Vehicle identification numbers exclude the letters I, O and Q.
var vinStrictRe = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{11,17}$`)

const labelScanWindow = 8

// labelPattern matches "<label>", optionally followed by "number" or
// "numbers", as a whole word.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + label + `(\s*number(s)?)?\b`)
}

var (
	stockLabelRe = labelPattern("stock")
	vinLabelRe   = labelPattern("vin")
	pidLabelRe   = labelPattern(`(pid|purchase\s*id)`)

	stockCaptureRe = regexp.MustCompile(`\b[A-Za-z0-9-]{4,17}\b`)
	vinCaptureRe   = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{11,17}\b`)
	pidCaptureRe   = regexp.MustCompile(`\b\d{5,10}\b`)
)

// scanAfterLabel finds the label in the joined text and captures the
// first match of capture within the next few lines.
func scanAfterLabel(joined string, label, capture *regexp.Regexp) string {
	loc := label.FindStringIndex(joined)
	if loc == nil {
		return ""
	}
	tail := joined[loc[1]:]
	lines := strings.SplitN(tail, "\n", labelScanWindow+1)
	if len(lines) > labelScanWindow {
		lines = lines[:labelScanWindow]
	}
	window := strings.Join(lines, "\n")
	return capture.FindString(window)
}

// extractIdentifiers resolves Stock/VIN/PID: header columns first, then
// label-proximity scanning over the joined row text. A scanned stock
// value that looks like a full VIN is discarded.
func extractIdentifiers(rv rowValues) (stock, vin, pid string) {
	stock = rv.get("stock")
	vin = rv.get("vin")
	pid = rv.get("pid")

	if isBlank(stock) {
		stock = scanAfterLabel(rv.joined, stockLabelRe, stockCaptureRe)
		if vinStrictRe.MatchString(stock) {
			stock = ""
		}
	}
	if isBlank(vin) {
		vin = scanAfterLabel(rv.joined, vinLabelRe, vinCaptureRe)
	}
	if isBlank(pid) {
		pid = scanAfterLabel(rv.joined, pidLabelRe, pidCaptureRe)
	}

	if isBlank(stock) {
		stock = ""
	}
	if isBlank(vin) {
		vin = ""
	}
	if isBlank(pid) {
		pid = ""
	}
	return stock, vin, pid
}

package aptransform

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hubworks/sitepilot/internal/model"
)

// invoiceExistsFormula re-evaluates at spreadsheet open time, so the
// exported file stays truthful after the Oracle column is edited.
const invoiceExistsFormula = `=LET(_c,MATCH("Oracle Invoice Number",$1:$1,0),IF(LEN(INDEX($1:$1048576,ROW(),_c))>0,"TRUE","FALSE"))`

type outputRow struct {
	cells [columnCount]string
}

// Transform converts captured rows into the AP export. today must be
// MMDDYYYY; it feeds the fallback invoice number. Empty input yields
// the header with no rows.
func Transform(rows []model.TableRow, today string) ([]string, [][]string) {
	out := make([]*outputRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, transformRow(row, today))
	}
	sortRows(out)

	records := make([][]string, 0, len(out))
	for _, r := range out {
		record := make([]string, columnCount)
		copy(record, r.cells[:])
		records = append(records, record)
	}
	return Columns(), records
}

func transformRow(input model.TableRow, today string) *outputRow {
	rv := newRowValues(input)
	row := &outputRow{}

	// Seed defaults.
	row.cells[ColStatus] = "NOT FINISHED"
	row.cells[ColAutoClose] = "FALSE"
	row.cells[ColTrackingID] = "0000000001"

	// Direct pulls via header aliases.
	row.cells[ColKey] = rv.get("key")
	row.cells[ColVendor] = rv.get("vendor")
	row.cells[ColOracleInvoiceNumber] = rv.get("oracleInvoice")
	row.cells[ColOracleError] = rv.get("oracleError")
	row.cells[ColRequestType] = rv.get("requestType")
	row.cells[ColMailingInstructions] = rv.get("mailing")
	row.cells[ColAddress] = rv.get("address")
	row.cells[ColFeeAmount] = rv.get("feeAmount")
	row.cells[ColTaxAmount] = rv.get("taxAmount")
	row.cells[ColDescription] = rv.get("description")
	row.cells[ColAPDepartment] = rv.get("apDepartment")
	row.cells[ColAPDescription] = rv.get("apDescription")
	row.cells[ColAPRequestType] = rv.get("apRequestType")

	// Preliminary invoice-exists by blank check; replaced by the Excel
	// formula at the end of the pipeline.
	if isBlank(row.cells[ColOracleInvoiceNumber]) {
		row.cells[ColInvoiceExists] = "FALSE"
	} else {
		row.cells[ColInvoiceExists] = "TRUE"
	}

	stock, vin, pid := extractIdentifiers(rv)
	row.cells[ColStockNumber] = stock
	row.cells[ColVIN] = vin
	row.cells[ColPID] = pid

	if stock != "" || vin != "" || pid != "" {
		row.cells[ColReference] = "HUB-" + orToken(stock, "STOCK") + "-" + orToken(vin, "VIN") + "-" + orToken(pid, "PID")
	}
	if stock != "" {
		row.cells[ColInvoice] = stock + "-TR"
	} else {
		row.cells[ColInvoice] = today + "-TR"
	}

	amountToBePaid := rv.get("amountToBePaid")
	row.cells[ColFinalAmount] = finalAmount(rv.get("checkRequestAmount"), amountToBePaid, row.cells[ColFeeAmount], row.cells[ColTaxAmount])
	if isBlank(amountToBePaid) {
		row.cells[ColAmountToBePaid] = row.cells[ColFinalAmount]
	} else {
		row.cells[ColAmountToBePaid] = amountToBePaid
	}

	inferRequestType(row)
	applyContextRules(row, rv)

	applyVendorRules(row, rv.joined)
	forceMiscMailing(row)
	applyVendorRules(row, rv.joined)

	canonicalizeMailing(row)

	if addr := parseAddress(row.cells[ColAddress]); row.cells[ColAddress] != "" {
		row.cells[ColStreetAddress] = addr.Street
		row.cells[ColAptSuite] = addr.Apt
		row.cells[ColCity] = addr.City
		row.cells[ColState] = addr.State
		row.cells[ColZip] = addr.Zip
	}

	row.cells[ColInvoiceExists] = invoiceExistsFormula
	return row
}

func orToken(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// inferRequestType reads the compacted oracle invoice suffix. The
// suffix wins over whatever the source row carried.
func inferRequestType(row *outputRow) {
	compact := strings.ToUpper(strings.Join(strings.Fields(row.cells[ColOracleInvoiceNumber]), ""))
	switch {
	case compact == "":
	case strings.HasSuffix(compact, "GDW"):
		row.cells[ColRequestType] = "Goodwill"
	case strings.HasSuffix(compact, "CR"):
		row.cells[ColRequestType] = "Check Request"
	case strings.HasSuffix(compact, "TR"):
		row.cells[ColRequestType] = "Title & Reg"
	}
}

var (
	stcTokenRe  = regexp.MustCompile(`(?i)\bstc\b`)
	titleRegRe  = regexp.MustCompile(`(?i)\btitle\s*(&|and|/)?\s*reg(istration)?\b`)
	goodwillRe  = regexp.MustCompile(`(?i)\bgoodwill\b`)
	hubChecksRe = regexp.MustCompile(`(?i)\bhub checks\b`)
	gdwTokenRe  = regexp.MustCompile(`(?i)\bgdw\b`)
)

// applyContextRules inspects the AP department and description columns
// for routing hints.
func applyContextRules(row *outputRow, rv rowValues) {
	dept := row.cells[ColAPDepartment]
	desc := row.cells[ColAPDescription]
	joined := rv.joined

	if strings.Contains(strings.ToLower(dept), "logistics") &&
		!goodwillRe.MatchString(joined) && !hubChecksRe.MatchString(joined) && !gdwTokenRe.MatchString(joined) {
		row.cells[ColRequestType] = "Check Request"
		row.cells[ColMailingInstructions] = "INHOUSE"
	}

	if stcTokenRe.MatchString(dept) || stcTokenRe.MatchString(desc) {
		if goodwillRe.MatchString(joined) {
			row.cells[ColRequestType] = "Goodwill"
		} else {
			row.cells[ColRequestType] = "Check Request"
		}
		row.cells[ColMailingInstructions] = "INHOUSE"
	}

	if strings.Contains(strings.ToLower(dept), "finance operations") {
		row.cells[ColRequestType] = "Check Request"
		row.cells[ColMailingInstructions] = "INHOUSE"
	}

	if titleRegRe.MatchString(desc) {
		row.cells[ColRequestType] = "Check Request"
	}
}

// forceMiscMailing flips mailing to MISC for request types that never
// go through the check printer.
func forceMiscMailing(row *outputRow) {
	switch strings.ToLower(row.cells[ColRequestType]) {
	case "invoice", "wire transfer":
		row.cells[ColMailingInstructions] = "MISC"
	}
}

// canonicalizeMailing folds free-form mailing text onto the three
// accepted values. Anything unrecognized but non-empty becomes MISC.
func canonicalizeMailing(row *outputRow) {
	m := strings.ToLower(row.cells[ColMailingInstructions])
	switch {
	case m == "":
	case strings.Contains(m, "inhouse") || strings.Contains(m, "in house") || strings.Contains(m, "in-house"):
		row.cells[ColMailingInstructions] = "INHOUSE"
	case strings.Contains(m, "hub check"):
		row.cells[ColMailingInstructions] = "HUB CHECKS"
	default:
		row.cells[ColMailingInstructions] = "MISC"
	}
}

var sortKeyColumns = []int{
	ColMailingInstructions,
	ColRequestType,
	ColInvoiceExists,
	ColOracleError,
	ColVendor,
	ColKey,
}

// sortRows orders ascending and case-insensitive over the mailing,
// request type, invoice-exists, error, vendor and key columns, with
// empty values after everything else. The sort is stable.
func sortRows(rows []*outputRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, col := range sortKeyColumns {
			a := strings.ToLower(rows[i].cells[col])
			b := strings.ToLower(rows[j].cells[col])
			if a == b {
				continue
			}
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a < b
		}
		return false
	})
}

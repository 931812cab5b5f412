// Package aptransform converts captured filter-table rows into the
// fixed Accounts Payable export schema. The whole package is pure: the
// same rows and the same date always produce byte-identical output.
package aptransform

// Column indexes into the output row. The order is a wire contract and
// must never change.
const (
	ColStatus = iota
	ColInvoiceExists
	ColOracleError
	ColAutoClose
	ColTrackingID
	ColKey
	ColVendor
	ColOracleInvoiceNumber
	ColRequestType
	ColMailingInstructions
	ColReference
	ColInvoice
	ColStockNumber
	ColVIN
	ColPID
	ColFinalAmount
	ColAddress
	ColStreetAddress
	ColAptSuite
	ColCity
	ColState
	ColZip
	ColAmountToBePaid
	ColFeeAmount
	ColTaxAmount
	ColDescription
	ColAPDepartment
	ColAPDescription
	ColAPRequestType

	columnCount
)

var outputColumns = [columnCount]string{
	"Status",
	"Invoice Exists",
	"Oracle Error",
	"Auto Close",
	"Tracking ID",
	"Key",
	"Vendor",
	"Oracle Invoice Number",
	"Request Type",
	"Mailing Instructions",
	"Reference",
	"Invoice",
	"StockNumber",
	"VIN",
	"PID",
	"Final Amount",
	"Address",
	"Street Address",
	"Apt/Suite",
	"City",
	"State",
	"Zip",
	"Amount to be paid",
	"Fee Amount",
	"Tax Amount",
	"Description",
	"AP Department",
	"AP Description",
	"AP Request Type",
}

// Columns returns a fresh copy of the export schema in order.
func Columns() []string {
	out := make([]string, columnCount)
	copy(out, outputColumns[:])
	return out
}

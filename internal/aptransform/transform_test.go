package aptransform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks/sitepilot/internal/model"
)

func row(pairs ...string) model.TableRow {
	r := model.NewTableRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

func TestColumnsContract(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 29)
	assert.Equal(t, "Status", cols[ColStatus])
	assert.Equal(t, "Reference", cols[ColReference])
	assert.Equal(t, "Final Amount", cols[ColFinalAmount])
	assert.Equal(t, "Amount to be paid", cols[ColAmountToBePaid])
	assert.Equal(t, "AP Request Type", cols[ColAPRequestType])

	// Callers get a copy, not the backing array.
	cols[0] = "mutated"
	assert.Equal(t, "Status", Columns()[0])
}

func TestTransformEmptyInput(t *testing.T) {
	cols, rows := Transform(nil, "08302026")
	assert.Len(t, cols, 29)
	assert.Empty(t, rows)
}

func TestTransformIdentifierRow(t *testing.T) {
	input := row(
		"Key", "AP-12",
		"Description", "Stock Number 123456 VIN 1M8GDM9AXKP042788 Purchase ID 7654321",
		"Fee Amount", "$10",
		"Tax Amount", "2",
	)
	_, rows := Transform([]model.TableRow{input}, "08302026")
	require.Len(t, rows, 1)
	got := rows[0]

	assert.Equal(t, "NOT FINISHED", got[ColStatus])
	assert.Equal(t, "FALSE", got[ColAutoClose])
	assert.Equal(t, "0000000001", got[ColTrackingID])
	assert.Equal(t, "AP-12", got[ColKey])

	assert.Equal(t, "123456", got[ColStockNumber])
	assert.Equal(t, "1M8GDM9AXKP042788", got[ColVIN])
	assert.Equal(t, "7654321", got[ColPID])
	assert.Equal(t, "HUB-123456-1M8GDM9AXKP042788-7654321", got[ColReference])
	assert.Equal(t, "123456-TR", got[ColInvoice])

	assert.Equal(t, "12", got[ColFinalAmount])
	assert.Equal(t, "12", got[ColAmountToBePaid], "blank amount falls back to final amount")

	assert.Equal(t, invoiceExistsFormula, got[ColInvoiceExists])
}

func TestTransformFallbackInvoiceNumber(t *testing.T) {
	input := row("Key", "AP-1", "Vendor", "ACME")
	_, rows := Transform([]model.TableRow{input}, "08302026")
	require.Len(t, rows, 1)

	assert.Equal(t, "08302026-TR", rows[0][ColInvoice])
	assert.Equal(t, "", rows[0][ColReference], "no identifiers means no reference")
	assert.Equal(t, "0", rows[0][ColFinalAmount])
}

func TestInferRequestTypeFromOracleSuffix(t *testing.T) {
	tests := []struct {
		oracle string
		want   string
	}{
		{"INV-100 CR", "Check Request"},
		{"INV-100TR", "Title & Reg"},
		{"INV-100 GDW", "Goodwill"},
		{"INV-100", ""},
	}
	for _, tt := range tests {
		input := row("Key", "AP-1", "Oracle Invoice Number", tt.oracle)
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, tt.want, rows[0][ColRequestType], "oracle=%q", tt.oracle)
	}
}

func TestVendorRules(t *testing.T) {
	t.Run("fedex", func(t *testing.T) {
		input := row("Key", "AP-1", "Description", "fedex shipping label")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "FEDEX", rows[0][ColVendor])
		assert.Equal(t, "Invoice", rows[0][ColRequestType])
		assert.Equal(t, "MISC", rows[0][ColMailingInstructions])
	})

	t.Run("dmv renewal excluded", func(t *testing.T) {
		input := row("Key", "AP-1", "Description", "dmv registration renewal")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0][ColVendor])
	})

	t.Run("auction sets auto close", func(t *testing.T) {
		input := row("Key", "AP-1", "Description", "auction fees")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "AUCTION HOUSE", rows[0][ColVendor])
		assert.Equal(t, "TRUE", rows[0][ColAutoClose])
	})

	t.Run("post-auction excluded", func(t *testing.T) {
		input := row("Key", "AP-1", "Description", "post-auction cleanup")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0][ColVendor])
		assert.Equal(t, "FALSE", rows[0][ColAutoClose])
	})

	t.Run("county clerk address override", func(t *testing.T) {
		input := row("Key", "AP-1", "Description", "county clerk filing fee")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "HUB CHECKS", rows[0][ColMailingInstructions])
		assert.Equal(t, "PO Box 1450, Springfield, IL 62705", rows[0][ColAddress])
		assert.Equal(t, "Springfield", rows[0][ColCity])
		assert.Equal(t, "62705", rows[0][ColZip])
	})
}

// The vendor pipeline runs twice with the MISC flip in between; a row
// matching both the fedex and overnight rules keeps HUB CHECKS only
// because of the second pass.
func TestVendorRulesSecondPassWins(t *testing.T) {
	input := row("Key", "AP-1", "Description", "fedex overnight envelope")
	_, rows := Transform([]model.TableRow{input}, "08302026")
	require.Len(t, rows, 1)
	assert.Equal(t, "FEDEX", rows[0][ColVendor])
	assert.Equal(t, "Invoice", rows[0][ColRequestType])
	assert.Equal(t, "HUB CHECKS", rows[0][ColMailingInstructions])
}

func TestWireTransferForcesMisc(t *testing.T) {
	input := row("Key", "AP-1", "Description", "wire transfer to escrow")
	_, rows := Transform([]model.TableRow{input}, "08302026")
	require.Len(t, rows, 1)
	assert.Equal(t, "Wire Transfer", rows[0][ColRequestType])
	assert.Equal(t, "MISC", rows[0][ColMailingInstructions])
}

func TestCanonicalizeMailing(t *testing.T) {
	tests := []struct {
		mailing string
		want    string
	}{
		{"", ""},
		{"please keep in-house", "INHOUSE"},
		{"In House delivery", "INHOUSE"},
		{"hub check run friday", "HUB CHECKS"},
		{"send via carrier pigeon", "MISC"},
	}
	for _, tt := range tests {
		input := row("Key", "AP-1", "Mailing Instructions", tt.mailing)
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, tt.want, rows[0][ColMailingInstructions], "mailing=%q", tt.mailing)
	}
}

func TestContextRules(t *testing.T) {
	t.Run("logistics department", func(t *testing.T) {
		input := row("Key", "AP-1", "AP Department", "Logistics West")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "Check Request", rows[0][ColRequestType])
		assert.Equal(t, "INHOUSE", rows[0][ColMailingInstructions])
	})

	t.Run("logistics skipped on goodwill mention", func(t *testing.T) {
		input := row("Key", "AP-1", "AP Department", "Logistics West", "Description", "goodwill payment")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0][ColRequestType])
	})

	t.Run("stc token", func(t *testing.T) {
		input := row("Key", "AP-1", "AP Description", "STC transfer paperwork")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "Check Request", rows[0][ColRequestType])
		assert.Equal(t, "INHOUSE", rows[0][ColMailingInstructions])
	})

	t.Run("title and reg description", func(t *testing.T) {
		input := row("Key", "AP-1", "AP Description", "title & registration for trade-in")
		_, rows := Transform([]model.TableRow{input}, "08302026")
		require.Len(t, rows, 1)
		assert.Equal(t, "Check Request", rows[0][ColRequestType])
	})
}

func TestSortOrder(t *testing.T) {
	rows := []model.TableRow{
		row("Key", "AP-3"),
		row("Key", "AP-2", "Mailing Instructions", "hub check"),
		row("Key", "AP-1", "Mailing Instructions", "in-house"),
	}
	_, out := Transform(rows, "08302026")
	require.Len(t, out, 3)

	// HUB CHECKS < INHOUSE, empty mailing sorts last.
	assert.Equal(t, "AP-2", out[0][ColKey])
	assert.Equal(t, "AP-1", out[1][ColKey])
	assert.Equal(t, "AP-3", out[2][ColKey])
}

func TestTransformDeterministic(t *testing.T) {
	rows := []model.TableRow{
		row("Key", "AP-2", "Description", "fedex overnight"),
		row("Key", "AP-1", "Vendor", "ACME", "Address", "123 Main St, Springfield, IL 62704"),
	}
	_, first := Transform(rows, "08302026")
	_, second := Transform(rows, "08302026")
	assert.Equal(t, first, second)
}

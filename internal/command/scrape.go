package command

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

const (
	resultsTableSelector = "table.results, div.search-results table"
	// BulkSearchArtifact names the scraped results table.
	BulkSearchArtifact = "research.bulk_search.results"

	maxScrapePages    = 25
	pageAdvanceWaitMs = 8000
	pageProbeInterval = 250 * time.Millisecond
)

// nextControlSelectors are probed in order for a visible, non-disabled
// pagination control.
var nextControlSelectors = []string{
	"a[rel='next']:not(.disabled)",
	"button.next:not([disabled])",
	"a.pagination-next:not(.disabled)",
	"li.next a",
}

// nextLabels are the normalized labels accepted as a "next"-like control.
var nextLabels = map[string]bool{
	"next":      true,
	"next page": true,
	">":         true,
	"›":         true,
	"»":         true,
	"more":      true,
}

// referenceHeaders are the normalized header variants checked, in
// order, when deriving a row's reference key.
var referenceHeaders = []string{
	"stocknumber", "stockno", "stock",
	"vin",
	"purchaseid", "purchaseno", "pid",
}

func normalizeHeaderKey(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// referenceKey derives the dedup key for a row: the first non-empty
// stock/VIN/purchase-id variant, falling back to a full-row hash.
func referenceKey(row model.TableRow) (string, bool) {
	byNorm := make(map[string]string, len(row.Headers))
	for _, h := range row.Headers {
		byNorm[normalizeHeaderKey(h)] = model.CleanText(row.Cells[h])
	}
	for _, key := range referenceHeaders {
		if v := byNorm[key]; v != "" {
			return v, true
		}
	}
	return rowHash(row), false
}

func rowHash(row model.TableRow) string {
	h := sha256.Sum256([]byte(row.Joined()))
	return fmt.Sprintf("%x", h[:8])
}

// rowSignature identifies the first row of a page so page advancement
// can be observed as a signature change.
func rowSignature(rows []model.TableRow) string {
	if len(rows) == 0 {
		return ""
	}
	return rowHash(rows[0])
}

// ScrapeBulkSearch walks the paginated search results, deduplicating
// rows by reference key, and emits one Table artifact whose columns are
// the sorted union of all row keys with a synthetic Reference column
// first. It stops at the first of: no next control, unchanged row
// signature, or the 25-page safety cap.
func ScrapeBulkSearch(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	tableSelector := resultsTableSelector
	if s, ok := inv.contextString("tableSelector"); ok {
		tableSelector = s
	}

	seen := make(map[string]bool)
	var collected []model.TableRow
	references := make(map[int]string)
	columnSet := make(map[string]bool)

	stopReason := "no_next_control"
	capped := false
	lastSignature := ""
	pages := 0

	for page := 1; page <= maxScrapePages; page++ {
		pages = page
		rows, err := inv.Driver.ExtractTable(ctx, tableSelector)
		if err != nil {
			return nil, fmt.Errorf("%s: results table: %w", model.ErrCodeSelectorMissing, err)
		}
		lastSignature = rowSignature(rows)

		for _, row := range rows {
			ref, _ := referenceKey(row)
			if seen[ref] {
				continue
			}
			seen[ref] = true
			references[len(collected)] = ref
			collected = append(collected, row)
			for _, h := range row.Headers {
				columnSet[h] = true
			}
		}

		if page == maxScrapePages {
			stopReason = "page_cap"
			capped = true
			break
		}

		nextSelector, ok := inv.findNextControl(ctx)
		if !ok {
			stopReason = "no_next_control"
			break
		}
		if err := inv.Driver.Click(ctx, nextSelector); err != nil {
			stopReason = "no_next_control"
			break
		}

		advanced, err := inv.waitForAdvance(ctx, tableSelector, lastSignature)
		if err != nil {
			return nil, err
		}
		if !advanced {
			stopReason = "signature_unchanged"
			break
		}
	}

	columns, outRows := assembleScrapeTable(collected, references, columnSet)

	result := model.NewCommandResult(registry.CmdBulkSearchScrape)
	result.AddArtifact(model.RunArtifact{
		Kind:    model.ArtifactTable,
		Name:    BulkSearchArtifact,
		Columns: columns,
		Rows:    outRows,
		Meta:    inv.meta(),
		Partial: capped,
	})
	result.Diagnostics["pages"] = pages
	result.Diagnostics["stopReason"] = stopReason
	result.Diagnostics["rowCount"] = len(outRows)
	return result, nil
}

// findNextControl probes the known selectors for a control whose
// normalized label reads as "next".
func (inv *Invocation) findNextControl(ctx context.Context) (string, bool) {
	for _, selector := range nextControlSelectors {
		text, err := inv.Driver.ReadText(ctx, selector)
		if err != nil {
			continue
		}
		label := strings.ToLower(model.CleanText(text))
		if nextLabels[label] || strings.Contains(label, "›") || strings.Contains(label, "»") {
			return selector, true
		}
	}
	return "", false
}

// waitForAdvance polls the first-row signature until it changes or the
// per-page deadline expires.
func (inv *Invocation) waitForAdvance(ctx context.Context, tableSelector, oldSignature string) (bool, error) {
	start := inv.Driver.NowMs()
	for {
		rows, err := inv.Driver.ExtractTable(ctx, tableSelector)
		if err == nil && rowSignature(rows) != oldSignature {
			return true, nil
		}
		if inv.Driver.NowMs()-start >= pageAdvanceWaitMs {
			return false, nil
		}
		if err := inv.Driver.Sleep(ctx, pageProbeInterval); err != nil {
			return false, fmt.Errorf("page advance wait cancelled: %w", err)
		}
	}
}

// assembleScrapeTable builds the sorted-union column list (Reference
// first) and projects every collected row onto it. A source column
// already named Reference merges into the synthetic one rather than
// appearing twice; every record is exactly as wide as the column list.
func assembleScrapeTable(rows []model.TableRow, references map[int]string, columnSet map[string]bool) ([]string, [][]string) {
	hasReference := len(rows) > 0

	columns := make([]string, 0, len(columnSet)+1)
	for c := range columnSet {
		if hasReference && c == "Reference" {
			continue
		}
		columns = append(columns, c)
	}
	sort.Strings(columns)
	if hasReference {
		columns = append([]string{"Reference"}, columns...)
	}

	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		record := make([]string, len(columns))
		for j, c := range columns {
			if hasReference && j == 0 {
				// The page's own Reference cell wins; the derived
				// dedup key fills rows without one.
				if v := model.CleanText(row.Cells["Reference"]); v != "" {
					record[j] = v
				} else {
					record[j] = references[i]
				}
				continue
			}
			record[j] = model.CleanText(row.Cells[c])
		}
		out = append(out, record)
	}
	return columns, out
}

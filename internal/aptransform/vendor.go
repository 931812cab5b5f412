package aptransform

import "regexp"

// vendorRule rewrites row fields when its pattern matches the row's
// match text. A rule with an exclude pattern is skipped whenever the
// exclude also matches.
type vendorRule struct {
	match   *regexp.Regexp
	exclude *regexp.Regexp

	vendor      string
	requestType string
	mailing     string
	autoClose   bool
	address     string
}

// vendorRules are matched in order against the joined row text. The
// pipeline runs twice on purpose: the mailing flip for Invoice and Wire
// Transfer request types happens between the passes, and the second
// pass lets a rule put its mailing choice back.
var vendorRules = []vendorRule{
	{
		match:       regexp.MustCompile(`(?i)\b(fedex|federal express)\b`),
		vendor:      "FEDEX",
		requestType: "Invoice",
		mailing:     "MISC",
	},
	{
		match:       regexp.MustCompile(`(?i)\b(dmv|department of motor vehicles)\b`),
		exclude:     regexp.MustCompile(`(?i)\brenewal\b`),
		vendor:      "DMV",
		requestType: "Check Request",
		mailing:     "HUB CHECKS",
	},
	{
		match:       regexp.MustCompile(`(?i)\bcounty (clerk|treasurer)\b`),
		requestType: "Check Request",
		mailing:     "HUB CHECKS",
		address:     "PO Box 1450, Springfield, IL 62705",
	},
	{
		match:     regexp.MustCompile(`(?i)\bauction\b`),
		exclude:   regexp.MustCompile(`(?i)\bpost[- ]?auction\b`),
		vendor:    "AUCTION HOUSE",
		autoClose: true,
	},
	{
		match:       regexp.MustCompile(`(?i)\bwire transfer\b`),
		requestType: "Wire Transfer",
	},
	{
		match:   regexp.MustCompile(`(?i)\bovernight\b`),
		mailing: "HUB CHECKS",
	},
	{
		match:   regexp.MustCompile(`(?i)\b(in[- ]?house|internal payment)\b`),
		exclude: regexp.MustCompile(`(?i)\bexternal\b`),
		mailing: "INHOUSE",
	},
}

// applyVendorRules runs every rule once, in order, against matchText.
func applyVendorRules(row *outputRow, matchText string) {
	for _, rule := range vendorRules {
		if !rule.match.MatchString(matchText) {
			continue
		}
		if rule.exclude != nil && rule.exclude.MatchString(matchText) {
			continue
		}
		if rule.vendor != "" {
			row.cells[ColVendor] = rule.vendor
		}
		if rule.requestType != "" {
			row.cells[ColRequestType] = rule.requestType
		}
		if rule.mailing != "" {
			row.cells[ColMailingInstructions] = rule.mailing
		}
		if rule.autoClose {
			row.cells[ColAutoClose] = "TRUE"
		}
		if rule.address != "" {
			row.cells[ColAddress] = rule.address
		}
	}
}

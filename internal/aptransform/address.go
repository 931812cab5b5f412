package aptransform

import (
	"regexp"
	"strings"
)

// parsedAddress is the street/apt/city/state/zip split of a free-form
// mailing address.
type parsedAddress struct {
	Street string
	Apt    string
	City   string
	State  string
	Zip    string
}

var (
	zipRe   = regexp.MustCompile(`(\d{5}(?:-\d{4})?)\s*$`)
	stateRe = regexp.MustCompile(`[ ,]\s*([A-Za-z]{2})\.?\s*$`)
	aptRe   = regexp.MustCompile(`(?i)[, ]\s*((?:apt|unit|suite|ste|#)\.?\s*#?\s*[A-Za-z0-9-]+)\s*$`)
)

// parseAddress splits right to left: zip first, then the two-letter
// state, then an apartment marker, and whatever trails after the last
// comma of the remainder becomes the city.
func parseAddress(raw string) parsedAddress {
	var out parsedAddress
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return out
	}

	if m := zipRe.FindStringSubmatchIndex(rest); m != nil {
		out.Zip = rest[m[2]:m[3]]
		rest = strings.TrimRight(strings.TrimSpace(rest[:m[0]]), ",")
	}
	if m := stateRe.FindStringSubmatchIndex(rest); m != nil {
		out.State = strings.ToUpper(rest[m[2]:m[3]])
		rest = strings.TrimRight(strings.TrimSpace(rest[:m[0]]), ",")
	}
	if m := aptRe.FindStringSubmatchIndex(rest); m != nil {
		out.Apt = strings.TrimSpace(rest[m[2]:m[3]])
		rest = strings.TrimRight(strings.TrimSpace(rest[:m[0]]), ",")
	}

	rest = strings.TrimSpace(rest)
	if idx := strings.LastIndex(rest, ","); idx >= 0 {
		out.City = strings.TrimSpace(rest[idx+1:])
		out.Street = strings.TrimSpace(rest[:idx])
	} else {
		out.Street = rest
	}
	return out
}

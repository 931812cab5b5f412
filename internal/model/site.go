// Package model defines the contract types shared across the runtime:
// sites, actions, rules, workflows, run reports and the host envelope.
package model

import (
	"fmt"
	"strings"
)

// Site identifies one of the three supported applications.
type Site string

const (
	// SiteTracker is the Jira ticket tracker.
	SiteTracker Site = "A"
	// SiteInvoices is the ERP invoice screen.
	SiteInvoices Site = "B"
	// SiteResearch is the internal research portal.
	SiteResearch Site = "C"
	// SiteUnsupported is returned for URLs that match no known host.
	SiteUnsupported Site = "unsupported"
)

// AllSites lists the supported sites in detection order.
var AllSites = []Site{SiteTracker, SiteInvoices, SiteResearch}

var siteTokens = map[Site]string{
	SiteTracker:  "a",
	SiteInvoices: "b",
	SiteResearch: "c",
}

// Token returns the lowercase wire token for the site.
func (s Site) Token() string {
	if t, ok := siteTokens[s]; ok {
		return t
	}
	return string(SiteUnsupported)
}

// ParseSiteToken resolves a lowercase token back to a Site.
func ParseSiteToken(token string) (Site, error) {
	for site, t := range siteTokens {
		if t == strings.ToLower(strings.TrimSpace(token)) {
			return site, nil
		}
	}
	return SiteUnsupported, fmt.Errorf("unknown site token: %q", token)
}

// IsSupported reports whether the site is one of the three known sites.
func (s Site) IsSupported() bool {
	_, ok := siteTokens[s]
	return ok
}

// hostSignature pairs a substring signature with the site it identifies.
// Order matters: the first match wins.
type hostSignature struct {
	fragment string
	site     Site
}

var hostSignatures = []hostSignature{
	{"jira.", SiteTracker},
	{"atlassian.net", SiteTracker},
	{"fa.us2", SiteInvoices},
	{"fa.ocs", SiteInvoices},
	{"research.example-corp", SiteResearch},
}

// DetectSite maps a URL to a supported Site, or SiteUnsupported.
// The match is a case-insensitive substring test over fixed host
// signatures; no scheme restriction, no regular expressions.
func DetectSite(url string) Site {
	if strings.TrimSpace(url) == "" {
		return SiteUnsupported
	}
	lower := strings.ToLower(url)
	for _, sig := range hostSignatures {
		if strings.Contains(lower, sig.fragment) {
			return sig.site
		}
	}
	return SiteUnsupported
}

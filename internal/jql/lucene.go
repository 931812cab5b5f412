package jql

import (
	"fmt"
	"strconv"
	"strings"
)

// escapeProfile is the allow-flag table driving Lucene escaping: a
// character class left unescaped only when its flag is set.
type escapeProfile struct {
	wildcards bool // * and ?
	fuzzy     bool // ~
	boost     bool // ^
}

var searchProfiles = map[TextSearchMode]escapeProfile{
	SearchSimple:    {},
	SearchWildcard:  {wildcards: true},
	SearchPrefix:    {},
	SearchSuffix:    {},
	SearchFuzzy:     {},
	SearchProximity: {},
	SearchBoost:     {},
}

// luceneSpecials are the characters the Lucene query parser treats
// specially outside of phrases.
const luceneSpecials = `+-!(){}[]^"~*?:\/`

// escapeLucene backslash-escapes specials according to the profile,
// and always doubles the && and || operators.
func escapeLucene(text string, profile escapeProfile) string {
	var sb strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case (r == '&' || r == '|') && i+1 < len(runes) && runes[i+1] == r:
			sb.WriteRune('\\')
			sb.WriteRune(r)
			sb.WriteRune(r)
			i++
			continue
		case (r == '*' || r == '?') && profile.wildcards:
			sb.WriteRune(r)
			continue
		case r == '~' && profile.fuzzy:
			sb.WriteRune(r)
			continue
		case r == '^' && profile.boost:
			sb.WriteRune(r)
			continue
		case strings.ContainsRune(luceneSpecials, r):
			sb.WriteRune('\\')
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// escapePhrase only escapes embedded quotes and backslashes; phrase
// contents are otherwise literal.
func escapePhrase(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"`, `\"`)
}

// RenderTextSearch produces the Lucene-level query text for a
// text-search clause value, before JQL-level quoting.
func RenderTextSearch(text string, search TextSearchState) string {
	mode := search.Mode
	if mode == "" {
		mode = SearchSimple
	}

	switch mode {
	case SearchRaw:
		return text
	case SearchPhrase:
		return `"` + escapePhrase(text) + `"`
	case SearchProximity:
		distance := search.Distance
		if distance <= 0 {
			distance = 1
		}
		return fmt.Sprintf(`"%s"~%d`, escapePhrase(text), distance)
	case SearchPrefix:
		return escapeLucene(text, searchProfiles[mode]) + "*"
	case SearchSuffix:
		return "*" + escapeLucene(text, searchProfiles[mode])
	case SearchFuzzy:
		return escapeLucene(text, searchProfiles[mode]) + "~"
	case SearchBoost:
		factor := search.Boost
		if factor <= 0 {
			factor = 1
		}
		body := escapeLucene(text, searchProfiles[mode])
		if strings.ContainsRune(text, ' ') {
			body = `"` + escapePhrase(text) + `"`
		}
		return body + "^" + strconv.FormatFloat(factor, 'f', -1, 64)
	case SearchWildcard:
		return escapeLucene(text, searchProfiles[mode])
	default:
		return escapeLucene(text, searchProfiles[SearchSimple])
	}
}

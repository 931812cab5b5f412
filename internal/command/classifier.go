package command

import "strings"

// ValidationOutcome is the classified invoice validation state.
type ValidationOutcome string

const (
	OutcomeValidated        ValidationOutcome = "validated"
	OutcomeNeedsRevalidated ValidationOutcome = "needs-revalidated"
	OutcomeUnknown          ValidationOutcome = "unknown"
)

// classifierTokens normalizes status-cell text: lowercase, non-letter
// to space, runs collapsed.
func classifierTokens(text string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

var revalidationNouns = map[string]bool{
	"validation":     true,
	"revalidation":   true,
	"reverification": true,
}

func hasRevalidPrefix(token string) bool {
	return strings.HasPrefix(token, "revalid") || strings.HasPrefix(token, "reverif")
}

// ClassifyValidationStatus maps visible status-cell text to an outcome
// by token analysis.
func ClassifyValidationStatus(text string) ValidationOutcome {
	tokens := classifierTokens(text)

	var hasNeeds, hasValidated, hasNoun, hasRe, hasNegation bool
	for _, t := range tokens {
		switch {
		case t == "needs":
			hasNeeds = true
		case t == "validated":
			hasValidated = true
		case t == "not" || t == "unvalidated":
			hasNegation = true
		}
		if revalidationNouns[t] || hasRevalidPrefix(t) {
			hasNoun = true
		}
		if t == "re" || hasRevalidPrefix(t) {
			hasRe = true
		}
	}

	needsRevalidated := hasNeeds && (hasValidated || hasNoun) && hasRe
	if needsRevalidated {
		return OutcomeNeedsRevalidated
	}

	// The single-token input "validated" is accepted as-is even though
	// it also satisfies the general rule below.
	if len(tokens) == 1 && tokens[0] == "validated" {
		return OutcomeValidated
	}
	if hasValidated && !hasNegation {
		return OutcomeValidated
	}
	return OutcomeUnknown
}

package jql

import (
	"regexp"
	"strings"
)

var bareIdentRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

var functionCallRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\(.*\)$`)

// Build renders the state to its canonical JQL string. A default state
// (one empty clause, no sorts) renders to the empty string.
func Build(state *State) string {
	body := renderGroup(&state.Root, state.Settings, true)
	sorts := renderSorts(state.Sorts)
	switch {
	case body == "" && sorts == "":
		return ""
	case body == "":
		return sorts
	case sorts == "":
		return body
	default:
		return body + " " + sorts
	}
}

// renderGroup renders a group's children joined by its mode, honoring
// per-child joiner overrides. The root never gets parentheses and its
// own joiner is ignored; non-root groups are parenthesized only when
// two or more children render.
func renderGroup(g *Group, settings Settings, root bool) string {
	var parts []string
	var joiners []Joiner

	for i := range g.Children {
		child := g.Children[i]
		var rendered string
		var joiner Joiner
		if child.Clause != nil {
			rendered = renderClause(child.Clause, settings)
			joiner = child.Clause.Joiner
		} else if child.Group != nil {
			rendered = renderGroup(child.Group, settings, false)
			joiner = child.Group.Joiner
		}
		if rendered == "" {
			continue
		}
		parts = append(parts, rendered)
		joiners = append(joiners, joiner)
	}

	if len(parts) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			joiner := joiners[i]
			if joiner == JoinerNone {
				joiner = Joiner(g.Mode)
			}
			sb.WriteString(" ")
			sb.WriteString(string(joiner))
			sb.WriteString(" ")
		}
		sb.WriteString(part)
	}
	body := sb.String()

	// A singleton group unwraps to its only child's text.
	if !root && len(parts) >= 2 {
		body = "(" + body + ")"
	}
	if g.Negated && body != "" {
		if len(parts) == 1 && !strings.HasPrefix(body, "(") {
			body = "(" + body + ")"
		}
		body = "NOT " + body
	}
	return body
}

// renderClause renders one leaf condition, or "" when the field is
// still empty.
func renderClause(c *Clause, settings Settings) string {
	if strings.TrimSpace(c.Field) == "" {
		return ""
	}
	spec := LookupOperator(c.OperatorKey)

	var sb strings.Builder
	if c.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString(quoteIdentifier(c.Field))
	sb.WriteString(" ")
	sb.WriteString(spec.Keyword)

	switch spec.Arity {
	case ArityNone:
		if spec.Preset != "" {
			sb.WriteString(" ")
			sb.WriteString(spec.Preset)
		}
	case ArityList:
		value := renderList(c.Value.List, settings)
		if value == "" {
			return ""
		}
		sb.WriteString(" ")
		sb.WriteString(value)
	case AritySingle:
		value := renderValue(c, spec, settings)
		if value == "" {
			return ""
		}
		sb.WriteString(" ")
		sb.WriteString(value)
	}

	if suffix := renderHistory(c.History, spec, settings); suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(suffix)
	}
	return sb.String()
}

func renderValue(c *Clause, spec OperatorSpec, settings Settings) string {
	switch c.Value.Mode {
	case ValueRaw:
		return strings.TrimSpace(c.Value.Text)
	case ValueFunction:
		text := strings.TrimSpace(c.Value.Text)
		if text == "" {
			return ""
		}
		if !strings.HasSuffix(text, ")") {
			text += "()"
		}
		return text
	case ValueList:
		return renderList(c.Value.List, settings)
	default:
		text := c.Value.Text
		if strings.TrimSpace(text) == "" {
			return ""
		}
		if spec.TextSearch {
			return quoteAlways(RenderTextSearch(text, c.TextSearch))
		}
		return quoteValue(text, settings)
	}
}

// renderList renders "(a, b)" from the non-blank values, or "" when
// none remain; an empty parenthesized list is not valid JQL.
func renderList(values []string, settings Settings) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		kept = append(kept, quoteValue(v, settings))
	}
	if len(kept) == 0 {
		return ""
	}
	return "(" + strings.Join(kept, ", ") + ")"
}

// renderHistory appends the WAS/CHANGED predicate chain in fixed order.
func renderHistory(h HistoryState, spec OperatorSpec, settings Settings) string {
	if spec.History == HistoryNone {
		return ""
	}
	var parts []string
	if spec.History == HistoryChanged {
		if h.From != "" {
			parts = append(parts, "FROM "+quoteValue(h.From, settings))
		}
		if h.To != "" {
			parts = append(parts, "TO "+quoteValue(h.To, settings))
		}
	}
	if h.By != "" {
		parts = append(parts, "BY "+quoteValue(h.By, settings))
	}
	if h.Before != "" {
		parts = append(parts, "BEFORE "+quoteValue(h.Before, settings))
	}
	if h.After != "" {
		parts = append(parts, "AFTER "+quoteValue(h.After, settings))
	}
	return strings.Join(parts, " ")
}

func renderSorts(sorts []SortEntry) string {
	var terms []string
	for _, s := range sorts {
		if strings.TrimSpace(s.Field) == "" {
			continue
		}
		direction := s.Direction
		if direction == "" {
			direction = SortAsc
		}
		terms = append(terms, quoteIdentifier(s.Field)+" "+string(direction))
	}
	if len(terms) == 0 {
		return ""
	}
	return "ORDER BY " + strings.Join(terms, ", ")
}

// quoteIdentifier quotes field and sort names only when they cannot be
// emitted bare.
func quoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	if isBare(name) {
		return name
	}
	return quoteAlways(name)
}

// quoteValue applies the auto-quote rule: bare identifiers pass
// through, function calls pass through, everything else is quoted.
// With auto-quoting off every non-function value is quoted.
func quoteValue(value string, settings Settings) string {
	value = strings.TrimSpace(value)
	if functionCallRe.MatchString(value) {
		return value
	}
	if settings.AutoQuote && isBare(value) {
		return value
	}
	return quoteAlways(value)
}

func quoteAlways(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}

func isBare(value string) bool {
	if value == "" || !bareIdentRe.MatchString(value) {
		return false
	}
	return !reservedWords[strings.ToLower(value)]
}

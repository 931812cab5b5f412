package jql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTextSearch(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		search TextSearchState
		want   string
	}{
		{"simple escapes specials", "a+b", TextSearchState{}, `a\+b`},
		{"simple escapes wildcards", "wid*et?", TextSearchState{}, `wid\*et\?`},
		{"simple doubles boolean operators", "a && b || c", TextSearchState{}, `a \&& b \|| c`},
		{"raw passes through", "a && b*", TextSearchState{Mode: SearchRaw}, "a && b*"},
		{"phrase quotes and escapes", `say "hi"`, TextSearchState{Mode: SearchPhrase}, `"say \"hi\""`},
		{"proximity defaults distance", "quick fox", TextSearchState{Mode: SearchProximity}, `"quick fox"~1`},
		{"proximity with distance", "quick fox", TextSearchState{Mode: SearchProximity, Distance: 5}, `"quick fox"~5`},
		{"prefix appends star", "wid*", TextSearchState{Mode: SearchPrefix}, `wid\**`},
		{"suffix prepends star", "get", TextSearchState{Mode: SearchSuffix}, "*get"},
		{"fuzzy appends tilde", "color", TextSearchState{Mode: SearchFuzzy}, "color~"},
		{"boost single term", "urgent", TextSearchState{Mode: SearchBoost, Boost: 2.5}, "urgent^2.5"},
		{"boost defaults factor", "urgent", TextSearchState{Mode: SearchBoost}, "urgent^1"},
		{"boost phrase-quotes on spaces", "very urgent", TextSearchState{Mode: SearchBoost, Boost: 2}, `"very urgent"^2`},
		{"wildcard keeps star and question mark", "wid*et?", TextSearchState{Mode: SearchWildcard}, "wid*et?"},
		{"wildcard still escapes other specials", "a:b*", TextSearchState{Mode: SearchWildcard}, `a\:b*`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTextSearch(tt.text, tt.search))
		})
	}
}

func TestEscapeLuceneSlashes(t *testing.T) {
	assert.Equal(t, `a\/b\\c`, escapeLucene(`a/b\c`, escapeProfile{}))
}

package hydrate

import (
	"strings"

	"github.com/jacentio/wilayah/store"
)

// Includes is a set of requested descendant levels, keyed by include token
// (e.g., "cities").
type Includes map[string]bool

// ParseIncludes builds an Includes set from raw tokens.
// Tokens are trimmed; blank tokens are dropped. Unknown tokens are kept but
// never enable a level.
func ParseIncludes(tokens ...string) Includes {
	set := make(Includes, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		set[tok] = true
	}
	return set
}

// SplitIncludes parses comma-separated include lists, as passed on
// command lines and query strings ("cities,districts").
func SplitIncludes(lists ...string) Includes {
	var tokens []string
	for _, l := range lists {
		tokens = append(tokens, strings.Split(l, ",")...)
	}
	return ParseIncludes(tokens...)
}

// Depth returns how many levels of chain are enabled: the length of the
// longest prefix of chain whose include tokens are all present.
func (in Includes) Depth(chain []store.Relationship) int {
	depth := 0
	for _, rel := range chain {
		if !in[rel.Include] {
			break
		}
		depth++
	}
	return depth
}

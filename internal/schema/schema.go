// Package schema checks that tables heading into one combined output
// actually share a structure.
package schema

import (
	"sort"
	"strings"

	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// Source is one named table under validation. The name is whatever the
// caller knows the table as, usually an upload file name, and only
// appears in error messages.
type Source struct {
	Name  string
	Table *tabular.Table
}

// Validate checks that every non-empty source has the same column set.
// Column order does not matter, presence does. Empty tables carry no
// structure and are ignored; a batch of only empty tables is valid.
func Validate(sources []Source) error {
	groups := map[string][]string{}
	keys := []string{}
	for _, src := range sources {
		if src.Table == nil || src.Table.Empty() {
			continue
		}
		key := columnSetKey(src.Table.Columns)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], src.Name)
	}
	if len(keys) <= 1 {
		return nil
	}

	var names []string
	for _, key := range keys {
		names = append(names, groups[key]...)
	}
	return tabular.NewSchemaError("schema validation failed: files have different structures", names)
}

// columnSetKey canonicalizes a column list into a set key. Duplicate
// names collapse, order is normalized by sorting.
func columnSetKey(columns []string) string {
	set := make([]string, len(columns))
	copy(set, columns)
	sort.Strings(set)
	uniq := set[:0]
	for i, col := range set {
		if i == 0 || col != set[i-1] {
			uniq = append(uniq, col)
		}
	}
	return strings.Join(uniq, "\x1f")
}

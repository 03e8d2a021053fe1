package tabular

import (
	"sort"
	"strings"
)

// ParseNames returns the first whitespace-delimited token of every data row
// in text, sorted ascending.
//
// Blank lines are skipped, as is every line starting with headerPrefix (an
// empty headerPrefix disables header detection). One trailing stripSuffix
// is removed from each token, and tokens left empty are dropped.
//
// Names are not deduplicated: two rows that differ only in their suffix
// both appear in the result.
func ParseNames(text, headerPrefix, stripSuffix string) []string {
	names := make([]string, 0)

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headerPrefix != "" && strings.HasPrefix(line, headerPrefix) {
			continue
		}

		fields := strings.Fields(line)
		name := strings.TrimSuffix(fields[0], stripSuffix)
		if name != "" {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names
}

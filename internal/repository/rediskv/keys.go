// internal/repository/rediskv/keys.go
package rediskv

import (
	"strings"
	"time"
)

const (
	keyRoot    = "inventory"
	latestKey  = "latest"
	dateLayout = "2006-01-02"
)

// brandPrefix is "inventory:{platform}:{brand}:".
func brandPrefix(platform, brand string) string {
	return strings.Join([]string{keyRoot, platform, brand}, ":") + ":"
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// matchPattern is a SCAN MATCH pattern for keys starting with literal prefix.
func matchPattern(prefix string) string {
	return globEscaper.Replace(prefix) + "*"
}

// rowKey identifies one snapshot row hash.
type rowKey struct {
	Date     string
	Facility string
	Product  string
}

// parseRowKey splits "{prefix}{date}:{facility}:{product}". The product
// segment is taken verbatim so ids may contain colons.
func parseRowKey(prefix, key string) (rowKey, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return rowKey{}, false
	}
	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return rowKey{}, false
	}
	if _, err := time.Parse(dateLayout, parts[0]); err != nil {
		return rowKey{}, false
	}
	return rowKey{Date: parts[0], Facility: parts[1], Product: parts[2]}, true
}

// latestDate returns the greatest snapshot date among keys.
func latestDate(prefix string, keys []string) string {
	var best string
	for _, k := range keys {
		rk, ok := parseRowKey(prefix, k)
		if ok && rk.Date > best {
			best = rk.Date
		}
	}
	return best
}

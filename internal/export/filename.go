package export

import (
	"regexp"
	"strings"
	"time"
)

// Zs covers no-break and other Unicode spaces that \s leaves alone.
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// FileName returns "{Kind}_{Name}_{YYYY-MM-DD}.{ext}" with whitespace runs in
// the name collapsed to single underscores. The date is taken in UTC.
func FileName(kind Kind, displayName string, generatedAt time.Time, ext string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(displayName), "_")
	if name == "" {
		name = defaultDisplayName
	}
	name = strings.NewReplacer("/", "_", "\\", "_", `"`, "").Replace(name)
	return string(kind) + "_" + name + "_" + generatedAt.UTC().Format("2006-01-02") + "." + ext
}

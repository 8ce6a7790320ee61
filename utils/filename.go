package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/rand"
)

// StoredFileName builds the on-disk name for an upload:
// <base>-<unixMillis>-<random><ext>.
func StoredFileName(original string, now time.Time) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = sanitize(base)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%d-%d%s", base, now.UnixMilli(), rand.Intn(1_000_000_000), strings.ToLower(sanitize(ext)))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', 0:
			return '_'
		}
		return r
	}, s)
}

package crawl

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns an xxhash of the extracted fields. Map keys are
// sorted by encoding/json, so equal fields give equal hashes.
func ContentHash(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", xxhash.Sum64(b))
}

// TruncateURL shortens a URL for display, keeping the end which is more
// informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FieldSummary renders fields as "k=v" pairs in key order for progress
// output, truncating long values.
func FieldSummary(fields map[string]any, maxValueLen int) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		v := fmt.Sprint(fields[k])
		if maxValueLen > 0 && len(v) > maxValueLen {
			v = v[:maxValueLen] + "..."
		}
		fmt.Fprintf(&b, "%s=%q", k, v)
	}
	return b.String()
}

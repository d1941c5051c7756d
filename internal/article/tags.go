package article

import (
	"fmt"
	"strings"
)

// CoerceTags turns a raw tags value into an ordered list of strings.
//
// A list is used as-is with elements stringified. A string is split on commas
// and each segment trimmed; empty segments are dropped. When tags are absent
// and rawCategory is non-empty the result is [rawCategory]. Otherwise it is empty.
// Duplicates are kept.
func CoerceTags(value any, rawCategory string) []string {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			tags = append(tags, fmt.Sprint(item))
		}
		return tags
	case nil:
		if c := strings.TrimSpace(rawCategory); c != "" {
			return []string{c}
		}
		return []string{}
	case string:
		return splitTags(v)
	default:
		return splitTags(fmt.Sprint(v))
	}
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

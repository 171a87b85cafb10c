package usecase

import "strings"

// Webhook payloads arrive with many alternately-named variants of the
// same field, so a value is never read from one canonical name: an
// ordered list of paths is probed and the first usable value wins.
// Paths may be dotted to reach nested objects ("contact.name").

func ProbeField(payload map[string]any, paths []string, placeholders []string) string {
	for _, path := range paths {
		value := lookupPath(payload, path)
		if value == "" || isPlaceholder(value, placeholders) {
			continue
		}
		return value
	}
	return ""
}

func lookupPath(payload map[string]any, path string) string {
	current := payload
	parts := strings.Split(path, ".")
	for i, part := range parts {
		raw, ok := current[part]
		if !ok {
			return ""
		}
		if i == len(parts)-1 {
			if s, ok := raw.(string); ok {
				return strings.TrimSpace(s)
			}
			return ""
		}
		nested, ok := raw.(map[string]any)
		if !ok {
			return ""
		}
		current = nested
	}
	return ""
}

func isPlaceholder(value string, placeholders []string) bool {
	for _, p := range placeholders {
		if strings.EqualFold(value, p) {
			return true
		}
	}
	return false
}

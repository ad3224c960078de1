package conflicts

import "strings"

// NormalizeName canonicalizes a framework name for cross-component matching:
// lowercase, whitespace removed, a trailing ".js"/"js" suffix stripped, and
// "."/"-"/"_" separators removed. "Vue.js" and "vue" normalize identically.
// Every conflict detector, resolver and suggestion generator must use this
// same rule; matching on raw names produces false negatives.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "")
	if n == "vue.js" {
		return "vue"
	}
	n = strings.TrimSuffix(n, ".js")
	n = strings.TrimSuffix(n, "js")
	for _, sep := range []string{".", "-", "_"} {
		n = strings.ReplaceAll(n, sep, "")
	}
	return n
}

package conflicts

// incompatiblePairs lists framework pairs that do not coexist in one
// application. Keys are normalized names; the table is symmetric.
var incompatiblePairs = [][2]string{
	{"react", "vue"},
	{"react", "angular"},
	{"vue", "angular"},
	{"django", "flask"},
}

// expectedLanguages maps a normalized framework name to the languages it
// implies. Used by the language-mismatch detector and the
// language-suggestion generator.
var expectedLanguages = map[string][]string{
	"react":      {"javascript", "typescript"},
	"vue":        {"javascript", "typescript"},
	"angular":    {"javascript", "typescript"},
	"svelte":     {"javascript", "typescript"},
	"next":       {"javascript", "typescript"},
	"nest":       {"javascript", "typescript"},
	"express":    {"javascript", "typescript"},
	"fastify":    {"javascript", "typescript"},
	"django":     {"python"},
	"flask":      {"python"},
	"fastapi":    {"python"},
	"gin":        {"go"},
	"echo":       {"go"},
	"fiber":      {"go"},
	"chi":        {"go"},
	"springboot": {"java", "kotlin"},
	"spring":     {"java", "kotlin"},
	"quarkus":    {"java", "kotlin"},
	"actixweb":   {"rust"},
	"axum":       {"rust"},
	"rocket":     {"rust"},
	"rails":      {"ruby"},
	"laravel":    {"php"},
}

// Incompatible reports whether two normalized framework names are a known
// incompatible pair
func Incompatible(a, b string) bool {
	for _, pair := range incompatiblePairs {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}

// ExpectedLanguages returns the languages a normalized framework name
// implies, or nil when unknown
func ExpectedLanguages(normalized string) []string {
	return expectedLanguages[normalized]
}

package utils

import (
	"strings"
	"unicode"
)

// rustKeywords holds strict and reserved Rust keywords
var rustKeywords = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "become": true, "box": true,
	"break": true, "const": true, "continue": true, "crate": true, "do": true, "dyn": true,
	"else": true, "enum": true, "extern": true, "false": true, "final": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true,
	"macro": true, "match": true, "mod": true, "move": true, "mut": true, "override": true,
	"priv": true, "pub": true, "ref": true, "return": true, "self": true, "Self": true,
	"static": true, "struct": true, "super": true, "trait": true, "true": true, "try": true,
	"type": true, "typeof": true, "unsafe": true, "unsized": true, "use": true, "virtual": true,
	"where": true, "while": true, "yield": true,
}

// IsKeyword reports whether name is a reserved word in generated code
func IsKeyword(name string) bool {
	return rustKeywords[name]
}

// PreventKeywords appends an underscore to names that collide with a keyword
func PreventKeywords(name string) string {
	if IsKeyword(name) {
		return name + "_"
	}
	return name
}

// FirstToLower lowercases the first rune of s
func FirstToLower(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// CamelToSnakeCase converts CamelCase to snake_case.
// Acronyms stay together: "GetIID" becomes "get_iid", "HTMLView" becomes "html_view".
func CamelToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToFeatureName turns an assembly name into a Cargo feature name ("Windows.Data" -> "windows-data")
func ToFeatureName(assembly string) string {
	return strings.ToLower(strings.ReplaceAll(assembly, ".", "-"))
}

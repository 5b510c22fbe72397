// Package naming builds node and product names.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MayaValidName rewrites name the way the host's Maya export script does:
// a leading character outside [a-z_] gets an underscore prefix, line breaks
// are dropped, every other character outside [a-z0-9_] becomes an
// underscore, underscore runs collapse and one trailing underscore is
// trimmed. Letters are matched case-insensitively.
func MayaValidName(name string) string {
	if name == "" {
		return ""
	}
	first := []rune(name)[0]
	if !isLetter(first) && first != '_' {
		name = "_" + name
	}
	name = strings.NewReplacer("\n", "", "\r", "").Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isLetter(r) || isDigit(r) || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	name = b.String()

	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.TrimSuffix(name, "_")
}

// ProductName joins a product type and a variant, e.g. "matchmove" and
// "cameraTrack" give "matchmoveCameraTrack". The variant keeps its inner
// casing; only the first letter is raised.
func ProductName(productType, variant string) string {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return productType
	}
	fields := strings.FieldsFunc(variant, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '.'
	})
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	b.WriteString(productType)
	for _, field := range fields {
		b.WriteString(caser.String(field))
	}
	return b.String()
}

func isLetter(r rune) bool {
	r = unicode.ToLower(r)
	return r >= 'a' && r <= 'z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

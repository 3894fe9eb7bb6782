package shopping

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var cyrillicLower = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'і': "i", 'ї': "yi", 'є': "ye", 'ґ': "g",
}

var cyrillic = func() map[rune]string {
	m := make(map[rune]string, 2*len(cyrillicLower))
	for r, lat := range cyrillicLower {
		m[r] = lat
		upper := unicode.ToUpper(r)
		if lat == "" {
			m[upper] = ""
			continue
		}
		m[upper] = strings.ToUpper(lat[:1]) + lat[1:]
	}
	return m
}()

// Transliterate maps s to printable ASCII. Cyrillic goes through a fixed
// table, accented Latin loses its marks, anything else becomes '?'.
// The mapping is lossy and one-way.
func Transliterate(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if lat, ok := cyrillic[r]; ok {
			b.WriteString(lat)
			continue
		}
		stripped, _, err := transform.String(stripMarks, string(r))
		if err == nil && stripped != "" && isASCII(stripped) {
			b.WriteString(stripped)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

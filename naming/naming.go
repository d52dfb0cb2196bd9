package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// span is the byte range of a single word inside an identifier.
type span struct{ start, end int }

// spans splits s into word ranges. Any rune that is not a letter or a digit
// separates words. Inside a run of letters and digits a new word starts:
//   - at an upper-case letter that follows a lower-case letter ("invoiceLine"),
//   - at the last upper-case letter of a capitalized run that is followed by a
//     lower-case letter ("HTTPServer" splits as "HTTP" "Server"),
//   - between a letter and a digit, in both directions ("line2" "2fa").
func spans(s string) []span {
	var (
		out   []span
		start = -1
		prev  rune
	)
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			prev = 0
			continue
		}
		if start < 0 {
			start, prev = i, r
			continue
		}
		if boundary(prev, r, s[i+utf8.RuneLen(r):]) {
			out = append(out, span{start, i})
			start = i
		}
		prev = r
	}
	if start >= 0 {
		out = append(out, span{start, len(s)})
	}
	return out
}

func boundary(prev, cur rune, rest string) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur), unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		next, _ := utf8.DecodeRuneInString(rest)
		return unicode.IsLower(next)
	}
	return false
}

// Words returns the words of an identifier in their original casing.
//
//	Words("invoice_line")  // ["invoice", "line"]
//	Words("HTTPServer2")   // ["HTTP", "Server", "2"]
func Words(s string) []string {
	sp := spans(s)
	if len(sp) == 0 {
		return nil
	}
	words := make([]string, len(sp))
	for i, w := range sp {
		words[i] = s[w.start:w.end]
	}
	return words
}

// title capitalizes a single word and lower-cases the rest of it.
// A Caser is stateful, so every call gets its own.
func title(w string) string {
	return cases.Title(language.English).String(w)
}

// Pascal returns the PascalCase form of s ("invoice_id" -> "InvoiceId").
func Pascal(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title(w))
	}
	return b.String()
}

// Camel returns the camelCase form of s ("invoice_id" -> "invoiceId").
func Camel(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// Snake returns the snake_case form of s ("InvoiceLine" -> "invoice_line").
func Snake(s string) string {
	return join(s, "_", strings.ToLower)
}

// Kebab returns the kebab-case form of s ("InvoiceLine" -> "invoice-line").
func Kebab(s string) string {
	return join(s, "-", strings.ToLower)
}

// Title returns the words of s capitalized and separated by spaces
// ("invoice_line" -> "Invoice Line").
func Title(s string) string {
	return join(s, " ", title)
}

// Sentence returns the words of s separated by spaces with only the first
// word capitalized ("InvoiceLine" -> "Invoice line").
func Sentence(s string) string {
	return Capitalize(join(s, " ", strings.ToLower))
}

func join(s, sep string, f func(string) string) string {
	words := Words(s)
	for i := range words {
		words[i] = f(words[i])
	}
	return strings.Join(words, sep)
}

// Capitalize upper-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Decapitalize lower-cases the first rune of s and leaves the rest untouched.
func Decapitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}

// PreserveCase maps the casing of exemplar onto source:
//   - an all upper-case exemplar yields an all upper-case result,
//   - an all lower-case exemplar yields an all lower-case result,
//   - a capitalized exemplar ("Person") capitalizes source and lower-cases the rest,
//   - anything else is mapped rune by rune; source runes past the end of the
//     exemplar are lower-cased.
//
// An empty exemplar returns source unchanged.
func PreserveCase(exemplar, source string) string {
	if exemplar == "" || source == "" {
		return source
	}
	switch {
	case exemplar == strings.ToUpper(exemplar):
		return strings.ToUpper(source)
	case exemplar == strings.ToLower(exemplar):
		return strings.ToLower(source)
	case isCapitalized(exemplar):
		return Capitalize(strings.ToLower(source))
	}
	pattern := []rune(exemplar)
	out := []rune(source)
	for i, r := range out {
		if i < len(pattern) && unicode.IsUpper(pattern[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

func isCapitalized(s string) bool {
	r, n := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) && s[n:] == strings.ToLower(s[n:])
}

package naming

import "go/token"

// Keywords is an immutable set of reserved words of a target language together
// with the prefix that turns a reserved word into a legal identifier.
type Keywords struct {
	words  map[string]struct{}
	prefix string
}

// NewKeywords returns a Keywords table escaping the given words with prefix.
func NewKeywords(prefix string, words ...string) *Keywords {
	k := &Keywords{words: make(map[string]struct{}, len(words)), prefix: prefix}
	for _, w := range words {
		k.words[w] = struct{}{}
	}
	return k
}

var (
	// CSharp holds the C# reserved words. Reserved identifiers are emitted in
	// their verbatim form ("@event").
	CSharp = NewKeywords("@",
		"abstract", "as", "base", "bool", "break", "byte", "case", "catch",
		"char", "checked", "class", "const", "continue", "decimal", "default",
		"delegate", "do", "double", "else", "enum", "event", "explicit",
		"extern", "false", "finally", "fixed", "float", "for", "foreach",
		"goto", "if", "implicit", "in", "int", "interface", "internal", "is",
		"lock", "long", "namespace", "new", "null", "object", "operator",
		"out", "override", "params", "private", "protected", "public",
		"readonly", "ref", "return", "sbyte", "sealed", "short", "sizeof",
		"stackalloc", "static", "string", "struct", "switch", "this", "throw",
		"true", "try", "typeof", "uint", "ulong", "unchecked", "unsafe",
		"ushort", "using", "virtual", "void", "volatile", "while",
	)
	// Go holds the Go keywords. Reserved identifiers are prefixed with "_".
	Go = goKeywords()
)

func goKeywords() *Keywords {
	var words []string
	for tok := token.BREAK; tok <= token.VAR; tok++ {
		if tok.IsKeyword() {
			words = append(words, tok.String())
		}
	}
	return NewKeywords("_", words...)
}

// IsReserved reports whether id is a reserved word. The match is case-sensitive.
func (k *Keywords) IsReserved(id string) bool {
	_, ok := k.words[id]
	return ok
}

// Guard returns id escaped with the table prefix when it is reserved, and id
// unchanged otherwise.
func (k *Keywords) Guard(id string) string {
	if k.IsReserved(id) {
		return k.prefix + id
	}
	return id
}

// Prefix returns the escape prefix of the table.
func (k *Keywords) Prefix() string { return k.prefix }

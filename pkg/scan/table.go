package scan

import "github.com/thesephist/jiki/pkg/token"

// Table describes the lexical surface of one guest language. Scanning is
// otherwise identical across guests.
type Table struct {
	Keywords  map[string]token.Kind
	Operators map[string]token.Kind

	// LineComment starts a comment running to the end of the line.
	LineComment string
	// BlockComments enables /* ... */.
	BlockComments bool
	// Quotes lists the accepted string delimiters.
	Quotes string
	// Templates enables backtick strings with ${} interpolation.
	Templates bool
	// FStrings enables f"...{expr}..." interpolation.
	FStrings bool
	// Indentation switches line handling to NEWLINE/INDENT/DEDENT.
	Indentation bool
	// Namespaces lets identifiers contain '#' after the first character.
	Namespaces bool
	// SuppressNewlines lists the opening brackets inside which line breaks
	// are not significant.
	SuppressNewlines string
	// UnopenedStrings reports identifiers glued to a closing quote.
	UnopenedStrings bool

	// Unimplemented tokens are recognised but rejected for now.
	Unimplemented map[token.Kind]bool
	// Excluded tokens are never part of the taught language.
	Excluded map[token.Kind]bool
}

func (t *Table) newlineKind() token.Kind {
	if t.Indentation {
		return token.Newline
	}
	return token.EOL
}

// maxOperatorLen bounds maximal munch.
func (t *Table) maxOperatorLen() int {
	n := 0
	for op := range t.Operators {
		if len(op) > n {
			n = len(op)
		}
	}
	return n
}

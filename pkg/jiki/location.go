package jiki

import "fmt"

// Location is a span of guest source. Line and Col are 1-based and point at
// the first character; Begin and End are byte offsets with End exclusive.
type Location struct {
	Line  int
	Col   int
	Begin int
	End   int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Through returns the span starting at l and ending where other ends.
func (l Location) Through(other Location) Location {
	if other.End < l.End {
		return l
	}
	return Location{
		Line:  l.Line,
		Col:   l.Col,
		Begin: l.Begin,
		End:   other.End,
	}
}

// Code slices the source text covered by the location.
func (l Location) Code(source string) string {
	begin, end := l.Begin, l.End
	if begin < 0 {
		begin = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if begin >= end {
		return ""
	}
	return source[begin:end]
}

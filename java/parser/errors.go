package parser

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed input at a byte offset.
type SyntaxError struct {
	File    string
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Offset, e.Message)
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// ErrorList collects every syntax error found while parsing one input.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l)-1)
	return b.String()
}

// Err returns nil for an empty list so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

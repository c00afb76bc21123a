// Package stream provides token-source views over one value of an enclosing
// document stream.
package stream

import (
	"io"

	eng "github.com/reoring/datatree/internal/engine"
)

// Subtree is a token source that first returns a preloaded token (the first
// token of a value, typically already read by the caller) and then streams
// the remaining tokens of the same value from the underlying source. It
// returns io.EOF once the value is complete.
type Subtree struct {
	inner  eng.TokenSource
	first  eng.Token
	served bool
	depth  int
	done   bool
}

// NewSubtree constructs a view over the value that begins with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	tok := s.first
	if s.served {
		var err error
		if tok, err = s.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	s.served = true
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 && tok.Kind != eng.KindKey {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

// Skip consumes the rest of the value that begins with first.
func Skip(inner eng.TokenSource, first eng.Token) error {
	s := NewSubtree(inner, first)
	for {
		if _, err := s.NextToken(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

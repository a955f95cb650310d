package token

// Stream is a restartable, random-access sequence of tokens produced by the
// tokenizer for one translation unit. It is the external collaborator named
// in spec.md §1 (the lexical tokenizer itself is out of core scope): this
// type only describes the shape the preprocessor and parser consume, and
// offers the splicing operation the preprocessor needs for #include.
type Stream struct {
	toks []Token
	pos  int
}

// NewStream wraps an already-tokenized slice. The final token is expected
// (but not required) to be of Kind EOF.
func NewStream(toks []Token) *Stream {
	return &Stream{toks: toks}
}

// Peek returns the token at the current position without advancing.
func (s *Stream) Peek() Token {
	if s.pos >= len(s.toks) {
		return Token{Kind: EOF}
	}
	return s.toks[s.pos]
}

// PeekAt returns the token offset tokens ahead of the current position,
// without advancing. offset 0 is equivalent to Peek.
func (s *Stream) PeekAt(offset int) Token {
	i := s.pos + offset
	if i < 0 || i >= len(s.toks) {
		return Token{Kind: EOF}
	}
	return s.toks[i]
}

// Next returns the token at the current position and advances past it.
func (s *Stream) Next() Token {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

// Mark returns an opaque position usable with Reset to restart the stream
// from this point, satisfying the "restartable" requirement of spec.md §3.
func (s *Stream) Mark() int { return s.pos }

// Reset restarts the stream at a position previously returned by Mark.
func (s *Stream) Reset(mark int) { s.pos = mark }

// AtEnd reports whether the stream has been fully consumed.
func (s *Stream) AtEnd() bool { return s.Peek().Kind == EOF }

// Splice inserts toks immediately after the current position, without
// advancing. This is the primitive the preprocessor uses to implement
// #include: the included file's tokens become the next ones read.
func (s *Stream) Splice(toks []Token) {
	if len(toks) == 0 {
		return
	}
	rest := make([]Token, 0, len(s.toks)-s.pos+len(toks))
	rest = append(rest, toks...)
	rest = append(rest, s.toks[s.pos:]...)
	s.toks = append(s.toks[:s.pos], rest...)
}

// All returns the remaining tokens from the current position onward,
// without consuming them. Used by tests to assert on a fully-drained
// stream's shape.
func (s *Stream) All() []Token {
	return append([]Token(nil), s.toks[s.pos:]...)
}

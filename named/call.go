package named

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ardnew/toolconf/pkg"
)

// Position is a 1-based line and column in invocation text.
type Position struct {
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Call is one parsed invocation: a function name and its labelled
// arguments in source order.
type Call struct {
	Name string
	Args Args
	Pos  Position
}

// String renders the call in invocation syntax.
func (c Call) String() string { return c.Name + "(" + c.Args.String() + ")" }

// Quote wraps v in square brackets so that it reads back verbatim.
func Quote(v string) string { return "[" + v + "]" }

// ParseCall parses text holding exactly one invocation.
func ParseCall(src string) (Call, error) {
	calls, err := ParseScript(src)
	if err != nil {
		return Call{}, err
	}

	if len(calls) != 1 {
		return Call{}, pkg.ErrSyntax.
			With(slog.Int("calls", len(calls))).
			Wrapf("expected exactly one invocation, found %d", len(calls))
	}

	return calls[0], nil
}

// ParseScript parses a sequence of invocations separated by whitespace.
// Comments start with "#" and run to the end of the line.
func ParseScript(src string) ([]Call, error) {
	sc := scanner{src: []rune(src), line: 1, col: 1}

	var calls []Call

	for {
		sc.skipBlankAndComments()

		if sc.eof() {
			return calls, nil
		}

		call, err := sc.call()
		if err != nil {
			return nil, err
		}

		calls = append(calls, call)
	}
}

// scanner is a rune cursor over invocation text that tracks its position.
type scanner struct {
	src       []rune
	off       int
	line, col int
}

func (s *scanner) eof() bool { return s.off >= len(s.src) }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	return s.src[s.off]
}

func (s *scanner) next() rune {
	r := s.src[s.off]
	s.off++

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

func (s *scanner) pos() Position { return Position{Line: s.line, Column: s.col} }

func (s *scanner) errorf(at Position, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	return pkg.ErrSyntax.
		With(slog.Int("line", at.Line), slog.Int("column", at.Column)).
		Wrapf("line %d, column %d: %s", at.Line, at.Column, msg)
}

func (s *scanner) skipBlankAndComments() {
	for !s.eof() {
		switch r := s.peek(); {
		case unicode.IsSpace(r):
			s.next()
		case r == '#':
			for !s.eof() && s.peek() != '\n' {
				s.next()
			}
		default:
			return
		}
	}
}

// skipInline skips spaces and tabs but not line breaks.
func (s *scanner) skipInline() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.next()
	}
}

func (s *scanner) skipSpace() {
	for !s.eof() && unicode.IsSpace(s.peek()) {
		s.next()
	}
}

func (s *scanner) ident() string {
	start := s.off

	for !s.eof() {
		r := s.peek()
		if r == '_' || unicode.IsLetter(r) || (s.off > start && unicode.IsDigit(r)) {
			s.next()

			continue
		}

		break
	}

	return string(s.src[start:s.off])
}

func (s *scanner) call() (Call, error) {
	call := Call{Pos: s.pos()}

	call.Name = s.ident()
	if call.Name == "" {
		return Call{}, s.errorf(call.Pos, "expected function name, found %q", s.peek())
	}

	s.skipInline()

	if s.eof() || s.peek() != '(' {
		return Call{}, s.errorf(s.pos(), "expected ( after %s", call.Name)
	}

	s.next()

	for {
		s.skipSpace()

		if s.eof() {
			return Call{}, s.errorf(call.Pos, "unterminated invocation of %s", call.Name)
		}

		if s.peek() == ')' {
			s.next()

			return call, nil
		}

		arg, closed, err := s.arg(call)
		if err != nil {
			return Call{}, err
		}

		call.Args = append(call.Args, arg)

		if closed {
			return call, nil
		}
	}
}

// arg scans one "NAME: value" element and reports whether it was terminated
// by the closing parenthesis of the call.
func (s *scanner) arg(call Call) (Arg, bool, error) {
	at := s.pos()

	name := s.ident()
	if name == "" {
		return Arg{}, false, s.errorf(at, "%s: expected argument label, found %q", call.Name, s.peek())
	}

	if s.eof() || s.peek() != ':' {
		return Arg{}, false, s.errorf(s.pos(), "%s: argument %s is not of the form %s: value", call.Name, name, name)
	}

	s.next()
	s.skipInline()

	if s.peek() == '\n' || s.peek() == '\r' {
		return Arg{}, false, s.errorf(s.pos(), "%s: value of %s must start on the same line as its label", call.Name, name)
	}

	var (
		val      strings.Builder
		parens   int
		brackets int
	)

	for !s.eof() {
		r := s.peek()

		switch {
		case r == '[':
			brackets++

		case r == ']':
			if brackets == 0 {
				return Arg{}, false, s.errorf(s.pos(), "%s: unbalanced ] in value of %s", call.Name, name)
			}

			brackets--

		case brackets > 0:

		case r == '(':
			parens++

		case r == ')' && parens > 0:
			parens--

		case r == ')' || r == ',':
			s.next()

			return Arg{Name: name, Value: unquote(strings.TrimSpace(val.String()))}, r == ')', nil
		}

		val.WriteRune(s.next())
	}

	return Arg{}, false, s.errorf(at, "%s: unterminated value of %s", call.Name, name)
}

// unquote removes one pair of square brackets enclosing all of v.
func unquote(v string) string {
	if len(v) < 2 || v[0] != '[' || v[len(v)-1] != ']' {
		return v
	}

	depth := 0

	for i, r := range v {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 && i != len(v)-1 {
				return v
			}
		}
	}

	return v[1 : len(v)-1]
}

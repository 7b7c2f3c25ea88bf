// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logconf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ArgKind identifies the literal type of a handler argument.
type ArgKind int

const (
	ArgString ArgKind = iota
	ArgInt
	ArgFloat
	ArgBool
	ArgNone
	ArgSymbol
)

var errArgsSyntax = errors.New("invalid args")

// Arg is a single literal of a handler args tuple.
type Arg struct {
	Kind  ArgKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// StringArg returns a string literal argument.
func StringArg(value string) Arg { return Arg{Kind: ArgString, Str: value} }

// IntArg returns an integer literal argument.
func IntArg(value int64) Arg { return Arg{Kind: ArgInt, Int: value} }

// SymbolArg returns a reference to a well known object, like sys.stdout.
func SymbolArg(name string) Arg { return Arg{Kind: ArgSymbol, Str: name} }

// String returns the literal as it would be written in the args tuple.
func (a Arg) String() string {
	switch a.Kind {
	case ArgString:
		return strconv.Quote(a.Str)
	case ArgInt:
		return strconv.FormatInt(a.Int, 10)
	case ArgFloat:
		return strconv.FormatFloat(a.Float, 'g', -1, 64)
	case ArgBool:
		if a.Bool {
			return "True"
		}
		return "False"
	case ArgNone:
		return "None"
	default:
		return a.Str
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Arg) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseArgs parses a tuple literal such as ('app.log', 'a', 1048576, 5) or (sys.stdout,).
// The surrounding parenthesis are optional and a trailing comma is allowed.
func ParseArgs(input string) ([]Arg, error) {
	text := strings.TrimSpace(input)
	if strings.HasPrefix(text, "(") {
		if !strings.HasSuffix(text, ")") {
			return nil, fmt.Errorf("%w %q: unbalanced parenthesis", errArgsSyntax, input)
		}
		text = text[1 : len(text)-1]
	}

	scanner := &argScanner{input: text}
	args := make([]Arg, 0)
	for {
		scanner.skipSpaces()
		if scanner.done() {
			return args, nil
		}

		arg, err := scanner.next()
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", errArgsSyntax, input, err)
		}
		args = append(args, arg)

		scanner.skipSpaces()
		if scanner.done() {
			return args, nil
		}
		if scanner.peek() != ',' {
			return nil, fmt.Errorf("%w %q: expected ',' at offset %d", errArgsSyntax, input, scanner.pos)
		}
		scanner.pos++
	}
}

type argScanner struct {
	input string
	pos   int
}

func (s *argScanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *argScanner) peek() byte {
	return s.input[s.pos]
}

func (s *argScanner) skipSpaces() {
	for !s.done() && unicode.IsSpace(rune(s.peek())) {
		s.pos++
	}
}

func (s *argScanner) next() (Arg, error) {
	switch char := s.peek(); {
	case char == '\'' || char == '"':
		value, err := s.quoted(char)
		if err != nil {
			return Arg{}, err
		}
		return StringArg(value), nil
	case char == '-' || char == '+' || (char >= '0' && char <= '9'):
		return s.number()
	case char == '_' || unicode.IsLetter(rune(char)):
		return s.identifier(), nil
	default:
		return Arg{}, fmt.Errorf("unexpected character %q at offset %d", char, s.pos)
	}
}

func (s *argScanner) quoted(quote byte) (string, error) {
	start := s.pos
	s.pos++

	builder := new(strings.Builder)
	for !s.done() {
		char := s.peek()
		s.pos++
		switch char {
		case quote:
			return builder.String(), nil
		case '\\':
			if s.done() {
				return "", fmt.Errorf("unterminated string at offset %d", start)
			}
			escaped := s.peek()
			s.pos++
			switch escaped {
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case '\\', '\'', '"':
				builder.WriteByte(escaped)
			default:
				builder.WriteByte('\\')
				builder.WriteByte(escaped)
			}
		default:
			builder.WriteByte(char)
		}
	}

	return "", fmt.Errorf("unterminated string at offset %d", start)
}

func (s *argScanner) number() (Arg, error) {
	start := s.pos
	s.pos++
	for !s.done() && strings.IndexByte("0123456789._eE+-", s.peek()) >= 0 {
		s.pos++
	}

	literal := strings.ReplaceAll(s.input[start:s.pos], "_", "")
	if value, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return IntArg(value), nil
	}
	if value, err := strconv.ParseFloat(literal, 64); err == nil {
		return Arg{Kind: ArgFloat, Float: value}, nil
	}

	return Arg{}, fmt.Errorf("invalid number %q", literal)
}

func (s *argScanner) identifier() Arg {
	start := s.pos
	for !s.done() {
		char := rune(s.peek())
		if char != '_' && char != '.' && !unicode.IsLetter(char) && !unicode.IsDigit(char) {
			break
		}
		s.pos++
	}

	switch name := s.input[start:s.pos]; name {
	case "True":
		return Arg{Kind: ArgBool, Bool: true}
	case "False":
		return Arg{Kind: ArgBool}
	case "None":
		return Arg{Kind: ArgNone}
	default:
		return SymbolArg(name)
	}
}

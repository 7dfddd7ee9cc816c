package escape

import (
	"strings"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/value"
)

// Escape is the escape character
const Escape = '\\'

// structural characters lose their meaning when escaped
const structural = ",=[]{}"

// token is a single character after escape resolution
type token struct {
	r       rune
	escaped bool
}

// Parse turns a raw command-line or environment string into either a
// string value or a list of strings.
//
// A raw value wrapped in unescaped brackets, or containing unescaped
// commas outside of brackets and braces, is a list. Everything else is a
// string with its escapes resolved.
func Parse(raw string) (value.Value, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return value.Value{}, err
	}

	body, wrapped := unwrapList(tokens)
	segments := splitTopLevel(body, ',')

	if !wrapped && len(segments) == 1 {
		return value.String(join(segments[0])), nil
	}
	if wrapped && len(body) == 0 {
		return value.Strings(), nil
	}

	items := make([]string, len(segments))
	for i, seg := range segments {
		items[i] = join(seg)
	}
	return value.Strings(items...), nil
}

// Unescape resolves every escape sequence in raw without interpreting any
// structure.
func Unescape(raw string) (string, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return "", err
	}
	return join(tokens), nil
}

// SplitAssignment splits a KEY=VALUE argument at its first unescaped '='.
// The key is returned unescaped; the value is returned raw so that it can
// be handed to Parse.
func SplitAssignment(arg string) (string, string, error) {
	idx := firstUnescaped(arg, '=')
	if idx < 0 {
		return "", "", errors.Newf(errors.ErrInvalidVariable,
			"invalid variable '%s': use KEY=VALUE", arg).
			WithDetail("argument", arg)
	}

	rawKey, rawValue := arg[:idx], arg[idx+1:]
	tokens, err := tokenize(rawKey)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrInvalidVariable,
			"invalid variable name in '%s'", arg).
			WithDetail("argument", arg)
	}
	for _, tok := range tokens {
		if !tok.escaped && strings.ContainsRune(structural, tok.r) {
			return "", "", errors.Newf(errors.ErrInvalidVariable,
				"invalid variable name in '%s': unescaped '%c'", arg, tok.r).
				WithDetail("argument", arg)
		}
	}

	key := join(tokens)
	if key == "" {
		return "", "", errors.Newf(errors.ErrInvalidVariable,
			"invalid variable '%s': empty name", arg).
			WithDetail("argument", arg)
	}
	return key, rawValue, nil
}

// tokenize resolves escapes, marking which characters were escaped
func tokenize(raw string) ([]token, error) {
	runes := []rune(raw)
	tokens := make([]token, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != Escape {
			tokens = append(tokens, token{r: r})
			continue
		}
		if i+1 >= len(runes) {
			return nil, errors.Newf(errors.ErrEscape,
				"dangling escape at end of '%s' (position %d)", raw, i).
				WithDetail("position", i)
		}
		next := runes[i+1]
		if next != Escape && !strings.ContainsRune(structural, next) {
			return nil, errors.Newf(errors.ErrEscape,
				"invalid escape sequence '\\%c' at position %d in '%s'", next, i, raw).
				WithDetail("position", i).
				WithDetail("char", string(next))
		}
		tokens = append(tokens, token{r: next, escaped: true})
		i++
	}

	return tokens, nil
}

// unwrapList strips an outer unescaped [ ... ] pair when the opening
// bracket closes on the final character.
func unwrapList(tokens []token) ([]token, bool) {
	n := len(tokens)
	if n < 2 || !isBare(tokens[0], '[') || !isBare(tokens[n-1], ']') {
		return tokens, false
	}

	depth := 0
	for i, tok := range tokens {
		switch {
		case isBare(tok, '['):
			depth++
		case isBare(tok, ']'):
			depth--
			if depth == 0 && i != n-1 {
				return tokens, false
			}
		}
	}
	if depth != 0 {
		return tokens, false
	}
	return tokens[1 : n-1], true
}

// splitTopLevel splits on unescaped sep characters that are not nested
// inside brackets or braces. Stray closers never push depth below zero.
func splitTopLevel(tokens []token, sep rune) [][]token {
	var segments [][]token
	brackets, braces := 0, 0
	start := 0

	for i, tok := range tokens {
		if tok.escaped {
			continue
		}
		switch tok.r {
		case '[':
			brackets++
		case ']':
			if brackets > 0 {
				brackets--
			}
		case '{':
			braces++
		case '}':
			if braces > 0 {
				braces--
			}
		case sep:
			if brackets == 0 && braces == 0 {
				segments = append(segments, tokens[start:i])
				start = i + 1
			}
		}
	}

	return append(segments, tokens[start:])
}

// firstUnescaped returns the byte offset of the first unescaped r, or -1
func firstUnescaped(s string, r rune) int {
	escaped := false
	for i, c := range s {
		switch {
		case escaped:
			escaped = false
		case c == Escape:
			escaped = true
		case c == r:
			return i
		}
	}
	return -1
}

func isBare(tok token, r rune) bool {
	return !tok.escaped && tok.r == r
}

func join(tokens []token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteRune(tok.r)
	}
	return sb.String()
}

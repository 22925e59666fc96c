package parser

import (
	"strings"
	"unicode"
)

// splitTopLevel splits raw at sep when it is outside parentheses and
// brackets.
func splitTopLevel(raw string, sep rune) []string {
	parts := []string{}
	depth := 0
	start := 0
	for i, r := range raw {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if r == sep && depth == 0 {
				parts = append(parts, strings.TrimSpace(raw[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(raw[start:]))
	return parts
}

// indexTopLevel returns the byte offset of the first top-level needle.
func indexTopLevel(raw, needle string) int {
	depth := 0
	for i, r := range raw {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && strings.HasPrefix(raw[i:], needle) {
			return i
		}
	}
	return -1
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// splitNameAndRest splits off the leading identifier of raw.
func splitNameAndRest(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	for i, r := range raw {
		if i == 0 && isIdentStart(r) {
			continue
		}
		if i > 0 && isIdentPart(r) {
			continue
		}
		return raw[:i], strings.TrimSpace(raw[i:])
	}
	return raw, ""
}

func hasKeyword(content, kw string) (string, bool) {
	if !startsWithWord(content, kw) {
		return "", false
	}
	return strings.TrimSpace(content[len(kw):]), true
}

type assignParts struct {
	Left  string
	Op    string
	Right string
}

// splitAssign finds the first top-level "=" that is not part of a
// comparison and folds a preceding arithmetic operator into Op.
func splitAssign(raw string) *assignParts {
	depth := 0
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '(', '[':
			depth++
			continue
		case ')', ']':
			if depth > 0 {
				depth--
			}
			continue
		case '=':
		default:
			continue
		}
		if depth != 0 {
			continue
		}
		prev, next := rune(0), rune(0)
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		if next == '=' || prev == '=' || prev == '!' || prev == '<' || prev == '>' {
			return nil
		}
		left := strings.TrimSpace(string(runes[:i]))
		right := strings.TrimSpace(string(runes[i+1:]))
		if left == "" {
			return nil
		}
		op := "="
		for _, c := range []string{"+", "-", "*", "/", "%", "^"} {
			if strings.HasSuffix(left, c) {
				op = c + "="
				left = strings.TrimSpace(left[:len(left)-len(c)])
				break
			}
		}
		return &assignParts{Left: left, Op: op, Right: right}
	}
	return nil
}

type incDecParts struct {
	Name string
	Op   string
}

func splitIncDec(raw string) *incDecParts {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) < 3 {
		return nil
	}
	var name, op string
	switch {
	case strings.HasPrefix(trimmed, "++") || strings.HasPrefix(trimmed, "--"):
		op, name = trimmed[:2], trimmed[2:]
	case strings.HasSuffix(trimmed, "++") || strings.HasSuffix(trimmed, "--"):
		op, name = trimmed[len(trimmed)-2:], trimmed[:len(trimmed)-2]
	default:
		return nil
	}
	name = strings.TrimSpace(name)
	if !isIdentifier(name) {
		return nil
	}
	return &incDecParts{Name: name, Op: op}
}

func fieldsOperands(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

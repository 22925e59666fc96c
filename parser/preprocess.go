package parser

import (
	"strings"
	"unicode"
)

type Line struct {
	File    string
	Number  int
	Content string
}

type srcChar struct {
	r    rune
	line int
}

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		raw = after
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// SplitLines strips comments from raw source and returns its statement
// lines: plain statements, block headers ending in "{", and closing lines
// starting with "}".
func SplitLines(file, raw string) []Line {
	return splitStatements(file, stripComments(normalize(raw)))
}

// stripComments drops "//" and non-nested "/* */" comments. Every kept
// rune remembers the source line it came from, so a block comment in the
// middle of a statement does not split it.
func stripComments(raw string) []srcChar {
	rs := []rune(raw)
	out := make([]srcChar, 0, len(rs))
	line := 1
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '/' && i+1 < len(rs) && rs[i+1] == '/' {
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			if i < len(rs) {
				out = append(out, srcChar{r: '\n', line: line})
				line++
			}
			continue
		}
		if r == '/' && i+1 < len(rs) && rs[i+1] == '*' {
			i += 2
			for i < len(rs) && !(rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/') {
				if rs[i] == '\n' {
					line++
				}
				i++
			}
			// i sits on the closing '*'; an unterminated comment runs to EOF.
			i++
			continue
		}
		out = append(out, srcChar{r: r, line: line})
		if r == '\n' {
			line++
		}
	}
	return out
}

func splitStatements(file string, cs []srcChar) []Line {
	out := make([]Line, 0, len(cs)/8)
	buf := make([]rune, 0, 64)
	start := 0
	depth := 0

	add := func(c srcChar) {
		if start == 0 && !unicode.IsSpace(c.r) {
			start = c.line
		}
		buf = append(buf, c.r)
	}
	flush := func() {
		text := strings.TrimSpace(string(buf))
		if text != "" {
			out = append(out, Line{File: file, Number: start, Content: text})
		}
		buf = buf[:0]
		start = 0
	}
	nextNonSpace := func(from int) int {
		for from < len(cs) && unicode.IsSpace(cs[from].r) {
			from++
		}
		return from
	}

	for i := 0; i < len(cs); i++ {
		c := cs[i]
		switch {
		case c.r == '\n':
			depth = 0
			if j := nextNonSpace(i); j < len(cs) && cs[j].r == '{' {
				buf = append(buf, ' ')
				continue
			}
			flush()
		case c.r == '(' || c.r == '[':
			depth++
			add(c)
		case c.r == ')' || c.r == ']':
			if depth > 0 {
				depth--
			}
			add(c)
		case depth > 0:
			add(c)
		case c.r == ';':
			flush()
		case c.r == '{':
			add(c)
			flush()
		case c.r == '}':
			flush()
			j := nextNonSpace(i + 1)
			if hasWordAt(cs, j, "else") {
				buf = append(buf, '}', ' ')
				start = c.line
				i = j - 1
				continue
			}
			out = append(out, Line{File: file, Number: c.line, Content: "}"})
		default:
			add(c)
		}
	}
	flush()
	return out
}

func hasWordAt(cs []srcChar, at int, word string) bool {
	wr := []rune(word)
	if at+len(wr) > len(cs) {
		return false
	}
	for k, r := range wr {
		if cs[at+k].r != r {
			return false
		}
	}
	if at+len(wr) < len(cs) && isIdentPart(cs[at+len(wr)].r) {
		return false
	}
	return true
}

package parser

import "strings"

// BlockSpan is the result of scanning one braced block.
type BlockSpan struct {
	Body  []Line
	Close int // index of the closing line; len(lines) when unterminated
}

func (s BlockSpan) Next() int {
	return s.Close + 1
}

// ScanBlock returns the lines strictly inside the block opened by
// lines[header]. At depth 1 a "} else ..." line closes the block so
// if-chains can pick up the next branch from it.
func ScanBlock(lines []Line, header int) BlockSpan {
	depth := 1
	i := header + 1
	for ; i < len(lines); i++ {
		content := lines[i].Content
		if depth == 1 && isElseLine(content) {
			break
		}
		depth += strings.Count(content, "{") - strings.Count(content, "}")
		if depth <= 0 {
			break
		}
	}
	return BlockSpan{Body: lines[header+1 : i], Close: i}
}

// isElseLine reports whether a closing line continues an if-chain.
func isElseLine(content string) bool {
	rest, ok := strings.CutPrefix(content, "}")
	if !ok {
		return false
	}
	return startsWithWord(strings.TrimSpace(rest), "else")
}

func startsWithWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	return !isIdentPart(rune(s[len(word)]))
}

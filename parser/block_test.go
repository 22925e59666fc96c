package parser

import "testing"

func TestScanBlockNested(t *testing.T) {
	lines := SplitLines("t", "for (i=0;i<2;i++) {\nif (i) {\nx++\n}\ny++\n}\nprint(x)\n")
	span := ScanBlock(lines, 0)
	if span.Close != 5 {
		t.Fatalf("unexpected close index: %d", span.Close)
	}
	if len(span.Body) != 4 {
		t.Fatalf("unexpected body: %q", contents(span.Body))
	}
	if lines[span.Next()].Content != "print(x)" {
		t.Fatalf("unexpected next line: %q", lines[span.Next()].Content)
	}
}

func TestScanBlockStopsAtElse(t *testing.T) {
	lines := SplitLines("t", "if (a) {\nif (b) {\nx = 1\n} else {\nx = 2\n}\n} else {\nx = 3\n}\n")
	span := ScanBlock(lines, 0)
	if lines[span.Close].Content != "} else {" || span.Close != 6 {
		t.Fatalf("unexpected close %d: %q", span.Close, lines[span.Close].Content)
	}
}

func TestScanBlockUnterminated(t *testing.T) {
	lines := SplitLines("t", "if (a) {\nx = 1\ny = 2\n")
	span := ScanBlock(lines, 0)
	if span.Close != len(lines) || len(span.Body) != 2 {
		t.Fatalf("unexpected span: close=%d body=%q", span.Close, contents(span.Body))
	}
}

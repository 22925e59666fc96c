package tinyc_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gosuda/tinyc"
	"github.com/gosuda/tinyc/parser"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

func runLines(t *testing.T, src string) []string {
	t.Helper()
	vm, err := tinyc.Compile("test.tc", src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	out, err := vm.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	texts := make([]string, 0, len(out))
	for _, o := range out {
		if !o.NewLine {
			t.Fatalf("print without newline: %+v", o)
		}
		texts = append(texts, o.Text)
	}
	return texts
}

func expectLines(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected output:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCompileAndRunSingleLine(t *testing.T) {
	got := runLines(t, `int x = 5; int y = 11; print(x+y);`)
	expectLines(t, got, "16")
}

func TestCommentsAreIgnored(t *testing.T) {
	got := runLines(t, `
/* header
   comment */
x = 1 // one
y = 2 /* inline */ + 3
// print(100)
print(x + y)
`)
	expectLines(t, got, "6")
}

func TestForLoop(t *testing.T) {
	got := runLines(t, `for (i=0;i<3;i++){ print(i); }`)
	expectLines(t, got, "0", "1", "2")
}

func TestNestedLoopTripCount(t *testing.T) {
	got := runLines(t, `
count = 0
for (int i = 0; i < 3; i++) {
    for (var j int = 0; j < 4; j++) {
        count++
    }
}
print(count)
`)
	expectLines(t, got, "12")
}

func TestIfElseChain(t *testing.T) {
	got := runLines(t, `
x = 7
if (x < 5) {
    print(1)
} else if (x < 10) {
    print(2)
} else {
    print(3)
}
if (x > 100)
{
    print(1)
}
else
{
    print(4)
}
`)
	expectLines(t, got, "2", "4")
}

func TestMatch(t *testing.T) {
	got := runLines(t, `
v = 1
match v { 1 -> print(10); _ -> print(0); }
v = 5
match v {
    1 -> print(10),
    2 -> print(20),
    _ -> print(0),
}
match v + 1 {
    6 -> print(60)
    _ -> print(0)
}
`)
	expectLines(t, got, "10", "0", "60")
}

func TestMatchComparesScalarPatternsAsIntegers(t *testing.T) {
	got := runLines(t, `
v = 1
match v {
    1.5 -> print(15)
    _ -> print(0)
}
w = 2.5
match w {
    2 -> print(2)
    _ -> print(0)
}
`)
	expectLines(t, got, "15", "0")
}

func TestConditionOrBindsTighterThanAnd(t *testing.T) {
	got := runLines(t, `
if (1 == 1 || 1 == 2 && 1 == 2) { print(1) } else { print(0) }
if (1 == 2 && 1 == 2 || 1 == 1) { print(1) } else { print(0) }
if (1 == 2 || 1 == 1 && 2 > 1) { print(1) } else { print(0) }
`)
	expectLines(t, got, "0", "0", "1")
}

func TestFloatExponentLiteral(t *testing.T) {
	got := runLines(t, `
print(1e3)
x = 2.5e1 + 1
print(x)
print(5E-1 * 4)
`)
	expectLines(t, got, "1000", "26", "2")
}

func TestOutOfRangeNumbersPrintZero(t *testing.T) {
	got := runLines(t, `
print(99999999999999999999)
print(1e30)
print(-1e30)
print(9223372036854775807)
`)
	expectLines(t, got, "0", "0", "0", "9223372036854775807")
}

func TestForeachSumAndLeak(t *testing.T) {
	got := runLines(t, `
arr = [1, 2, 3]
sum = 0
foreach (e in arr) { sum += e; }
print(sum)
print(e)
foreach (q in missing) { print(99) }
`)
	expectLines(t, got, "6", "3")
}

func TestPseudoInstructions(t *testing.T) {
	got := runLines(t, `
a = 7
b = 2
ADD s a b
SUB d a b
MUL m a b
DIV q a b
MOD r a b
DIV q a 0
INC s
PLE s 5
MIE s 1
AND t a 0
OR u a 0
DIV n -7 b
print(s)
print(d)
print(m)
print(q)
print(r)
print(t)
print(u)
print(n)
`)
	expectLines(t, got, "14", "5", "14", "3", "1", "0", "1", "-4")
}

func TestArithmetic(t *testing.T) {
	got := runLines(t, `
print(7 / 2)
print(-7 % 3)
print(2 ^ 10)
print(2 ^ 3 ^ 2)
print(1 + 2 * 3)
print(10 / 0)
print(1 < 2 && 3 >= 3)
print(to_int(3.9))
print(to_int(-3.9))
print(to_float(3) / 2 * 4)
`)
	expectLines(t, got, "3", "2", "1024", "512", "7", "0", "1", "3", "-3", "6")
}

func TestArraysAliasAndBuiltins(t *testing.T) {
	got := runLines(t, `
a = [4, 5, 6]
b = a
b[1] = 50
print(a[1])
print(a[9])
a[9] = 1
a[0] += 1
print(length(a))
print(max(a))
print(index(a, 6))
print(find(a))
print(abs(-3))
x = 2
print(max(a) + x)
`)
	expectLines(t, got, "50", "0", "3", "50", "2", "5", "3", "52")
}

func TestUndefinedAndIgnoredUpdates(t *testing.T) {
	got := runLines(t, `
z += 5
z++
INC z
print(z)
print(undefinedVar + 1)
x = 4
x /= 0
print(x)
x /= 8
print(x * 10)
x++
x--
print(x * 10)
`)
	expectLines(t, got, "0", "1", "4", "5", "5")
}

func TestDeclarationZeroValues(t *testing.T) {
	got := runLines(t, `
var f float
bool b
array xs
int n
var w
print(f)
print(b)
print(length(xs))
print(n)
print(w)
`)
	expectLines(t, got, "0", "0", "0", "0", "0")
}

func TestUnterminatedBlockRunsToEnd(t *testing.T) {
	got := runLines(t, "if (1) {\nprint(1)\nprint(2)")
	expectLines(t, got, "1", "2")
}

func TestMalformedHeaderIsSkipped(t *testing.T) {
	src := `if x > 3 {
    print(1)
}
print(2)
`
	prog, err := tinyc.Parse("bad.tc", src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(prog.Skipped) == 0 || prog.Skipped[0].Line != 1 {
		t.Fatalf("expected skipped header on line 1, got %+v", prog.Skipped)
	}
	expectLines(t, runLines(t, src), "1", "2")
}

func TestNestingLimit(t *testing.T) {
	src := strings.Repeat("if (1) {\n", 300) + "print(1)\n" + strings.Repeat("}\n", 300)
	_, err := tinyc.Compile("deep.tc", src)
	if !errors.Is(err, parser.ErrNestingTooDeep) {
		t.Fatalf("expected ErrNestingTooDeep, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	vm, err := tinyc.Compile("loop.tc", "x = 0\nfor (i = 0; 1; i++) {\nx++\n}\n")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = vm.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestOutputHookSeesEveryPrint(t *testing.T) {
	vm, err := tinyc.Compile("hook.tc", "print(1)\nprint(2)\n")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	var seen []string
	vm.SetOutputHook(func(o tcruntime.Output) {
		seen = append(seen, o.Text)
	})
	if _, err := vm.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	expectLines(t, seen, "1", "2")
}

func TestRunWithPreloadedEnv(t *testing.T) {
	env := tcruntime.NewEnv()
	env.Set("x", tcruntime.Int(5))
	out, final, err := tinyc.Run(context.Background(), "env.tc", "print(x)\ny = x * 2", env)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(out) != 1 || out[0].Text != "5" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if got := final.Get("y").Int64(); got != 10 {
		t.Fatalf("unexpected y: %d", got)
	}
}

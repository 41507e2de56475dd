package text

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/sumtree"
)

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}

func TestConcatHelloWorld(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := Concat(FromString("Hello"), FromString(" World"))
	if c.Len() != 11 {
		t.Errorf("length after concat = %d, should be 11", c.Len())
	}
	if c.String() != "Hello World" {
		t.Errorf("expected text to be 'Hello World', is %q", c.String())
	}
}

func TestLineSummary(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Line 1\nLine 2\nLine 3")
	s := c.summary()
	if s.Bytes != 20 {
		t.Errorf("Bytes = %d, should be 20", s.Bytes)
	}
	if s.Lines != 2 {
		t.Errorf("Lines = %d, should be 2", s.Lines)
	}
	if s.LastLine != 6 {
		t.Errorf("LastLine = %d, should be 6", s.LastLine)
	}
	if c.LineCount() != 3 {
		t.Errorf("LineCount = %d, should be 3", c.LineCount())
	}
	if c.LastLineLength() != 6 {
		t.Errorf("LastLineLength = %d, should be 6", c.LastLineLength())
	}
}

func TestInsertMidWord(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c, err := FromString("hello").InsertString(2, " world")
	if err != nil {
		t.Fatal(err.Error())
	}
	if c.String() != "he worldllo" {
		t.Errorf("expected 'he worldllo', got %q", c.String())
	}
}

func TestInsertOutOfRange(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	_, err := FromString("hello").InsertString(6, "x")
	if !errors.Is(err, sumtree.ErrIndexOutOfBounds) {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestDeleteAndReport(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Hello my World")
	c = c.Delete(5, 3)
	if c.String() != "Hello World" {
		t.Errorf("expected 'Hello World', got %q", c.String())
	}
	s, err := c.Report(6, 5)
	if err != nil {
		t.Fatal(err.Error())
	}
	if s != "World" {
		t.Errorf("report = %q", s)
	}
	if _, err := c.Report(10, 5); !errors.Is(err, sumtree.ErrIndexOutOfBounds) {
		t.Errorf("expected precise Report to fail, got %v", err)
	}
}

func TestSplitAndSubstr(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Hello World")
	l, r := c.Split(5)
	if l.String() != "Hello" || r.String() != " World" {
		t.Errorf("split = %q / %q", l.String(), r.String())
	}
	sub, err := c.Substr(3, 5)
	if err != nil {
		t.Fatal(err.Error())
	}
	if sub.String() != "lo Wo" {
		t.Errorf("substr = %q", sub.String())
	}
}

func TestLineColumn(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Line 1\nLine 2\nLine 3")
	line, col, err := c.LineColumn(9)
	if err != nil {
		t.Fatal(err.Error())
	}
	if line != 1 || col != 2 {
		t.Errorf("offset 9 is at line %d col %d, should be 1/2", line, col)
	}
	line, col, err = c.LineColumn(0)
	if err != nil || line != 0 || col != 0 {
		t.Errorf("offset 0 is at line %d col %d, err %v", line, col, err)
	}
	if _, _, err = c.LineColumn(21); !errors.Is(err, sumtree.ErrIndexOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
}

func TestOffsetOfLine(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Line 1\nLine 2\nLine 3")
	for n, want := range map[uint64]uint64{0: 0, 1: 7, 2: 14} {
		off, err := c.OffsetOfLine(n)
		if err != nil {
			t.Fatal(err.Error())
		}
		if off != want {
			t.Errorf("line %d starts at %d, should be %d", n, off, want)
		}
	}
	if _, err := c.OffsetOfLine(3); !errors.Is(err, ErrNoSuchLine) {
		t.Errorf("expected ErrNoSuchLine, got %v", err)
	}
}

func TestLine(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("Line 1\nLine 2\nLine 3")
	for n, want := range map[uint64]string{0: "Line 1", 1: "Line 2", 2: "Line 3"} {
		line, err := c.Line(n)
		if err != nil {
			t.Fatal(err.Error())
		}
		if line != want {
			t.Errorf("line %d = %q, should be %q", n, line, want)
		}
	}
}

func TestLinesAcrossFragments(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	// build a heavily fragmented text and verify line queries still hold
	var c Text
	for i := 0; i < 100; i++ {
		c = Concat(c, FromString("fragment\n"))
	}
	if c.LineCount() != 100 {
		t.Errorf("LineCount = %d, should be 100", c.LineCount())
	}
	off, err := c.OffsetOfLine(50)
	if err != nil {
		t.Fatal(err.Error())
	}
	if off != 50*9 {
		t.Errorf("line 50 starts at %d, should be %d", off, 50*9)
	}
}

func TestFindNthOpenBracket(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	src := "func() { if (x) { return []; } }"
	c := FromString(src).WithBrackets()
	off, err := c.FindNthOpenBracket(CurlyBracket, 2)
	if err != nil {
		t.Fatal(err.Error())
	}
	second := strings.Index(src, "{") // first curly
	second = strings.Index(src[second+1:], "{") + second + 1
	if off != uint64(second) {
		t.Errorf("2nd '{' at %d, should be %d", off, second)
	}
	if src[off] != '{' {
		t.Errorf("offset %d holds %q", off, src[off])
	}
}

func TestFindNthCloseBracket(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	src := "func() { if (x) { return []; } }"
	c := FromString(src).WithBrackets()
	off, err := c.FindNthCloseBracket(RoundBracket, 2)
	if err != nil {
		t.Fatal(err.Error())
	}
	if off != uint64(strings.Index(src, "(x)")+2) {
		t.Errorf("2nd ')' at %d", off)
	}
	if _, err := c.FindNthCloseBracket(SquareBracket, 2); !errors.Is(err, ErrNoMatchingBracket) {
		t.Errorf("expected ErrNoMatchingBracket, got %v", err)
	}
}

func TestBracketQueriesFailFast(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	c := FromString("(a)") // no WithBrackets
	if _, err := c.FindNthOpenBracket(RoundBracket, 1); !errors.Is(err, sumtree.ErrMissingDimension) {
		t.Errorf("expected ErrMissingDimension, got %v", err)
	}
	if _, err := c.MatchingBracket(0); !errors.Is(err, sumtree.ErrMissingDimension) {
		t.Errorf("expected ErrMissingDimension, got %v", err)
	}
}

func TestMatchingBracket(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	src := "func() { if (x) { return []; } }"
	c := FromString(src).WithBrackets()
	firstCurly := uint64(strings.Index(src, "{"))
	match, err := c.MatchingBracket(firstCurly)
	if err != nil {
		t.Fatal(err.Error())
	}
	if match != uint64(len(src)-1) {
		t.Errorf("match of first '{' at %d, should be %d", match, len(src)-1)
	}
	// and backwards from the closing bracket
	back, err := c.MatchingBracket(match)
	if err != nil {
		t.Fatal(err.Error())
	}
	if back != firstCurly {
		t.Errorf("match of last '}' at %d, should be %d", back, firstCurly)
	}
	if _, err := c.MatchingBracket(0); !errors.Is(err, ErrNoMatchingBracket) {
		t.Errorf("expected no bracket at 0, got %v", err)
	}
}

func TestLargeTreeInserts(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	base := FromString(strings.Repeat("x", 100_000))
	c, err := base.InsertString(0, "<<")
	if err != nil {
		t.Fatal(err.Error())
	}
	c, err = c.InsertString(50_000, "==")
	if err != nil {
		t.Fatal(err.Error())
	}
	c, err = c.InsertString(c.Len()-1, ">>")
	if err != nil {
		t.Fatal(err.Error())
	}
	if c.Len() != 100_000+6 {
		t.Errorf("length after inserts = %d, should be %d", c.Len(), 100_000+6)
	}
	head, _ := c.Report(0, 2)
	if head != "<<" {
		t.Errorf("text starts with %q", head)
	}
	tail, _ := c.Report(c.Len()-3, 3)
	if !strings.Contains(tail, ">>") {
		t.Errorf("text ends with %q", tail)
	}
	mid, _ := c.Report(50_000, 2)
	if mid != "==" {
		t.Errorf("marker at 50000 is %q", mid)
	}
}

func TestHashAndEqual(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	a := FromString("Hello World")
	b := Concat(FromString("Hello"), FromString(" World"))
	if !Equal(a, b) {
		t.Errorf("fragmentation should not affect equality")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("equal texts must hash equally: %x / %x", a.Hash(), b.Hash())
	}
	if a.Hash() == FromString("Hello  World").Hash() {
		t.Errorf("different texts should not hash equally")
	}
}

func TestBuilder(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := NewBuilder()
	if err := b.AppendString("World"); err != nil {
		t.Fatal(err.Error())
	}
	if err := b.PrependString("Hello "); err != nil {
		t.Fatal(err.Error())
	}
	if err := b.AppendString("!"); err != nil {
		t.Fatal(err.Error())
	}
	c := b.Text()
	if c.String() != "Hello World!" {
		t.Errorf("built text = %q", c.String())
	}
	if err := b.AppendString("nope"); !errors.Is(err, ErrTextCompleted) {
		t.Errorf("expected ErrTextCompleted, got %v", err)
	}
	b.Reset()
	if err := b.AppendString("again"); err != nil {
		t.Fatal(err.Error())
	}
	if b.Text().String() != "again" {
		t.Errorf("text after reset = %q", b.Text().String())
	}
}

func TestBuilderRejectsInvalidUTF8(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	b := NewBuilder()
	if err := b.AppendBytes([]byte{0xff, 0xfe}); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

package textfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func setupTracing(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New()
	return gotestingadapter.RedirectTracing(t)
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "lorem.txt")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestLoad(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	content := strings.Repeat("Lorem ipsum dolor sit amet. ", 40)
	name := writeTempFile(t, content)
	text, err := Load(name, 0)
	if err != nil {
		t.Fatal(err)
	}
	if text.IsVoid() {
		t.Errorf("text is void, should not be")
	}
	if text.String() != content {
		t.Errorf("loaded text differs from file content")
	}
}

func TestLoadSplitRunes(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	// a fragment size of 7 cuts through the multi-byte runes
	content := strings.Repeat("Grüße, Welt! ", 50)
	name := writeTempFile(t, content)
	text, err := Load(name, 7)
	if err != nil {
		t.Fatal(err)
	}
	if text.String() != content {
		t.Errorf("loaded text differs from file content")
	}
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	name := writeTempFile(t, "ok\xff\xfenot ok")
	if _, err := Load(name, 0); err == nil {
		t.Errorf("expected load of invalid UTF-8 to fail, didn't")
	}
}

func TestLoadErrors(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	if _, err := Load(filepath.Join(t.TempDir(), "no-such-file"), 0); err == nil {
		t.Errorf("expected load of missing file to fail, didn't")
	}
	if _, err := Load(t.TempDir(), 0); err == nil {
		t.Errorf("expected load of a directory to fail, didn't")
	}
}

func TestLoadAsyncFragments(t *testing.T) {
	teardown := setupTracing(t)
	defer teardown()
	//
	content := strings.Repeat("0123456789", 100)
	name := writeTempFile(t, content)
	loading, err := LoadAsync(name, 64)
	if err != nil {
		t.Fatal(err)
	}
	ch, ok := loading.Fragments(context.Background())
	if !ok {
		t.Fatal("cannot subscribe to fragments")
	}
	var collected strings.Builder
	var pos int64
	for msg := range ch {
		frag := msg.(Fragment)
		if frag.Pos != pos {
			t.Errorf("fragment at position %d, expected %d", frag.Pos, pos)
		}
		if !utf8.ValidString(frag.Content) {
			t.Errorf("fragment at position %d is not valid UTF-8", frag.Pos)
		}
		collected.WriteString(frag.Content)
		pos += int64(len(frag.Content))
	}
	if collected.String() != content {
		t.Errorf("collected fragments differ from file content")
	}
	text, err := loading.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if text.String() != content {
		t.Errorf("loaded text differs from file content")
	}
}

func TestFragSizeDefaults(t *testing.T) {
	cases := []struct {
		size, requested, want int64
	}{
		{0, 0, 1},
		{40, 0, 40},
		{500, 0, 64},
		{5000, 0, 256},
		{50000, 0, 512},
		{500000, 0, 512},
		{hundredKb + 1, 0, twoKb},
		{2 * oneMb, 0, sixKb},
		{2 * oneMb, 100, 100},
		{2 * oneMb, 2 * tenKb, sixKb},
	}
	for _, c := range cases {
		if got := fragSizeFor(c.size, c.requested); got != c.want {
			t.Errorf("fragSizeFor(%d, %d) = %d, expected %d", c.size, c.requested, got, c.want)
		}
	}
}

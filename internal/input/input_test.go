package input

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ids.txt")
	if err := os.WriteFile(path, []byte("p3\n\n  p4  \n"), 0644); err != nil {
		t.Fatal(err)
	}

	e := &Expander{Stdin: strings.NewReader("p1\np2\n")}
	got, err := e.Expand([]string{"p0", "-", "@" + path, "@"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"p0", "p1", "p2", "p3", "p4", "@"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpandStdinOnce(t *testing.T) {
	e := &Expander{Stdin: strings.NewReader("a\n")}
	if _, err := e.Expand([]string{"-", "-"}); err == nil {
		t.Error("expected error for stdin used twice")
	}
}

func TestExpandMissingFile(t *testing.T) {
	e := &Expander{Stdin: strings.NewReader("")}
	if _, err := e.Expand([]string{"@" + filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("expected error for missing file")
	}
}

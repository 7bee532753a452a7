package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinDefault(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultPalette {
		t.Fatalf("name = %q", p.Name)
	}
	if len(p.Colors) != 11 {
		t.Fatalf("colors = %d, want 11", len(p.Colors))
	}
	if p.Colors[0] != (RGB{13, 8, 135}) {
		t.Fatalf("first color = %v", p.Colors[0])
	}
	if _, err := Load("nope"); err == nil {
		t.Fatal("expected error for unknown builtin")
	}
}

func TestParseGPLSkipsJunk(t *testing.T) {
	src := `GIMP Palette
Name: test
Columns: 2
# comment
0 0 0 black
bad line
300 0 0 out of range
255 255 255
`
	p, err := ParseGPL(strings.NewReader(src), "test")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "test" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n"), "empty"); err == nil {
		t.Fatal("expected error for empty palette")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n0 0 0\n200 100 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Lookup(0.5); got != (RGB{100, 50, 25}) {
		t.Fatalf("lookup(0.5) = %v", got)
	}
}

func TestLookupAndIndexClamp(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {100, 100, 100}}}
	cases := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{1, RGB{100, 100, 100}},
		{2, RGB{100, 100, 100}},
	}
	for _, tc := range cases {
		if got := p.Lookup(tc.norm); got != tc.want {
			t.Fatalf("Lookup(%v) = %v, want %v", tc.norm, got, tc.want)
		}
	}
	if p.Index(-1) != p.Colors[0] || p.Index(9) != p.Colors[1] {
		t.Fatal("Index did not clamp")
	}
}

func TestHex(t *testing.T) {
	if got := Hex(RGB{255, 0, 16}); string(got) != "#ff0010" {
		t.Fatalf("hex = %q", got)
	}
	th := New(&Palette{Colors: []RGB{{1, 2, 3}}})
	if string(th.Accent()) != "#010203" {
		t.Fatalf("accent = %q", th.Accent())
	}
}

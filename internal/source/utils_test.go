package source

import "testing"

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed || string(out) != "a\nb\rc" {
		t.Errorf("normalizeCRLF = %q, %v", out, changed)
	}
	out, changed = normalizeCRLF([]byte("plain"))
	if changed || string(out) != "plain" {
		t.Errorf("normalizeCRLF(plain) = %q, %v", out, changed)
	}
}

func TestRemoveBOM(t *testing.T) {
	out, had := removeBOM([]byte("\xEF\xBB\xBFx"))
	if !had || string(out) != "x" {
		t.Errorf("removeBOM = %q, %v", out, had)
	}
	if _, had := removeBOM([]byte("\xEF\xBB")); had {
		t.Error("short input has no BOM")
	}
}

func TestToLineColEmptyIndex(t *testing.T) {
	if got := toLineCol(nil, 4); got != (LineCol{Line: 1, Col: 5}) {
		t.Errorf("toLineCol = %+v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"a.dust":          "a.dust",
		"./a.dust":        "a.dust",
		".//./a.dust":     "a.dust",
		"dir/x/../b.dust": "dir/x/../b.dust",
		"../up.dust":      "../up.dust",
		"./":              "./",
		"":                "",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// languageSeeds покрывают все формы выражений и паттернов.
var languageSeeds = []string{
	"",
	"a + b * c - d / e % f",
	"a = b = c; x += 1",
	"a << 1 | b & c ^ d",
	"a || b && c; !x; -y; *p",
	"&x; &mut x; &'a x; &'a mut x; &&x",
	"f(x)?.y.z(1, 2,)",
	"7u8 + 2.5f64 + 1i32 + 0x1F",
	"{ a; { b; c }; }",
	"c then a else b",
	"if c { a } else { b }",
	"x is $y ::a::B | ()",
	"x is $p (A, B) & true",
	"x is $",
	"f(a",
	"{ a; b",
	"a +; b",
	"}",
	"((((((((((a))))))))))",
	"a\r\nb\r\n",
	"'a",
	"# not a token",
	"日本語 + ü",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.dust файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".dust" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

package source

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	return bytes.CutPrefix(content, utf8BOM)
}

// buildLineIndex records the offset of every '\n'.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, mustU32(i, "line offset"))
		}
	}
	return out
}

// toLineCol converts a byte offset to a 1-based line and byte column.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго до off = номер строки (0-based)
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if line > 0 {
		startOff = lineIdx[line-1] + 1
	}
	return LineCol{Line: mustU32(line+1, "line number"), Col: off - startOff + 1}
}

// normalizePath приводит разделители к '/' и убирает ведущие "./".
// ".." не схлопывается: через симлинк "x/../a.dust" может быть другим файлом.
func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") && len(p) > 2 {
		p = strings.TrimLeft(p[2:], "/")
	}
	return p
}

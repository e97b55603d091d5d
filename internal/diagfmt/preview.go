package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"dust/internal/diag"
	"dust/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview применяет edit к затронутым строкам файла и возвращает их до/после.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	if !edit.Span.File.IsValid() || !fs.Session().Owns(edit.Span.File) {
		return fixEditPreview{}, fmt.Errorf("edit span %s is not from this file set", edit.Span)
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %s not loaded", edit.Span.File)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	blockStart := lineStartOffset(file, startPos.Line)
	blockEnd := max(lineEndOffset(file, max(endPos.Line, startPos.Line)), blockStart)

	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.Start > edit.Span.End {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}

	original := string(file.Content[blockStart:blockEnd])
	relStart := int(edit.Span.Start - blockStart)
	relEnd := int(edit.Span.End - blockStart)
	after := original[:relStart] + edit.NewText + original[relEnd:]

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}

// lineStartOffset: смещение первого байта строки line (1-based)
func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := int(line - 2); idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}

// lineEndOffset: смещение '\n' в конце строки line или конец файла
func lineEndOffset(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	if idx := int(line - 1); idx < len(f.LineIdx) {
		return f.LineIdx[idx]
	}
	return contentLen(f)
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return n
}

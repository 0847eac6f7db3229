package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedType is returned for uploads that are neither PDF nor DOCX.
var ErrUnsupportedType = errors.New("unsupported resume file type")

// SkillExtractor runs an optional model-backed skill extraction pass. The
// generator service provides one when remote generation is enabled.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, resumeText string) ([]string, error)
}

// Parser extracts text and skills from uploaded resumes. Dictionary matching
// always runs; the model pass is best-effort on top.
type Parser struct {
	extractor SkillExtractor
}

// NewParser builds a resume parser. extractor may be nil for dictionary-only
// operation.
func NewParser(extractor SkillExtractor) *Parser {
	return &Parser{extractor: extractor}
}

// Parse extracts plain text from the uploaded file and derives a deduplicated
// skill list from it.
func (p *Parser) Parse(ctx context.Context, filename string, data []byte) (string, []string, error) {
	text, err := extractText(filename, data)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, fmt.Errorf("no text extracted from %s", filename)
	}

	skills := MatchSkills(text)

	if p.extractor != nil {
		modelSkills, err := p.extractor.ExtractSkills(ctx, text)
		if err != nil {
			log.Printf("[resume] model skill extraction failed, keeping dictionary matches: %v", err)
		} else {
			skills = mergeSkills(skills, modelSkills)
		}
	}

	return text, skills, nil
}

func extractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDFText(data)
	case ".docx":
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
	}
	return builder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

// mergeSkills deduplicates case-insensitively, keeping first-seen spelling
// and order.
func mergeSkills(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, skill := range append(append([]string{}, base...), extra...) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, skill)
	}
	return merged
}

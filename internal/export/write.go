package export

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"coursecraft-cli/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteLesson writes l to <dir>/<title>.md.
func WriteLesson(l *model.Lesson, toDir string, opt WriteOptions) (WriteResult, error) {
	if l == nil {
		return WriteResult{}, errors.New("missing lesson")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		toDir = "."
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	outPath := filepath.Join(toDir, FileName(l.Title, l.ID))
	if err := writeFile(outPath, []byte(RenderLessonMarkdown(l)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteOutline writes every lesson of o as its own file, numbered in outline
// order so the directory listing follows the course.
func WriteOutline(o model.Outline, toDir string, opt WriteOptions) (WriteResult, error) {
	if len(o.Lessons) == 0 {
		return WriteResult{}, errors.New("no lessons to export")
	}
	toDir = filepath.Clean(strings.TrimSpace(toDir))
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	width := len(strconv.Itoa(len(o.Lessons)))
	written := make([]string, 0, len(o.Lessons))
	for i, l := range o.Lessons {
		prefix := strconv.Itoa(i + 1)
		prefix = strings.Repeat("0", width-len(prefix)) + prefix
		p := filepath.Join(toDir, prefix+"-"+FileName(l.Title, l.ID))
		if err := writeFile(p, []byte(RenderLessonMarkdown(l)), opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

// FileName turns a lesson title into a safe Markdown file name. Path
// separators and other characters that are awkward in file names become
// underscores; an empty result falls back to the lesson id.
func FileName(title, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), ". ")
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	if name == "" {
		name = "lesson"
	}
	return name + ".md"
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}

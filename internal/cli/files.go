package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursecraft-cli/internal/format"
	"coursecraft-cli/internal/genclient"
	"coursecraft-cli/internal/model"

	"gopkg.in/yaml.v3"
)

// readDoc reads a JSON or YAML file ("-" for stdin) and returns it as JSON.
// YAML is detected by extension, or by content when reading stdin.
func readDoc(path string, stdin io.Reader) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing input file")
	}
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if isYAML(path, raw) {
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return json.Marshal(v)
	}
	return raw, nil
}

func isYAML(path string, raw []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	trimmed := strings.TrimSpace(string(raw))
	return trimmed != "" && trimmed[0] != '{' && trimmed[0] != '['
}

// courseFile is a lessons file or a course plan loaded as an outline. Plans
// carry titles only and are written back in plan form.
type courseFile struct {
	Outline model.Outline
	Plan    bool
}

// doc converts o back into the document kind the file was read as.
func (f courseFile) doc(o model.Outline) any {
	if f.Plan {
		return genclient.PlanFromOutline(o)
	}
	return genclient.LessonsFromOutline(o)
}

// readCourse loads either a lessons file (`coursecraft lessons`) or a course
// plan (`coursecraft plan`).
func readCourse(path string, stdin io.Reader) (courseFile, error) {
	raw, err := readDoc(path, stdin)
	if err != nil {
		return courseFile{}, err
	}
	if isPlanDoc(raw) {
		plan, err := decodePlan(path, raw)
		if err != nil {
			return courseFile{}, err
		}
		return courseFile{Outline: genclient.OutlineFromPlan(plan), Plan: true}, nil
	}
	docs, err := genclient.DecodeLessons(raw)
	if err != nil {
		return courseFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return courseFile{Outline: genclient.OutlineFromLessons(docs)}, nil
}

// readOutline loads a lessons file. Plans are rejected: they have no content
// to edit or export yet.
func readOutline(path string, stdin io.Reader) (model.Outline, error) {
	f, err := readCourse(path, stdin)
	if err != nil {
		return model.Outline{}, err
	}
	if f.Plan {
		return model.Outline{}, fmt.Errorf("%s is a course plan; generate lessons first with `coursecraft lessons --plan %s`", path, path)
	}
	return f.Outline, nil
}

func readPlan(path string, stdin io.Reader) (genclient.CoursePlan, error) {
	raw, err := readDoc(path, stdin)
	if err != nil {
		return genclient.CoursePlan{}, err
	}
	return decodePlan(path, raw)
}

func decodePlan(path string, raw []byte) (genclient.CoursePlan, error) {
	var plan genclient.CoursePlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return genclient.CoursePlan{}, fmt.Errorf("%s: decode plan: %w", path, err)
	}
	if len(plan.Course) == 0 {
		return genclient.CoursePlan{}, fmt.Errorf("%s: plan has no lessons", path)
	}
	return plan, nil
}

// isPlanDoc reports whether raw is a course plan: {"course": [...]} whose
// lessons use "description" and whose subtopics are bare titles.
func isPlanDoc(raw []byte) bool {
	var probe struct {
		Course []struct {
			Description       *string `json:"description"`
			LessonDescription *string `json:"lesson_description"`
			Topics            []struct {
				Subtopics []json.RawMessage `json:"subtopics"`
			} `json:"topics"`
		} `json:"course"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.Course) == 0 {
		return false
	}
	for _, l := range probe.Course {
		if l.LessonDescription != nil {
			return false
		}
		for _, t := range l.Topics {
			for _, sub := range t.Subtopics {
				sub = bytes.TrimSpace(sub)
				return len(sub) > 0 && sub[0] == '"'
			}
		}
	}
	return probe.Course[0].Description != nil
}

// writeDocFile writes v as indented JSON, or YAML for .yaml/.yml paths.
func writeDocFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := format.WriteYAML(f, v); err != nil {
			return err
		}
	default:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return f.Close()
}

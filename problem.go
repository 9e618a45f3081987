package pddlrun

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// TaskSpec is a structured movement task: one robot, a start room and a
// goal room inside a named domain.
type TaskSpec struct {
	Robot  string
	Start  string
	Goal   string
	Domain string
}

// Validate reports the task's missing required fields as a Configuration
// failure.
func (t TaskSpec) Validate() error {
	var missing []string

	for _, field := range []struct {
		name  string
		value string
	}{
		{"robot", t.Robot},
		{"start", t.Start},
		{"goal", t.Goal},
		{"domain", t.Domain},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return NewFailure(KindConfiguration, "missing required parameters: "+strings.Join(missing, ", "))
	}

	return nil
}

// RenderProblem renders the problem template at templatePath for the
// given task. Template failures are Parsing failures.
func RenderProblem(templatePath string, task TaskSpec) (string, error) {
	if err := task.Validate(); err != nil {
		return "", err
	}

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", WrapFailure(KindParsing, "parse problem template "+templatePath, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, task); err != nil {
		return "", WrapFailure(KindParsing, "render problem template", err)
	}

	return b.String(), nil
}

// WriteProblemFile renders the task and writes the problem file to
// outputPath, creating parent directories as needed.
func WriteProblemFile(templatePath, outputPath string, task TaskSpec) error {
	content, err := RenderProblem(templatePath, task)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return WrapFailure(KindFileIO, fmt.Sprintf("create directory for %s", outputPath), err)
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return WrapFailure(KindFileIO, "write problem file "+outputPath, err)
	}

	return nil
}

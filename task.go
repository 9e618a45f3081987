package pddlrun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// fileTaskSchema describes a task that names the planner input files
// directly.
const fileTaskSchema = `{
  "type": "object",
  "properties": {
    "domain_path": {"type": "string", "minLength": 1},
    "problem_path": {"type": "string", "minLength": 1},
    "output_dir": {"type": "string"}
  },
  "required": ["domain_path", "problem_path"]
}`

// structuredTaskSchema describes a task given as robot movement
// parameters, from which a problem file is rendered.
const structuredTaskSchema = `{
  "type": "object",
  "properties": {
    "robot": {"type": "string", "minLength": 1},
    "start": {"type": "string", "minLength": 1},
    "goal": {"type": "string", "minLength": 1},
    "domain": {"type": "string", "minLength": 1}
  },
  "required": ["robot", "start", "goal", "domain"]
}`

// PlanResult is the successful outcome of a task run.
type PlanResult struct {
	PlanPath    string
	LogPath     string
	PlanContent string
	Explanation string
	Timestamp   time.Time
}

// Service runs planning tasks end to end: task map in, plan and
// explanation out.
type Service struct {
	cfg         Config
	log         zerolog.Logger
	classifier  *Classifier
	plannerOpts []Option
}

// NewService creates a task service. The planner options are applied to
// every planner the service builds.
func NewService(cfg Config, log zerolog.Logger, plannerOpts ...Option) *Service {
	return &Service{
		cfg:         cfg,
		log:         log,
		classifier:  NewClassifier(log),
		plannerOpts: plannerOpts,
	}
}

// RunTask is the outer boundary adapter: it never returns an error.
// Failures are flattened into a {success: false, error} map with a
// short user-facing message; full diagnostics stay in the log.
func (s *Service) RunTask(ctx context.Context, task map[string]any) map[string]any {
	result, err := s.Run(ctx, task)
	if err != nil {
		f := s.classifier.Classify(err, map[string]any{"task": task})

		return map[string]any{
			"success":      false,
			"error":        f.UserMessage(),
			"plan_content": "",
			"explanation":  "task execution failed",
			"summary":      map[string]any{"reached_goal": false, "steps": 0},
		}
	}

	return map[string]any{
		"success":      true,
		"plan_path":    result.PlanPath,
		"log_path":     result.LogPath,
		"plan_content": result.PlanContent,
		"explanation":  result.Explanation,
		"timestamp":    result.Timestamp.Format(time.RFC3339),
	}
}

// Run is the typed entry point behind RunTask.
func (s *Service) Run(ctx context.Context, task map[string]any) (*PlanResult, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	fileMode := matchesSchema(fileTaskSchema, task)
	structured := matchesSchema(structuredTaskSchema, task)

	if !fileMode && !structured {
		return nil, NewFailure(KindConfiguration,
			"task needs either domain_path and problem_path, or robot, start, goal and domain")
	}

	domainPath, problemPath, err := s.resolveInputs(log, task, fileMode, structured, runID)
	if err != nil {
		return nil, err
	}

	outputDir := stringField(task, "output_dir")
	if outputDir == "" {
		outputDir = s.cfg.Paths.PlanDir
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, WrapFailure(KindFileIO, "create output directory "+outputDir, err)
	}

	log.Info().
		Str("domain", domainPath).
		Str("problem", problemPath).
		Str("output_dir", outputDir).
		Msg("running planning task")

	planner := NewPlanner(s.cfg, append([]Option{WithLogger(log)}, s.plannerOpts...)...)

	files, err := planner.GeneratePlan(ctx, domainPath, problemPath, outputDir)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(files.PlanPath)
	if err != nil {
		return nil, WrapFailure(KindFileIO, "read plan file "+files.PlanPath, err)
	}

	return &PlanResult{
		PlanPath:    files.PlanPath,
		LogPath:     files.LogPath,
		PlanContent: string(content),
		Explanation: ExplainContent(string(content)),
		Timestamp:   time.Now(),
	}, nil
}

// resolveInputs settles on the domain and problem file paths, rendering
// the problem file from structured parameters when it does not exist.
func (s *Service) resolveInputs(
	log zerolog.Logger,
	task map[string]any,
	fileMode, structured bool,
	runID string,
) (string, string, error) {
	domainPath := s.cfg.Planner.DomainPath
	if fileMode {
		domainPath = stringField(task, "domain_path")
	}

	if _, err := os.Stat(domainPath); err != nil {
		return "", "", NewFailure(KindConfiguration, "domain file does not exist: "+domainPath)
	}

	var problemPath string

	switch {
	case fileMode:
		problemPath = stringField(task, "problem_path")
	case structured:
		name := fmt.Sprintf("%s_%s%s", s.cfg.Files.ProblemPrefix, runID[:8], s.cfg.Files.ProblemExt)
		problemPath = filepath.Join(s.cfg.Paths.PDDLDir, name)
	}

	if _, err := os.Stat(problemPath); err == nil {
		return domainPath, problemPath, nil
	}

	if !structured {
		return "", "", NewFailure(KindConfiguration,
			"problem file does not exist and robot, start, goal, domain are not all set: "+problemPath)
	}

	log.Info().Str("problem", problemPath).Msg("problem file missing, rendering from task parameters")

	spec := TaskSpec{
		Robot:  stringField(task, "robot"),
		Start:  stringField(task, "start"),
		Goal:   stringField(task, "goal"),
		Domain: stringField(task, "domain"),
	}

	if err := WriteProblemFile(s.cfg.Paths.ProblemTmpl, problemPath, spec); err != nil {
		return "", "", err
	}

	return domainPath, problemPath, nil
}

func matchesSchema(schema string, task map[string]any) bool {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(task),
	)
	if err != nil {
		return false
	}

	return result.Valid()
}

func stringField(task map[string]any, key string) string {
	if v, ok := task[key].(string); ok {
		return v
	}

	return ""
}

package pddlrun

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// PlanningConfig is the per-invocation planning parameter snapshot. It is
// read once per call and never mutated mid-run.
type PlanningConfig struct {
	SearchAlgorithm string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	BackoffFactor   float64
	// ErrorLogLength bounds the error excerpt read from the planner log,
	// in characters.
	ErrorLogLength int
}

// FileConfig holds the output file naming conventions.
type FileConfig struct {
	PlanPrefix    string
	PlanExt       string
	LogPrefix     string
	LogExt        string
	Encoding      string
	ResultFile    string
	ProblemPrefix string
	ProblemExt    string
}

// PlannerConfig describes how to launch the external planner.
type PlannerConfig struct {
	// Launcher is the planner entry script, or a remote-shell command
	// when it starts with "wsl ".
	Launcher string
	// Interpreter runs the launcher script in the direct (non-wsl) form.
	Interpreter string
	// DomainPath is the default domain file used when a task does not
	// name one.
	DomainPath string
}

// Paths holds the directory layout rooted at the project directory.
type Paths struct {
	Root        string
	Templates   string
	Output      string
	PlanDir     string
	PDDLDir     string
	ExplainDir  string
	ProblemTmpl string
}

// Config is the immutable process configuration, sourced from the
// environment with fixed fallback defaults.
type Config struct {
	Planning PlanningConfig
	Files    FileConfig
	Planner  PlannerConfig
	Paths    Paths
	LogLevel string
}

// Environment defaults.
const (
	defaultLauncher       = "fast-downward.py"
	defaultInterpreter    = "python3"
	defaultSearchAlg      = "astar(blind())"
	defaultTimeoutSec     = 300
	defaultMaxRetries     = 2
	defaultRetryDelaySec  = 1.0
	defaultBackoffFactor  = 2.0
	defaultErrorLogLength = 500
	defaultEncoding       = "utf-8"
	defaultLogLevel       = "info"
)

// LoadConfig builds the configuration for a project rooted at root. A
// .env file in root is loaded first when present; real environment
// variables win over it.
func LoadConfig(root string) Config {
	// godotenv.Load never overrides variables already set.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	templates := filepath.Join(root, "templates")
	output := filepath.Join(root, "output")

	domainPath := envString("PDDL_DOMAIN_PATH", filepath.Join(templates, DomainFileName))

	return Config{
		Planning: PlanningConfig{
			SearchAlgorithm: envString("SEARCH_ALGORITHM", defaultSearchAlg),
			Timeout:         time.Duration(envInt("MAX_PLANNING_TIME", defaultTimeoutSec)) * time.Second,
			MaxRetries:      envInt("MAX_RETRIES", defaultMaxRetries),
			RetryDelay:      secondsToDuration(envFloat("RETRY_DELAY", defaultRetryDelaySec)),
			BackoffFactor:   envFloat("BACKOFF_FACTOR", defaultBackoffFactor),
			ErrorLogLength:  envInt("ERROR_LOG_LENGTH", defaultErrorLogLength),
		},
		Files: FileConfig{
			PlanPrefix:    PlanFilePrefix,
			PlanExt:       PlanFileExt,
			LogPrefix:     LogFilePrefix,
			LogExt:        LogFileExt,
			Encoding:      envString("FILE_ENCODING", defaultEncoding),
			ResultFile:    ResultFileName,
			ProblemPrefix: ProblemFilePrefix,
			ProblemExt:    ProblemFileExt,
		},
		Planner: PlannerConfig{
			Launcher:    envString("FAST_DOWNWARD_PATH", defaultLauncher),
			Interpreter: envString("PYTHON_PATH", defaultInterpreter),
			DomainPath:  domainPath,
		},
		Paths: Paths{
			Root:        root,
			Templates:   templates,
			Output:      output,
			PlanDir:     filepath.Join(output, "plan"),
			PDDLDir:     filepath.Join(output, "pddl"),
			ExplainDir:  filepath.Join(output, "explanation"),
			ProblemTmpl: filepath.Join(templates, ProblemTemplateName),
		},
		LogLevel: envString("LOG_LEVEL", defaultLogLevel),
	}
}

// EnsureDirectories creates the output directory tree.
func (c Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.Output, c.Paths.PlanDir, c.Paths.PDDLDir, c.Paths.ExplainDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return nil
}

// Validate reports which configured files and directories exist.
func (c Config) Validate() map[string]bool {
	return map[string]bool{
		"domain_file_exists":   fileExists(c.Planner.DomainPath),
		"template_file_exists": fileExists(c.Paths.ProblemTmpl),
		"output_dir_exists":    fileExists(c.Paths.Output),
		"plan_dir_exists":      fileExists(c.Paths.PlanDir),
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}

	return f
}

package pddlrun

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	root := t.TempDir()

	cfg := LoadConfig(root)

	if cfg.Planner.Launcher != "fast-downward.py" {
		t.Errorf("unexpected launcher: %s", cfg.Planner.Launcher)
	}
	if cfg.Planner.Interpreter != "python3" {
		t.Errorf("unexpected interpreter: %s", cfg.Planner.Interpreter)
	}
	if cfg.Planning.SearchAlgorithm != "astar(blind())" {
		t.Errorf("unexpected search algorithm: %s", cfg.Planning.SearchAlgorithm)
	}
	if cfg.Planning.Timeout != 300*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.Planning.Timeout)
	}
	if cfg.Planning.MaxRetries != 2 {
		t.Errorf("unexpected max retries: %d", cfg.Planning.MaxRetries)
	}
	if cfg.Planning.RetryDelay != time.Second {
		t.Errorf("unexpected retry delay: %s", cfg.Planning.RetryDelay)
	}
	if cfg.Planning.BackoffFactor != 2.0 {
		t.Errorf("unexpected backoff factor: %v", cfg.Planning.BackoffFactor)
	}
	if cfg.Planning.ErrorLogLength != 500 {
		t.Errorf("unexpected error log length: %d", cfg.Planning.ErrorLogLength)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected log level: %s", cfg.LogLevel)
	}

	if cfg.Paths.PlanDir != filepath.Join(root, "output", "plan") {
		t.Errorf("unexpected plan dir: %s", cfg.Paths.PlanDir)
	}
	if cfg.Planner.DomainPath != filepath.Join(root, "templates", DomainFileName) {
		t.Errorf("unexpected domain path: %s", cfg.Planner.DomainPath)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FAST_DOWNWARD_PATH", "wsl /opt/fd/fast-downward.py")
	t.Setenv("SEARCH_ALGORITHM", "lazy_greedy([ff()])")
	t.Setenv("MAX_PLANNING_TIME", "60")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("RETRY_DELAY", "0.5")
	t.Setenv("PDDL_DOMAIN_PATH", "/pddl/custom-domain.pddl")

	cfg := LoadConfig(t.TempDir())

	if cfg.Planner.Launcher != "wsl /opt/fd/fast-downward.py" {
		t.Errorf("launcher override ignored: %s", cfg.Planner.Launcher)
	}
	if cfg.Planning.SearchAlgorithm != "lazy_greedy([ff()])" {
		t.Errorf("search override ignored: %s", cfg.Planning.SearchAlgorithm)
	}
	if cfg.Planning.Timeout != time.Minute {
		t.Errorf("timeout override ignored: %s", cfg.Planning.Timeout)
	}
	if cfg.Planning.MaxRetries != 5 {
		t.Errorf("retries override ignored: %d", cfg.Planning.MaxRetries)
	}
	if cfg.Planning.RetryDelay != 500*time.Millisecond {
		t.Errorf("delay override ignored: %s", cfg.Planning.RetryDelay)
	}
	if cfg.Planner.DomainPath != "/pddl/custom-domain.pddl" {
		t.Errorf("domain override ignored: %s", cfg.Planner.DomainPath)
	}
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_PLANNING_TIME", "soon")
	t.Setenv("MAX_RETRIES", "-")
	t.Setenv("BACKOFF_FACTOR", "lots")

	cfg := LoadConfig(t.TempDir())

	if cfg.Planning.Timeout != 300*time.Second {
		t.Errorf("expected default timeout, got %s", cfg.Planning.Timeout)
	}
	if cfg.Planning.MaxRetries != 2 {
		t.Errorf("expected default retries, got %d", cfg.Planning.MaxRetries)
	}
	if cfg.Planning.BackoffFactor != 2.0 {
		t.Errorf("expected default backoff, got %v", cfg.Planning.BackoffFactor)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	// Ensure the real environment does not shadow the .env value.
	t.Setenv("SEARCH_ALGORITHM", "")
	os.Unsetenv("SEARCH_ALGORITHM")

	root := t.TempDir()
	env := "SEARCH_ALGORITHM=astar(lmcut())\n"

	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg := LoadConfig(root)

	if cfg.Planning.SearchAlgorithm != "astar(lmcut())" {
		t.Errorf("expected the .env value, got %s", cfg.Planning.SearchAlgorithm)
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := LoadConfig(t.TempDir())

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.PlanDir, cfg.Paths.PDDLDir, cfg.Paths.ExplainDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}
}

func TestValidateReportsExistence(t *testing.T) {
	cfg := LoadConfig(t.TempDir())

	checks := cfg.Validate()
	for key, ok := range checks {
		if ok {
			t.Errorf("%s reported true on an empty root", key)
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.Templates, 0o755); err != nil {
		t.Fatalf("create templates dir: %v", err)
	}
	if err := os.WriteFile(cfg.Planner.DomainPath, []byte("(define (domain d))\n"), 0o644); err != nil {
		t.Fatalf("write domain: %v", err)
	}

	checks = cfg.Validate()
	if !checks["domain_file_exists"] {
		t.Error("domain_file_exists should be true")
	}
	if !checks["output_dir_exists"] || !checks["plan_dir_exists"] {
		t.Error("output directories should be reported as existing")
	}
	if checks["template_file_exists"] {
		t.Error("template_file_exists should be false without the template")
	}
}

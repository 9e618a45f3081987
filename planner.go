package pddlrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
)

// wslMarker prefixes a launcher command that must run through the
// Windows remote shell. Paths are rewritten to the WSL filesystem
// convention in that case.
const wslMarker = "wsl "

// PlanFiles is the successful outcome of one planner invocation.
type PlanFiles struct {
	PlanPath string
	LogPath  string
}

// Planner runs the external planner and manages the indexed output
// slots. Index assignment is not safe against concurrent invocations
// writing into the same output directory; callers that need concurrency
// must serialize invocations per directory.
type Planner struct {
	cfg        Config
	log        zerolog.Logger
	locator    ResultLocator
	workDir    string
	useTTY     bool
	planPrefix string
	planExt    string
	sleep      func(time.Duration)
}

// NewPlanner creates a planner from the given configuration.
func NewPlanner(cfg Config, opts ...Option) *Planner {
	p := &Planner{
		cfg:        cfg,
		log:        zerolog.Nop(),
		workDir:    ".",
		planPrefix: cfg.Files.PlanPrefix,
		planExt:    cfg.Files.PlanExt,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.locator == nil {
		p.locator = NewWorkDirLocator(p.workDir, cfg.Files.ResultFile)
	}

	return p
}

// GeneratePlan invokes the planner on the given domain and problem files
// and places the resulting plan and log into indexed slots under
// outputDir. The whole attempt runs under the configured retry policy; a
// missing output directory fails immediately with a Configuration
// failure and is never retried.
func (p *Planner) GeneratePlan(ctx context.Context, domainPath, problemPath, outputDir string) (PlanFiles, error) {
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		return PlanFiles{}, NewFailure(KindConfiguration, "output directory does not exist: "+outputDir)
	}

	retryCfg := RetryConfig{
		MaxRetries:    p.cfg.Planning.MaxRetries,
		InitialDelay:  p.cfg.Planning.RetryDelay,
		BackoffFactor: p.cfg.Planning.BackoffFactor,
		Logger:        p.log,
		sleep:         p.sleep,
	}

	return Retry(retryCfg, func() (PlanFiles, error) {
		return p.attempt(ctx, domainPath, problemPath, outputDir)
	})
}

func (p *Planner) attempt(ctx context.Context, domainPath, problemPath, outputDir string) (PlanFiles, error) {
	idx, err := p.nextIndex(outputDir)
	if err != nil {
		return PlanFiles{}, err
	}

	planPath := filepath.Join(outputDir, fmt.Sprintf("%s%d%s", p.planPrefix, idx, p.planExt))
	logPath := filepath.Join(outputDir, fmt.Sprintf("%s%d%s", p.cfg.Files.LogPrefix, idx, p.cfg.Files.LogExt))

	argv := p.buildCommand(domainPath, problemPath)
	p.log.Info().Strs("command", argv).Str("log", logPath).Msg("running planner")

	if err := p.run(ctx, argv, logPath); err != nil {
		if f, ok := AsFailure(err); ok {
			return PlanFiles{}, f
		}

		return PlanFiles{}, WrapFailure(KindPlanning, "planner execution failed", err)
	}

	if _, ok := p.locator.Find(); ok {
		if err := p.locator.Claim(planPath); err != nil {
			return PlanFiles{}, WrapFailure(KindPlanning, "claim plan file", err)
		}

		p.log.Info().Str("plan", planPath).Msg("plan generated")

		return PlanFiles{PlanPath: planPath, LogPath: logPath}, nil
	}

	excerpt := tailOfFile(logPath, p.cfg.Planning.ErrorLogLength)

	return PlanFiles{}, NewFailure(KindPlanning, "planner produced no plan file").WithDetails(map[string]any{
		"command":       strings.Join(argv, " "),
		"log_path":      logPath,
		"error_excerpt": excerpt,
	})
}

// nextIndex computes the next free slot in outputDir for files named
// {prefix}{N}{ext}. Missing directory is a Configuration failure; an
// unreadable one degrades to index 1 with a warning.
func (p *Planner) nextIndex(outputDir string) (int, error) {
	if _, err := os.Stat(outputDir); err != nil {
		return 0, NewFailure(KindConfiguration, "output directory does not exist: "+outputDir)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		p.log.Warn().Err(err).Str("dir", outputDir).Msg("listing output directory failed, using index 1")

		return 1, nil
	}

	maxIdx := 0

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, p.planPrefix) || !strings.HasSuffix(name, p.planExt) {
			continue
		}

		mid := name[len(p.planPrefix) : len(name)-len(p.planExt)]
		if n, ok := parseIndex(mid); ok && n > maxIdx {
			maxIdx = n
		}
	}

	return maxIdx + 1, nil
}

// parseIndex accepts only purely numeric middle segments.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	n := 0

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}

		n = n*10 + int(r-'0')
	}

	return n, true
}

// buildCommand assembles the planner command line. A launcher starting
// with the wsl marker runs through the remote shell with rewritten
// paths and a quoted search token; otherwise the launcher script runs
// under the configured interpreter.
func (p *Planner) buildCommand(domainPath, problemPath string) []string {
	alg := p.cfg.Planning.SearchAlgorithm
	launcher := p.cfg.Planner.Launcher

	if strings.HasPrefix(launcher, wslMarker) {
		argv := strings.Fields(launcher)

		return append(argv,
			toWSLPath(domainPath),
			toWSLPath(problemPath),
			"--search", "'"+alg+"'",
		)
	}

	return []string{p.cfg.Planner.Interpreter, launcher, domainPath, problemPath, "--search", alg}
}

// toWSLPath converts a Windows path to the WSL mount convention:
// backslashes become slashes and a drive letter maps to /mnt/<letter>.
func toWSLPath(path string) string {
	out := strings.ReplaceAll(path, `\`, "/")

	if len(out) >= 2 && out[1] == ':' && isDriveLetter(out[0]) {
		out = "/mnt/" + strings.ToLower(out[:1]) + out[2:]
	}

	return out
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// run executes the planner with stdout and stderr captured into a
// freshly truncated log file, bounded by the configured timeout. The log
// file is closed on every path. A non-zero exit is not a failure by
// itself: success is decided afterwards by the result locator.
func (p *Planner) run(ctx context.Context, argv []string, logPath string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return WrapFailure(KindFileIO, "create log file "+logPath, err)
	}
	defer logFile.Close()

	timeout := p.cfg.Planning.Timeout

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var runErr error
	if p.useTTY {
		runErr = runPlannerWithTTY(runCtx, argv, p.workDir, logFile)
	} else {
		runErr = runPlanner(runCtx, argv, p.workDir, logFile)
	}

	if runErr == nil {
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return NewFailure(KindTimeout, fmt.Sprintf("planner timed out after %s", timeout)).WithDetails(map[string]any{
			"command":  strings.Join(argv, " "),
			"log_path": logPath,
			"timeout":  timeout.String(),
		})
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		p.log.Debug().Int("exit_code", exitErr.ExitCode()).Msg("planner exited non-zero")

		return nil
	}

	return runErr
}

func runPlanner(ctx context.Context, argv []string, workDir string, logFile io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	return cmd.Run()
}

// runPlannerWithTTY runs the planner attached to a pseudo-terminal and
// copies the combined stream into the log file. Some planner wrappers
// block-buffer their progress output when not attached to a terminal.
func runPlannerWithTTY(ctx context.Context, argv []string, workDir string, logFile io.Writer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = workDir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}

	done := make(chan struct{})

	go func() {
		_, _ = io.Copy(logFile, ptmx)
		close(done)
	}()

	err = cmd.Wait()
	_ = ptmx.Close()

	<-done

	return err
}

// tailOfFile returns the trailing limit characters of the file, or an
// empty string when it cannot be read.
func tailOfFile(path string, limit int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	runes := []rune(string(data))
	if len(runes) <= limit {
		return string(runes)
	}

	return string(runes[len(runes)-limit:])
}

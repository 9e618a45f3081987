package pddlrun

import (
	"os"
	"path/filepath"
)

// ResultLocator abstracts how a finished planner run is detected. The
// planner reports success purely by dropping a fixed-name file into its
// working directory, which is process-global state; injecting the
// locator scopes that signal per invocation and keeps tests off the real
// working directory.
type ResultLocator interface {
	// Find reports the path of the planner result file, if present.
	Find() (string, bool)
	// Claim moves the result file into dst.
	Claim(dst string) error
}

// workDirLocator looks for a fixed file name inside one directory.
type workDirLocator struct {
	dir  string
	name string
}

// NewWorkDirLocator returns a ResultLocator watching dir for name.
func NewWorkDirLocator(dir, name string) ResultLocator {
	return &workDirLocator{dir: dir, name: name}
}

func (l *workDirLocator) path() string {
	return filepath.Join(l.dir, l.name)
}

func (l *workDirLocator) Find() (string, bool) {
	p := l.path()
	if _, err := os.Stat(p); err != nil {
		return "", false
	}

	return p, true
}

func (l *workDirLocator) Claim(dst string) error {
	return os.Rename(l.path(), dst)
}

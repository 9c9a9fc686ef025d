// Package git wraps the version-control operations the commit flow needs:
// staging named paths, producing diffs, and committing.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"gopair/internal/logging"
)

// VersionControl is the capability interface over the underlying VCS tool.
type VersionControl interface {
	// IsRepo reports whether the working directory is inside a repository.
	IsRepo() bool

	// Stage marks the named paths for the next commit. A failure on one
	// path does not stop staging of the others; the returned error joins
	// all per-path failures.
	Stage(paths []string) error

	// StagedDiff returns the diff of all staged changes as text.
	StagedDiff() (string, error)

	// Commit creates a commit, supplying the message via stdin so
	// arbitrary characters survive unescaped.
	Commit(message string) error
}

// CLI runs git as a subprocess in a fixed working directory.
type CLI struct {
	workDir string
}

// NewCLI returns a VersionControl backed by the git executable.
func NewCLI(workDir string) *CLI {
	return &CLI{workDir: workDir}
}

func (c *CLI) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// IsRepo reports whether workDir is inside a git work tree.
func (c *CLI) IsRepo() bool {
	out, err := c.run("rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Stage stages exactly the named paths, one at a time so a bad path does not
// abort the rest.
func (c *CLI) Stage(paths []string) error {
	var errs []error
	for _, path := range paths {
		if _, err := c.run("add", "--", path); err != nil {
			logging.Warn("failed to stage file", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StagedDiff returns the diff of staged changes.
func (c *CLI) StagedDiff() (string, error) {
	return c.run("diff", "--cached")
}

// Commit commits staged changes with the message read from stdin
// (git commit -F -), avoiding shell quoting corruption.
func (c *CLI) Commit(message string) error {
	cmd := exec.Command("git", "commit", "-F", "-")
	cmd.Dir = c.workDir
	cmd.Stdin = strings.NewReader(message)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("git commit: %s", msg)
	}
	return nil
}

package adapters

import (
	"fmt"
	"strings"

	"github.com/halia-ca/sassy/internal/core"
)

// Git provides git operations using an Exec interface
type Git struct {
	exec core.Exec
}

// NewGit creates a Git adapter with the provided Exec interface
func NewGit(exec core.Exec) *Git {
	return &Git{exec: exec}
}

// CommandError carries the output of a failed git command
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

func (g *Git) run(dir string, args ...string) (string, error) {
	output, err := g.exec.RunWithDir(dir, "git", args...)
	out := strings.TrimSpace(string(output))
	if err != nil {
		return out, &CommandError{Args: args, Output: out, Err: err}
	}
	return out, nil
}

// Init creates an empty repository in dir
func (g *Git) Init(dir string) error {
	_, err := g.run(dir, "init")
	return err
}

// AddAll stages every file below dir
func (g *Git) AddAll(dir string) error {
	_, err := g.run(dir, "add", "-A")
	return err
}

// Commit records the staged changes. An empty name or email leaves the
// corresponding git setting to the user's own configuration.
func (g *Git) Commit(dir, message, name, email string) error {
	var args []string
	if name != "" {
		args = append(args, "-c", "user.name="+name)
	}
	if email != "" {
		args = append(args, "-c", "user.email="+email)
	}
	args = append(args, "commit", "-m", message)
	_, err := g.run(dir, args...)
	return err
}

// HeadCommit returns the hash HEAD points at
func (g *Git) HeadCommit(dir string) (string, error) {
	return g.run(dir, "rev-parse", "HEAD")
}

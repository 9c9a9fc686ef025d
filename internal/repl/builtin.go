package repl

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"gopair/internal/app"
	"gopair/internal/git"
)

// HelpCommand shows help for commands.
type HelpCommand struct {
	handler *Handler
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "/help" }

func (c *HelpCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range c.handler.ListCommands() {
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", cmd.Usage(), cmd.Description()))
	}
	sb.WriteString("\nAnything else is sent to the model as a request.")
	return sb.String(), nil
}

// AddCommand adds files or glob patterns to the active context.
type AddCommand struct{}

func (c *AddCommand) Name() string        { return "add" }
func (c *AddCommand) Description() string { return "Add files to the context" }
func (c *AddCommand) Usage() string       { return "/add <file|glob>..." }

func (c *AddCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", c.Usage())
	}

	var added []string
	for _, pattern := range args {
		paths, err := app.Files().Add(pattern)
		if err != nil {
			return "", fmt.Errorf("add %s: %w", pattern, err)
		}
		added = append(added, paths...)
	}

	if len(added) == 0 {
		return "no new files matched", nil
	}
	return fmt.Sprintf("added %s", strings.Join(added, ", ")), nil
}

// DropCommand removes files from the active context.
type DropCommand struct{}

func (c *DropCommand) Name() string        { return "drop" }
func (c *DropCommand) Description() string { return "Remove files from the context" }
func (c *DropCommand) Usage() string       { return "/drop <file>..." }

func (c *DropCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", c.Usage())
	}

	var dropped []string
	for _, path := range args {
		if app.Files().Drop(path) {
			dropped = append(dropped, path)
		}
	}

	if len(dropped) == 0 {
		return "no tracked files matched", nil
	}
	return fmt.Sprintf("dropped %s", strings.Join(dropped, ", ")), nil
}

// FilesCommand lists the active context with git status.
type FilesCommand struct{}

func (c *FilesCommand) Name() string        { return "files" }
func (c *FilesCommand) Description() string { return "List context files and their git status" }
func (c *FilesCommand) Usage() string       { return "/files" }

func (c *FilesCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	paths := app.Files().Paths()
	if len(paths) == 0 {
		return "no files in context (use /add)", nil
	}

	var sb strings.Builder
	for _, path := range paths {
		sb.WriteString(fmt.Sprintf("  %s %s\n", statusLabel(app.Git().StatusOf(path)), path))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func statusLabel(st git.FileStatus) string {
	switch st {
	case git.StatusUntracked:
		return "??"
	case git.StatusClean:
		return "  "
	default:
		return string(st) + " "
	}
}

// CommitCommand runs a request and commits the resulting changes.
type CommitCommand struct{}

func (c *CommitCommand) Name() string        { return "commit" }
func (c *CommitCommand) Description() string { return "Run a request and commit the changes" }
func (c *CommitCommand) Usage() string       { return "/commit <request>" }

func (c *CommitCommand) Execute(ctx context.Context, args []string, appIface AppInterface) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", c.Usage())
	}

	request := strings.Join(args, " ")
	if err := appIface.AskAndCommit(ctx, request, app.StreamIncremental); err != nil {
		return "", err
	}
	return "", nil
}

// RunCommand executes a shell command and records its output as context.
type RunCommand struct{}

func (c *RunCommand) Name() string        { return "run" }
func (c *RunCommand) Description() string { return "Run a shell command, keep its output as context" }
func (c *RunCommand) Usage() string       { return "/run <command>" }

func (c *RunCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", c.Usage())
	}

	cmdline := strings.Join(args, " ")
	// Once started the command runs to completion; cancellation only covers
	// in-flight model requests.
	cmd := exec.Command("sh", "-c", cmdline)
	cmd.Dir = app.WorkDir()

	out, err := cmd.CombinedOutput()
	result := string(out)
	if err != nil {
		result += fmt.Sprintf("\n(exit: %v)", err)
	}

	app.AppendNote(fmt.Sprintf("I ran `%s` and it printed:\n\n%s", cmdline, result))
	return result, nil
}

// ClearCommand clears the conversation history.
type ClearCommand struct{}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Clear the conversation history" }
func (c *ClearCommand) Usage() string       { return "/clear" }

func (c *ClearCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	app.ClearConversation()
	return "conversation cleared", nil
}

// QuitCommand exits the loop.
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Description() string { return "Exit" }
func (c *QuitCommand) Usage() string       { return "/quit" }

func (c *QuitCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	return "", ErrQuit
}

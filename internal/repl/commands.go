// Package repl implements the interactive prompt loop and its slash commands.
package repl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopair/internal/app"
	"gopair/internal/fctx"
	"gopair/internal/fsync"
	"gopair/internal/git"
)

// ErrQuit signals that the loop should exit cleanly.
var ErrQuit = errors.New("quit")

// Command represents a slash command.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, args []string, app AppInterface) (string, error)
}

// AppInterface defines what commands need from the application.
type AppInterface interface {
	Files() *fctx.ActiveSet
	Git() *git.CLI
	WorkDir() string
	ClearConversation()
	AppendNote(note string)
	Ask(ctx context.Context, request string, mode app.StreamMode) (fsync.ChangeSet, error)
	AskAndCommit(ctx context.Context, request string, mode app.StreamMode) error
	CommitChanges(ctx context.Context, changes fsync.ChangeSet, request string) error
	ReportChanges(changes fsync.ChangeSet)
}

// Handler manages slash commands.
type Handler struct {
	commands map[string]Command
}

// NewHandler creates a command handler with the built-in commands registered.
func NewHandler() *Handler {
	h := &Handler{
		commands: make(map[string]Command),
	}

	h.Register(&HelpCommand{handler: h})
	h.Register(&AddCommand{})
	h.Register(&DropCommand{})
	h.Register(&FilesCommand{})
	h.Register(&CommitCommand{})
	h.Register(&RunCommand{})
	h.Register(&ClearCommand{})
	h.Register(&QuitCommand{})

	return h
}

// Register adds a command to the handler.
func (h *Handler) Register(cmd Command) {
	h.commands[cmd.Name()] = cmd
}

// Parse checks if input is a slash command and extracts name and args.
// Returns (name, args, isCommand). Unknown names are still reported as
// commands so the loop can print an error instead of sending "/typo" to
// the model.
func (h *Handler) Parse(input string) (string, []string, bool) {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil, false
	}

	name := strings.TrimPrefix(parts[0], "/")

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return name, args, true
}

// Execute runs a command by name.
func (h *Handler) Execute(ctx context.Context, name string, args []string, app AppInterface) (string, error) {
	cmd, exists := h.commands[name]
	if !exists {
		return "", fmt.Errorf("unknown command: /%s", name)
	}

	return cmd.Execute(ctx, args, app)
}

// ListCommands returns all registered commands sorted by name.
func (h *Handler) ListCommands() []Command {
	cmds := make([]Command, 0, len(h.commands))
	for _, cmd := range h.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

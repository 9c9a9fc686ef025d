// Package app owns the session state and drives the request pipeline:
// context reading, streaming, parsing, synchronization, and commit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"gopair/internal/chat"
	"gopair/internal/client"
	"gopair/internal/commit"
	"gopair/internal/config"
	"gopair/internal/fctx"
	"gopair/internal/fs"
	"gopair/internal/fsync"
	"gopair/internal/git"
	"gopair/internal/logging"
	"gopair/internal/parse"
	"gopair/internal/watcher"
)

// ErrBusy is returned when a request arrives while another is in flight.
// Requests are never interleaved into the same output stream.
var ErrBusy = errors.New("a request is already in flight")

// StreamMode selects how response tokens are delivered.
type StreamMode int

const (
	// StreamIncremental prints fragments to the output sink as they arrive.
	StreamIncremental StreamMode = iota
	// StreamBuffered produces no output until the full response is assembled.
	StreamBuffered
)

// App is the session object owned by the command-processing loop.
type App struct {
	cfg     *config.Config
	workDir string

	session *chat.Session
	files   *fctx.ActiveSet
	llm     client.Client
	syncer  *fsync.Synchronizer
	vc      *git.CLI
	orch    *commit.Orchestrator
	watch   *watcher.Watcher

	out  io.Writer
	busy atomic.Bool
}

// New builds an App and its collaborators for workDir.
func New(ctx context.Context, cfg *config.Config, workDir string) (*App, error) {
	llm, err := client.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	store := fs.NewOSFS()

	ignorer, err := git.NewIgnore(workDir)
	if err != nil {
		logging.Warn("failed to load .gitignore", "error", err)
		ignorer = nil
	}

	vc := git.NewCLI(workDir)

	w, err := watcher.New(watcher.Config{
		Enabled:    cfg.Watcher.Enabled,
		DebounceMs: cfg.Watcher.DebounceMs,
	})
	if err != nil {
		// Fall back to the inert watcher; a broken watcher must not take
		// down the session.
		logging.Warn("file watcher unavailable", "error", err)
		w, _ = watcher.New(watcher.Config{Enabled: false})
	}

	a := &App{
		cfg:     cfg,
		workDir: workDir,
		session: chat.NewSession(workDir),
		files:   fctx.NewActiveSet(workDir, store, ignorerOrNil(ignorer)),
		llm:     llm,
		syncer:  fsync.New(store),
		vc:      vc,
		orch:    commit.New(vc, llm, cfg.Git.FallbackMessage),
		watch:   w,
		out:     os.Stdout,
	}

	w.Start()
	return a, nil
}

func ignorerOrNil(ig *git.Ignore) fctx.Ignorer {
	if ig == nil {
		return nil
	}
	return ig
}

// SetOutput redirects streamed output; used by tests.
func (a *App) SetOutput(w io.Writer) { a.out = w }

// Config returns the active configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Session returns the conversation store.
func (a *App) Session() *chat.Session { return a.session }

// Files returns the active file context.
func (a *App) Files() *fctx.ActiveSet { return a.files }

// WorkDir returns the working directory.
func (a *App) WorkDir() string { return a.workDir }

// Git returns the version-control handle.
func (a *App) Git() *git.CLI { return a.vc }

// Watcher returns the context-file watcher (inert when disabled).
func (a *App) Watcher() *watcher.Watcher { return a.watch }

// Close saves the session transcript and releases the app's resources.
func (a *App) Close() error {
	if a.session.MessageCount() > 0 {
		if hm, err := chat.NewHistoryManager(); err == nil {
			if err := hm.Save(a.session); err != nil {
				logging.Warn("failed to save session transcript", "error", err)
			}
		}
	}
	a.watch.Stop()
	return a.llm.Close()
}

// Ask sends the request with the current file context, applies any parsed
// file updates, and returns the change set.
//
// In incremental mode tokens are written to the output sink in arrival order
// before the call resolves. Cancellation leaves the conversation unmodified
// by the aborted turn.
func (a *App) Ask(ctx context.Context, request string, mode StreamMode) (fsync.ChangeSet, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer a.busy.Store(false)

	blocks, skipped := a.files.ReadBlocks()
	for _, path := range skipped {
		fmt.Fprintf(a.out, "warning: could not read %s, skipping\n", path)
	}

	userTurn := buildUserTurn(request, blocks)

	messages := make([]chat.Message, 0, a.session.MessageCount()+2)
	messages = append(messages, chat.System(askSystemPrompt))
	messages = append(messages, a.session.Messages()...)
	messages = append(messages, chat.User(userTurn))

	sr, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	var response string
	if mode == StreamIncremental {
		response, err = client.ProcessStream(ctx, sr, &client.StreamHandler{
			OnText: func(text string) { fmt.Fprint(a.out, text) },
		})
		if err == nil {
			fmt.Fprintln(a.out)
		}
	} else {
		response, err = sr.Collect()
	}
	if err != nil {
		// The aborted or failed turn leaves no trace in the conversation.
		return nil, err
	}

	a.session.Append(chat.User(userTurn), chat.Assistant(response))

	updates := parse.Parse(response)
	if len(updates) == 0 {
		return nil, nil
	}

	changes, applyErr := a.syncer.Apply(updates)
	if applyErr != nil {
		fmt.Fprintf(a.out, "warning: %v\n", applyErr)
	}
	return changes, nil
}

// AskAndCommit runs Ask and commits the resulting change set.
func (a *App) AskAndCommit(ctx context.Context, request string, mode StreamMode) error {
	changes, err := a.Ask(ctx, request, mode)
	if err != nil {
		return err
	}
	return a.CommitChanges(ctx, changes, request)
}

// CommitChanges stages and commits an applied change set.
func (a *App) CommitChanges(ctx context.Context, changes fsync.ChangeSet, request string) error {
	err := a.orch.Commit(ctx, changes, request)
	if errors.Is(err, commit.ErrNoChanges) {
		fmt.Fprintln(a.out, "no changes found")
		return nil
	}
	return err
}

// ReportChanges prints a summary of an applied change set.
func (a *App) ReportChanges(changes fsync.ChangeSet) {
	if changes.Empty() {
		fmt.Fprintln(a.out, "no changes found")
		return
	}
	for _, c := range changes {
		fmt.Fprintf(a.out, "%s %s (+%d -%d)\n", c.Kind, c.Path, c.LinesAdded, c.LinesRemoved)
	}
}

// ClearConversation truncates the session history.
func (a *App) ClearConversation() {
	a.session.Clear()
}

// AppendNote records an out-of-band result (e.g. /run output) as context for
// later turns.
func (a *App) AppendNote(note string) {
	a.session.Append(chat.User(note))
}

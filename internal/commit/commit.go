// Package commit turns an applied change set into a version-control commit,
// with a model-generated message.
package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopair/internal/chat"
	"gopair/internal/client"
	"gopair/internal/fsync"
	"gopair/internal/git"
	"gopair/internal/logging"
)

// ErrNoChanges is returned when the change set is empty; staging and commit
// are skipped entirely.
var ErrNoChanges = errors.New("no changes to commit")

const messagePrompt = "You are an expert software engineer. Given a user request and the diff " +
	"of the resulting changes, reply with a single concise commit message " +
	"summary line (under 72 characters). Reply with the summary line only: " +
	"no quoting, no code fences, no trailing period."

// Orchestrator stages a change set, asks the model for a commit message, and
// issues the commit.
type Orchestrator struct {
	vc       git.VersionControl
	llm      client.Client
	fallback string
}

// New creates an Orchestrator. fallback is the commit summary used when the
// message request fails.
func New(vc git.VersionControl, llm client.Client, fallback string) *Orchestrator {
	if fallback == "" {
		fallback = "apply model-suggested changes"
	}
	return &Orchestrator{vc: vc, llm: llm, fallback: fallback}
}

// Commit stages exactly the files in the change set, generates a message from
// the original request plus the staged diff, and commits. The message goes to
// git on stdin so arbitrary characters in the request survive.
func (o *Orchestrator) Commit(ctx context.Context, changes fsync.ChangeSet, request string) error {
	if changes.Empty() {
		return ErrNoChanges
	}
	if !o.vc.IsRepo() {
		return errors.New("not a git repository")
	}

	// One bad path must not prevent the rest from being staged.
	if err := o.vc.Stage(changes.Paths()); err != nil {
		logging.Warn("some files failed to stage", "error", err)
	}

	diff, err := o.vc.StagedDiff()
	if err != nil {
		logging.Warn("failed to obtain staged diff", "error", err)
		diff = ""
	}

	summary := o.generateSummary(ctx, request, diff)
	message := buildMessage(summary, request)

	if err := o.vc.Commit(message); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

// generateSummary requests a commit summary in buffered mode; a partial
// message is never used. Failures fall back to the fixed message.
func (o *Orchestrator) generateSummary(ctx context.Context, request, diff string) string {
	messages := []chat.Message{
		chat.System(messagePrompt),
		chat.User(fmt.Sprintf("Request:\n%s\n\nDiff:\n%s", request, diff)),
	}

	sr, err := o.llm.Chat(ctx, messages)
	if err != nil {
		logging.Warn("commit message request failed, using fallback", "error", err)
		return o.fallback
	}

	text, err := sr.Collect()
	if err != nil {
		logging.Warn("commit message stream failed, using fallback", "error", err)
		return o.fallback
	}

	summary := firstLine(text)
	if summary == "" {
		return o.fallback
	}
	return summary
}

// buildMessage assembles the final commit message: summary, blank line, then
// the verbatim original request.
func buildMessage(summary, request string) string {
	return summary + "\n\nOriginal prompt:\n" + request + "\n"
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "`\"")
		if line != "" {
			return line
		}
	}
	return ""
}

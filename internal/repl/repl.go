package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"gopair/internal/app"
	"gopair/internal/client"
	"gopair/internal/logging"
)

// REPL is the interactive prompt loop.
type REPL struct {
	app     *app.App
	handler *Handler
	in      io.Reader
	out     io.Writer
}

// New creates a REPL driving the given application.
func New(a *app.App, in io.Reader, out io.Writer) *REPL {
	a.SetOutput(out)
	return &REPL{
		app:     a,
		handler: NewHandler(),
		in:      in,
		out:     out,
	}
}

// Run reads lines until EOF or /quit. An interrupt while a request is in
// flight cancels only that request; at the prompt it prints a hint and
// keeps the session alive.
func (r *REPL) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	r.app.Watcher().SetOnFileChange(func(path string) {
		fmt.Fprintln(r.out, warnStyle.Render(fmt.Sprintf("note: %s changed on disk; the model sees the new version next turn", path)))
	})
	r.app.Watcher().Start()

	fmt.Fprintf(r.out, "%s in %s\n", promptStyle.Render("gopair"), r.app.WorkDir())
	fmt.Fprintln(r.out, mutedStyle.Render("type a request, or /help for commands"))
	r.syncWatches()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			logging.Warn("repl input error", "error", err)
		}
	}()

	for {
		fmt.Fprint(r.out, promptStyle.Render(">")+" ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return ctx.Err()
		case <-sigCh:
			fmt.Fprintln(r.out, "\n"+mutedStyle.Render("(use /quit to exit)"))
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return nil
			}
			if err := r.dispatch(ctx, sigCh, line); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
}

// dispatch handles one input line. The returned error ends the loop; command
// and request failures are printed instead.
func (r *REPL) dispatch(ctx context.Context, sigCh <-chan os.Signal, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-watchDone:
		}
	}()

	if name, args, ok := r.handler.Parse(line); ok {
		out, err := r.handler.Execute(reqCtx, name, args, r.app)
		switch {
		case errors.Is(err, ErrQuit):
			return err
		case client.IsCanceled(err):
			fmt.Fprintln(r.out, warnStyle.Render("aborted"))
		case err != nil:
			fmt.Fprintln(r.out, errorStyle.Render("error: ")+err.Error())
		case out != "":
			fmt.Fprintln(r.out, out)
		}
		r.syncWatches()
		return nil
	}

	changes, err := r.app.Ask(reqCtx, line, app.StreamIncremental)
	switch {
	case client.IsCanceled(err):
		fmt.Fprintln(r.out, warnStyle.Render("aborted"))
	case err != nil:
		fmt.Fprintln(r.out, errorStyle.Render("error: ")+err.Error())
	case !changes.Empty():
		fmt.Fprintln(r.out)
		for _, c := range changes {
			fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("%s %s (+%d -%d)", c.Kind, c.Path, c.LinesAdded, c.LinesRemoved)))
		}
	default:
		fmt.Fprintln(r.out)
	}
	return nil
}

// syncWatches keeps the watcher aligned with the active context set.
func (r *REPL) syncWatches() {
	for _, path := range r.app.Files().Paths() {
		if err := r.app.Watcher().Watch(path); err != nil {
			logging.Debug("watch failed", "path", path, "error", err)
		}
	}
}

package repl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopair/internal/app"
	"gopair/internal/fctx"
	"gopair/internal/fs"
	"gopair/internal/fsync"
	"gopair/internal/git"
)

type fakeApp struct {
	files   *fctx.ActiveSet
	vc      *git.CLI
	workDir string

	notes     []string
	cleared   bool
	asked     []string
	committed []string
}

func newFakeApp(t *testing.T) *fakeApp {
	t.Helper()
	dir := t.TempDir()
	return &fakeApp{
		files:   fctx.NewActiveSet(dir, fs.NewMemoryFS(), nil),
		vc:      git.NewCLI(dir),
		workDir: dir,
	}
}

func (f *fakeApp) Files() *fctx.ActiveSet { return f.files }
func (f *fakeApp) Git() *git.CLI          { return f.vc }
func (f *fakeApp) WorkDir() string        { return f.workDir }
func (f *fakeApp) ClearConversation()     { f.cleared = true }
func (f *fakeApp) AppendNote(note string) { f.notes = append(f.notes, note) }

func (f *fakeApp) Ask(ctx context.Context, request string, mode app.StreamMode) (fsync.ChangeSet, error) {
	f.asked = append(f.asked, request)
	return nil, nil
}

func (f *fakeApp) AskAndCommit(ctx context.Context, request string, mode app.StreamMode) error {
	f.committed = append(f.committed, request)
	return nil
}

func (f *fakeApp) CommitChanges(ctx context.Context, changes fsync.ChangeSet, request string) error {
	return nil
}

func (f *fakeApp) ReportChanges(changes fsync.ChangeSet) {}

func TestParseRecognizesCommands(t *testing.T) {
	h := NewHandler()

	name, args, ok := h.Parse("/add main.go util.go")
	require.True(t, ok)
	assert.Equal(t, "add", name)
	assert.Equal(t, []string{"main.go", "util.go"}, args)
}

func TestParseIgnoresPlainRequests(t *testing.T) {
	h := NewHandler()

	_, _, ok := h.Parse("rename the Foo function")
	assert.False(t, ok)
}

func TestExecuteUnknownCommand(t *testing.T) {
	h := NewHandler()

	_, err := h.Execute(context.Background(), "bogus", nil, newFakeApp(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/bogus")
}

func TestAddAndDrop(t *testing.T) {
	h := NewHandler()
	a := newFakeApp(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, "add", []string{"main.go"}, a)
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.Equal(t, []string{"main.go"}, a.files.Paths())

	out, err = h.Execute(ctx, "drop", []string{"main.go"}, a)
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.Empty(t, a.files.Paths())
}

func TestAddRequiresArgs(t *testing.T) {
	h := NewHandler()

	_, err := h.Execute(context.Background(), "add", nil, newFakeApp(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestFilesEmptyContext(t *testing.T) {
	h := NewHandler()

	out, err := h.Execute(context.Background(), "files", nil, newFakeApp(t))
	require.NoError(t, err)
	assert.Contains(t, out, "/add")
}

func TestCommitForwardsRequest(t *testing.T) {
	h := NewHandler()
	a := newFakeApp(t)

	_, err := h.Execute(context.Background(), "commit", []string{"fix", "the", "bug"}, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"fix the bug"}, a.committed)
}

func TestRunRecordsOutputAsNote(t *testing.T) {
	h := NewHandler()
	a := newFakeApp(t)

	out, err := h.Execute(context.Background(), "run", []string{"echo", "hello"}, a)
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
	require.Len(t, a.notes, 1)
	assert.Contains(t, a.notes[0], "echo hello")
	assert.Contains(t, a.notes[0], "hello")
}

func TestRunKeepsFailureOutput(t *testing.T) {
	h := NewHandler()
	a := newFakeApp(t)

	out, err := h.Execute(context.Background(), "run", []string{"echo", "oops;", "exit", "3"}, a)
	require.NoError(t, err)
	assert.Contains(t, out, "oops")
	assert.Contains(t, out, "exit")
}

func TestClearCommand(t *testing.T) {
	h := NewHandler()
	a := newFakeApp(t)

	out, err := h.Execute(context.Background(), "clear", nil, a)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.True(t, a.cleared)
}

func TestQuitReturnsSentinel(t *testing.T) {
	h := NewHandler()

	_, err := h.Execute(context.Background(), "quit", nil, newFakeApp(t))
	assert.ErrorIs(t, err, ErrQuit)
}

func TestHelpListsEveryCommand(t *testing.T) {
	h := NewHandler()

	out, err := h.Execute(context.Background(), "help", nil, newFakeApp(t))
	require.NoError(t, err)
	for _, name := range []string{"/add", "/drop", "/files", "/commit", "/run", "/clear", "/quit"} {
		assert.Contains(t, out, name)
	}
}

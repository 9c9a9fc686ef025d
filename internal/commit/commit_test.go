package commit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopair/internal/chat"
	"gopair/internal/client"
	"gopair/internal/fsync"
)

// fakeVC records version-control calls.
type fakeVC struct {
	repo      bool
	staged    []string
	stageErr  error
	diff      string
	committed []string
	commitErr error
}

func (f *fakeVC) IsRepo() bool { return f.repo }

func (f *fakeVC) Stage(paths []string) error {
	f.staged = append(f.staged, paths...)
	return f.stageErr
}

func (f *fakeVC) StagedDiff() (string, error) { return f.diff, nil }

func (f *fakeVC) Commit(message string) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed = append(f.committed, message)
	return nil
}

// fakeClient returns a canned buffered response.
type fakeClient struct {
	response string
	err      error
	requests [][]chat.Message
}

func (f *fakeClient) Chat(ctx context.Context, messages []chat.Message) (*client.StreamingResponse, error) {
	f.requests = append(f.requests, messages)
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan client.Chunk, 2)
	ch <- client.Chunk{Text: f.response}
	ch <- client.Chunk{Done: true}
	close(ch)
	return &client.StreamingResponse{Chunks: ch}, nil
}

func (f *fakeClient) Model() string { return "fake" }
func (f *fakeClient) Close() error  { return nil }

func changeSet(paths ...string) fsync.ChangeSet {
	var cs fsync.ChangeSet
	for _, p := range paths {
		cs = append(cs, fsync.Change{Path: p, Kind: fsync.Updated})
	}
	return cs
}

func TestCommit_EmptyChangeSetSkipsStaging(t *testing.T) {
	vc := &fakeVC{repo: true}
	o := New(vc, &fakeClient{response: "msg"}, "")

	err := o.Commit(context.Background(), nil, "do something")

	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Empty(t, vc.staged, "staging must never run on an empty change set")
	assert.Empty(t, vc.committed)
}

func TestCommit_StagesExactlyChangedFiles(t *testing.T) {
	vc := &fakeVC{repo: true, diff: "some diff"}
	o := New(vc, &fakeClient{response: "add feature"}, "")

	err := o.Commit(context.Background(), changeSet("a.go", "b.go"), "add feature please")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, vc.staged)
	require.Len(t, vc.committed, 1)
}

func TestCommit_MessageLayout(t *testing.T) {
	vc := &fakeVC{repo: true, diff: "diff text"}
	o := New(vc, &fakeClient{response: "fix parser edge case\nextra prose ignored"}, "")

	request := "please fix the \"quoted\" edge case"
	err := o.Commit(context.Background(), changeSet("p.go"), request)

	require.NoError(t, err)
	require.Len(t, vc.committed, 1)
	assert.Equal(t, "fix parser edge case\n\nOriginal prompt:\n"+request+"\n", vc.committed[0])
}

func TestCommit_FallbackOnMessageFailure(t *testing.T) {
	vc := &fakeVC{repo: true}
	o := New(vc, &fakeClient{err: errors.New("network down")}, "fallback summary")

	err := o.Commit(context.Background(), changeSet("a.go"), "req")

	require.NoError(t, err, "message failure must not abort the commit")
	require.Len(t, vc.committed, 1)
	assert.Contains(t, vc.committed[0], "fallback summary")
}

func TestCommit_StagingFailureDoesNotAbort(t *testing.T) {
	vc := &fakeVC{repo: true, stageErr: errors.New("pathspec error")}
	o := New(vc, &fakeClient{response: "msg"}, "")

	err := o.Commit(context.Background(), changeSet("a.go"), "req")

	require.NoError(t, err)
	require.Len(t, vc.committed, 1)
}

func TestCommit_NotARepo(t *testing.T) {
	vc := &fakeVC{repo: false}
	o := New(vc, &fakeClient{response: "msg"}, "")

	err := o.Commit(context.Background(), changeSet("a.go"), "req")

	require.Error(t, err)
	assert.Empty(t, vc.staged)
}

func TestCommit_MessageRequestSeesRequestAndDiff(t *testing.T) {
	vc := &fakeVC{repo: true, diff: "the staged diff"}
	llm := &fakeClient{response: "summary"}
	o := New(vc, llm, "")

	err := o.Commit(context.Background(), changeSet("a.go"), "the original ask")

	require.NoError(t, err)
	require.Len(t, llm.requests, 1)
	messages := llm.requests[0]
	require.Len(t, messages, 2)
	assert.Equal(t, chat.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[1].Content, "the original ask")
	assert.Contains(t, messages[1].Content, "the staged diff")
}

package filemanager_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/filemanager"
	"github.com/vk/filepanel/internal/resource"
	"github.com/vk/filepanel/internal/testutil"
)

func newManager(t *testing.T, files map[string]string, opts ...filemanager.Option) (*filemanager.Manager, *testutil.Remote) {
	t.Helper()
	remote := testutil.NewRemote(t, files)
	client, err := resource.NewClient(remote.URL, testutil.StartLoop(t))
	require.NoError(t, err)
	return filemanager.New(client, "/", opts...), remote
}

// recordingCaller answers every call from a fixed script and records the
// requests it saw.
type recordingCaller struct {
	loop  *async.Loop
	calls []string
	body  string
	err   error
}

func (c *recordingCaller) Call(_ context.Context, method, location string, body []byte) *async.Future[string] {
	c.calls = append(c.calls, method+" "+location+" "+string(body))
	if c.err != nil {
		return async.Rejected[string](c.loop, c.err)
	}
	return async.Resolved(c.loop, c.body)
}

func TestList_EmptyDirectory(t *testing.T) {
	m, _ := newManager(t, nil)

	names, err := testutil.Await(t, m.List(context.Background()))

	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestList_SplitsLines(t *testing.T) {
	caller := &recordingCaller{loop: testutil.StartLoop(t), body: "a\nb\nc"}
	m := filemanager.New(caller, "/")

	names, err := testutil.Await(t, m.List(context.Background()))

	require.NoError(t, err)
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Fatalf("List() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"GET / "}, caller.calls)
}

func TestList_AgainstRemote(t *testing.T) {
	m, _ := newManager(t, map[string]string{"b.txt": "", "a.txt": "x"})

	names, err := testutil.Await(t, m.List(context.Background()))

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
}

func TestList_FailureResolvesEmptyAndReports(t *testing.T) {
	boom := &resource.RemoteError{StatusCode: http.StatusInternalServerError, StatusText: "Internal Server Error"}
	caller := &recordingCaller{loop: testutil.StartLoop(t), err: boom}
	logger, logs := testutil.NewLogger(t)

	var reported []error
	m := filemanager.New(caller, "/",
		filemanager.WithLogger(logger),
		filemanager.WithErrorReporter(func(err error) { reported = append(reported, err) }),
	)

	names, err := testutil.Await(t, m.List(context.Background()))

	require.NoError(t, err, "List must never reject")
	assert.Empty(t, names)
	require.Len(t, reported, 1)
	assert.Same(t, boom, reported[0])
	assert.Contains(t, logs.String(), "Listing directory failed.")
}

func TestWriteOrCreate_EmptyContentRoundTrip(t *testing.T) {
	m, _ := newManager(t, nil)
	ctx := context.Background()

	_, err := testutil.Await(t, m.WriteOrCreate(ctx, "x.txt", ""))
	require.NoError(t, err)

	content, err := testutil.Await(t, m.Read(ctx, "x.txt"))
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestCreate_TruncatesExistingFile(t *testing.T) {
	m, remote := newManager(t, map[string]string{"x.txt": "old"})

	_, err := testutil.Await(t, m.Create(context.Background(), "x.txt"))

	require.NoError(t, err)
	assert.Equal(t, "", remote.ReadFile(t, "x.txt"))
}

func TestWriteOrCreate_Overwrites(t *testing.T) {
	m, remote := newManager(t, map[string]string{"notes.txt": "hello"})

	_, err := testutil.Await(t, m.WriteOrCreate(context.Background(), "notes.txt", "hello world"))

	require.NoError(t, err)
	assert.Equal(t, "hello world", remote.ReadFile(t, "notes.txt"))
}

func TestRemove_MissingRejectsWithRemoteError(t *testing.T) {
	m, _ := newManager(t, nil)

	_, err := testutil.Await(t, m.Remove(context.Background(), "x.txt"))

	var re *resource.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
}

func TestRemove_DeletesFile(t *testing.T) {
	m, _ := newManager(t, map[string]string{"x.txt": "bye"})
	ctx := context.Background()

	_, err := testutil.Await(t, m.Remove(ctx, "x.txt"))
	require.NoError(t, err)

	names, err := testutil.Await(t, m.List(ctx))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRead_PropagatesErrorsUnmodified(t *testing.T) {
	boom := errors.New("connection reset")
	caller := &recordingCaller{loop: testutil.StartLoop(t), err: boom}
	m := filemanager.New(caller, "/")

	_, err := testutil.Await(t, m.Read(context.Background(), "notes.txt"))

	assert.Same(t, boom, err)
}

func TestOperations_ConcatenateNameVerbatim(t *testing.T) {
	caller := &recordingCaller{loop: testutil.StartLoop(t)}
	m := filemanager.New(caller, "/docs/")
	ctx := context.Background()

	_, _ = testutil.Await(t, m.Read(ctx, "../a.txt"))
	_, _ = testutil.Await(t, m.WriteOrCreate(ctx, "", "data"))
	_, _ = testutil.Await(t, m.Remove(ctx, "b.txt"))

	assert.Equal(t, []string{
		"GET /docs/../a.txt ",
		"PUT /docs/ data",
		"DELETE /docs/b.txt ",
	}, caller.calls)
	assert.Equal(t, "/docs/", m.CurrentDirectory())
}

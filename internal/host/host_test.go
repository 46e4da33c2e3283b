package host

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/panel"
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/internal/session"
	"github.com/vk/filepanel/internal/testutil"
	"github.com/vk/filepanel/modules/addimage"
	"github.com/vk/filepanel/modules/filecontrols"
	"golang.org/x/net/html"
)

type message struct {
	event string
	args  []any
}

// recorder collects what a connection emits.
type recorder chan message

func (r recorder) emit(event string, args ...any) {
	r <- message{event: event, args: args}
}

// next returns the next message of the given event, skipping others.
func (r recorder) next(t *testing.T, event string) string {
	t.Helper()
	timeout := time.After(testutil.DefaultTimeout)
	for {
		select {
		case m := <-r:
			if m.event != event {
				continue
			}
			require.Len(t, m.args, 1)
			s, ok := m.args[0].(string)
			require.True(t, ok)
			return s
		case <-timeout:
			t.Fatalf("no %q message received", event)
			return ""
		}
	}
}

func newTestServer(t *testing.T, files map[string]string) (*Server, *testutil.Remote) {
	t.Helper()
	remote := testutil.NewRemote(t, files)
	logger, _ := testutil.NewLogger(t)
	reg := registry.New()
	reg.Load(&filecontrols.Module{}, &addimage.Module{})
	srv := New(&session.Factory{BaseURL: remote.URL, Registry: reg}, WithLogger(logger), WithTitle("Test panel"))
	t.Cleanup(srv.Close)
	return srv, remote
}

func openConnection(t *testing.T, srv *Server) (*connection, recorder) {
	t.Helper()
	rec := make(recorder, 32)
	c, err := srv.open(ctxlog.WithLogger(context.Background(), srv.logger), rec.emit)
	require.NoError(t, err)
	t.Cleanup(c.close)
	go c.serve()
	return c, rec
}

// nodeID returns the data-node attribute of the first element with tag in
// the rendered panel.
func nodeID(t *testing.T, rendered, tag string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(rendered))
	require.NoError(t, err)
	var id string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if id != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			for _, a := range n.Attr {
				if a.Key == dom.NodeIDAttr {
					id = a.Val
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	require.NotEmpty(t, id, "no <%s> in %s", tag, rendered)
	return id
}

func ptr[T any](v T) *T { return &v }

func TestServer_Page(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<title>Test panel</title>")
	assert.Contains(t, string(body), `<div id="panel">`)
	assert.Contains(t, string(body), "socket.io")
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestServer_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnection_InitialRender(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"notes.txt": "hello"})
	c, rec := openConnection(t, srv)

	rendered := rec.next(t, "render")

	assert.Contains(t, rendered, `id="panel"`)
	assert.Contains(t, rendered, ">notes.txt</option>")
	got, ok := srv.Sessions().Get(c.sess.ID())
	require.True(t, ok)
	assert.Same(t, c.sess, got)
}

func TestConnection_DispatchRendersSettledPanel(t *testing.T) {
	srv, remote := newTestServer(t, map[string]string{"notes.txt": "hello"})
	c, rec := openConnection(t, srv)
	rendered := rec.next(t, "render")

	c.enqueue(session.Event{Node: nodeID(t, rendered, "select"), Type: "change", Value: ptr("notes.txt")})
	rendered = rec.next(t, "render")
	assert.Contains(t, rendered, ">hello</textarea>")

	c.enqueue(session.Event{Node: nodeID(t, rendered, "textarea"), Type: "input", Value: ptr("hello world")})
	c.enqueue(session.Event{Node: nodeID(t, rendered, "button"), Type: "click"})
	rendered = rec.next(t, "render")

	assert.Contains(t, rendered, ">hello world</textarea>")
	assert.Equal(t, "hello world", remote.ReadFile(t, "notes.txt"))
}

func TestConnection_SyncEventsDoNotRender(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c, rec := openConnection(t, srv)
	rendered := rec.next(t, "render")

	require.NoError(t, c.handle(session.Event{Node: nodeID(t, rendered, "textarea"), Type: "input", Value: ptr("typing")}))

	select {
	case m := <-rec:
		t.Fatalf("unexpected %q message", m.event)
	default:
	}
}

func TestConnection_ReportsFailures(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c, rec := openConnection(t, srv)
	rec.next(t, "render")

	c.enqueue(session.Event{Node: "n0", Type: "click"})

	assert.Contains(t, rec.next(t, "report"), "unknown node")
}

func TestConnection_PromptRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"page.html": ""})
	c, rec := openConnection(t, srv)
	rendered := rec.next(t, "render")

	c.enqueue(session.Event{Node: nodeID(t, rendered, "select"), Type: "change", Value: ptr("page.html")})
	rec.next(t, "render")

	var buttonID string
	require.NoError(t, c.sess.Do(context.Background(), func(p *panel.Panel) {
		buttonID = p.Control(addimage.AddImageByURL).ID()
	}))
	c.enqueue(session.Event{Node: buttonID, Type: "click"})

	assert.Equal(t, addimage.PromptMessage, rec.next(t, "prompt"))
	c.sess.Answer("http://x/a.png", true)

	rendered = rec.next(t, "render")
	assert.Contains(t, rendered, `&lt;img src=&#34;http://x/a.png&#34;&gt;</textarea>`)
}

func TestConnection_FullBacklogReportsDroppedActions(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{"notes.txt": "hello"})
	rec := make(recorder, 4)
	c, err := srv.open(ctxlog.WithLogger(context.Background(), srv.logger), rec.emit)
	require.NoError(t, err)
	t.Cleanup(c.close)

	for range eventBacklog {
		c.enqueue(session.Event{Node: "n1", Type: "input"})
	}
	c.enqueue(session.Event{Node: "n1", Type: "input"})
	assert.Empty(t, rec, "state updates are dropped quietly")

	c.enqueue(session.Event{Node: "n1", Type: "click"})
	assert.Equal(t, "Panel is busy, click ignored.", rec.next(t, "report"))
}

func TestConnection_CloseRemovesSession(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c, rec := openConnection(t, srv)
	rec.next(t, "render")

	c.close()
	c.close()

	_, ok := srv.Sessions().Get(c.sess.ID())
	assert.False(t, ok)
	<-c.sess.Done()
}

func TestDecode(t *testing.T) {
	var ev session.Event
	err := decode([]any{map[string]any{"node": "n1", "type": "input", "value": "x", "selectionStart": float64(1), "selectionEnd": float64(1)}}, &ev)
	require.NoError(t, err)
	assert.Equal(t, "n1", ev.Node)
	assert.Equal(t, "x", *ev.Value)
	assert.Equal(t, 1, *ev.SelectionEnd)

	assert.Error(t, decode(nil, &ev))
	assert.Error(t, decode([]any{"not an object"}, &ev))
}

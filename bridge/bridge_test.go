package bridge

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipdock/bookmark"
	"clipdock/history"
)

type fakeRouter struct {
	mu        sync.Mutex
	history   []history.Entry
	bookmarks *bookmark.Store
	copied    []string
	cleared   bool
	shown     int
	showErr   error
}

func (r *fakeRouter) ListHistory() []history.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history
}

func (r *fakeRouter) ListBookmarks() []bookmark.Bookmark { return r.bookmarks.Snapshot() }

func (r *fakeRouter) AddBookmark(content string) (bookmark.Bookmark, error) {
	return r.bookmarks.Add(content)
}

func (r *fakeRouter) RemoveBookmark(id string) error { return r.bookmarks.Remove(id) }

func (r *fakeRouter) Copy(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = append(r.copied, content)
	return nil
}

func (r *fakeRouter) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = true
	r.history = nil
}

func (r *fakeRouter) ShowSettings() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown++
	return r.showErr
}

// startServer uses a short temp dir: Unix socket paths are length limited.
func startServer(t *testing.T, router Router) *Client {
	t.Helper()
	dir, err := os.MkdirTemp("", "cdb")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	sock := filepath.Join(dir, "s.sock")
	srv, err := NewServerAt(router, sock)
	require.NoError(t, err)
	go srv.Serve()
	t.Cleanup(srv.Close)

	return NewClientAt(sock)
}

func TestBridgeRoundTrip(t *testing.T) {
	router := &fakeRouter{
		history:   []history.Entry{{Text: "latest"}, {Text: "older"}},
		bookmarks: bookmark.NewStore(""),
	}
	c := startServer(t, router)

	hist, err := c.ListHistory()
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "latest", hist[0].Text)

	b, err := c.AddBookmark("pin me")
	require.NoError(t, err)
	assert.Equal(t, "pin me", b.Content)

	bms, err := c.ListBookmarks()
	require.NoError(t, err)
	require.Len(t, bms, 1)
	assert.Equal(t, b.ID, bms[0].ID)

	require.NoError(t, c.RemoveBookmark(b.ID))
	err = c.RemoveBookmark(b.ID)
	assert.ErrorContains(t, err, "bookmark not found")

	require.NoError(t, c.Copy("hello"))
	router.mu.Lock()
	assert.Equal(t, []string{"hello"}, router.copied)
	router.mu.Unlock()

	require.NoError(t, c.ClearHistory())
	router.mu.Lock()
	assert.True(t, router.cleared)
	router.mu.Unlock()

	require.NoError(t, c.ShowSettings())
	router.mu.Lock()
	router.showErr = errors.New("no window")
	router.mu.Unlock()
	assert.ErrorContains(t, c.ShowSettings(), "no window")
	router.mu.Lock()
	assert.Equal(t, 2, router.shown)
	router.mu.Unlock()
}

func TestBridgeAddEmptyBookmark(t *testing.T) {
	c := startServer(t, &fakeRouter{bookmarks: bookmark.NewStore("")})
	_, err := c.AddBookmark("")
	assert.Error(t, err)
}

func TestBridgeUnknownAndMalformed(t *testing.T) {
	c := startServer(t, &fakeRouter{bookmarks: bookmark.NewStore("")})

	resp, err := c.send(Request{Type: "Nope"})
	require.NoError(t, err)
	assert.Equal(t, "Error", resp.Type)
	assert.Equal(t, CodeUnknown, resp.Code)

	conn, err := net.Dial("unix", c.sockPath)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("{garbage\n"))
	require.NoError(t, err)
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "parse error")
}

func TestClientWithoutServer(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	_, err := c.ListHistory()
	assert.ErrorContains(t, err, "is the tray app running?")
}

func TestSocketPathFollowsConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	assert.Equal(t, filepath.Join(dir, "clipdock.sock"), SocketPath(dir))
	assert.DirExists(t, dir)

	other := t.TempDir()
	assert.NotEqual(t, SocketPath(dir), SocketPath(other))
}

package webui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	mu   sync.Mutex
	msgs []Message
	got  chan Message
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{got: make(chan Message, 8)}
}

func (h *fakeHandler) State() (json.RawMessage, error) {
	return json.RawMessage(`{"history":[{"text":"a"}],"bookmarks":[],"settings":{}}`), nil
}

func (h *fakeHandler) HandleIPC(msg Message) {
	h.mu.Lock()
	h.msgs = append(h.msgs, msg)
	h.mu.Unlock()
	h.got <- msg
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitClients(t *testing.T, s *Server, n int) {
	t.Helper()
	assert.Eventually(t, func() bool { return s.Clients() == n }, 5*time.Second, 10*time.Millisecond)
}

func TestPageAndState(t *testing.T) {
	s := New(newFakeHandler(), nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Clipboard history")

	resp, err = http.Get(ts.URL + "/state")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, `{"history":[{"text":"a"}],"bookmarks":[],"settings":{}}`, string(body))
}

func TestWebsocketPushesStateAndForwardsIPC(t *testing.T) {
	h := newFakeHandler()
	s := New(h, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	conn := dial(t, ts)
	first := readMsg(t, conn)
	assert.Equal(t, "state", first.Type)
	assert.Contains(t, string(first.State), `"text":"a"`)

	require.NoError(t, conn.WriteJSON(Message{Type: "add_bookmark", Content: "pin"}))
	select {
	case msg := <-h.got:
		assert.Equal(t, "add_bookmark", msg.Type)
		assert.Equal(t, "pin", msg.Content)
	case <-time.After(5 * time.Second):
		t.Fatal("ipc message not forwarded")
	}

	waitClients(t, s, 1)
	s.PushState()
	assert.Equal(t, "state", readMsg(t, conn).Type)
}

func TestCloseRequestIntercepted(t *testing.T) {
	h := newFakeHandler()
	s := New(h, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	destroyed := false
	s.OnCloseRequested(func() bool {
		_ = s.Hide()
		return true
	})
	s.OnDestroyed(func() { destroyed = true })

	conn := dial(t, ts)
	readMsg(t, conn) // initial state

	require.NoError(t, conn.WriteJSON(Message{Type: "close_requested"}))
	assert.Equal(t, "hide", readMsg(t, conn).Type)
	assert.False(t, s.Visible())
	assert.False(t, destroyed)

	h.mu.Lock()
	assert.Empty(t, h.msgs, "close requests are not forwarded as ipc")
	h.mu.Unlock()
}

func TestCloseRequestNotPrevented(t *testing.T) {
	s := New(newFakeHandler(), nil)
	destroyed := false
	s.OnDestroyed(func() { destroyed = true })
	s.RequestClose()
	assert.True(t, destroyed)
}

func TestShowUsesOpener(t *testing.T) {
	var opened string
	s := New(newFakeHandler(), func(u string) error {
		opened = u
		return nil
	})
	assert.Error(t, s.Show(), "show before listen")

	require.NoError(t, s.Listen("127.0.0.1:0"))
	defer s.Close(context.Background())

	require.NoError(t, s.Show())
	assert.True(t, s.Visible())
	assert.Equal(t, s.URL(), opened)
	assert.True(t, strings.HasPrefix(opened, "http://127.0.0.1:"))
}

func TestRejectsForeignOrigin(t *testing.T) {
	s := New(newFakeHandler(), nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	hdr := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, hdr)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRejectsRebindingHost(t *testing.T) {
	s := New(newFakeHandler(), nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/state", nil)
	require.NoError(t, err)
	req.Host = "evil.example"
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	hdr := http.Header{
		"Host":   []string{"evil.example"},
		"Origin": []string{"http://evil.example"},
	}
	_, resp, err = websocket.DefaultDialer.Dial(url, hdr)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIsLoopbackHost(t *testing.T) {
	for host, want := range map[string]bool{
		"127.0.0.1:8080":    true,
		"127.0.0.1":         true,
		"localhost:1234":    true,
		"LOCALHOST":         true,
		"[::1]:9000":        true,
		"::1":               true,
		"192.168.1.10:8080": false,
		"evil.example:8080": false,
		"":                  false,
	} {
		assert.Equal(t, want, isLoopbackHost(host), host)
	}
}

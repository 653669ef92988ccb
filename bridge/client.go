package bridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"

	"clipdock/bookmark"
	"clipdock/history"
)

// Client talks to a running tray app over the bridge socket.
// Each call opens a fresh connection.
type Client struct {
	sockPath string
}

// NewClient creates a Client for the socket in configDir.
func NewClient(configDir string) *Client {
	return &Client{sockPath: SocketPath(configDir)}
}

// NewClientAt creates a Client for sockPath.
func NewClientAt(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// ListHistory returns the tray's clipboard history, most recent first.
func (c *Client) ListHistory() ([]history.Entry, error) {
	resp, err := c.call(Request{Type: "ListHistory"})
	if err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ListBookmarks returns the tray's bookmarks in insertion order.
func (c *Client) ListBookmarks() ([]bookmark.Bookmark, error) {
	resp, err := c.call(Request{Type: "ListBookmarks"})
	if err != nil {
		return nil, err
	}
	return resp.Bookmarks, nil
}

// AddBookmark pins content and returns the stored bookmark.
func (c *Client) AddBookmark(content string) (bookmark.Bookmark, error) {
	resp, err := c.call(Request{Type: "AddBookmark", Content: content})
	if err != nil {
		return bookmark.Bookmark{}, err
	}
	if resp.Bookmark == nil {
		return bookmark.Bookmark{}, fmt.Errorf("bridge returned no bookmark")
	}
	return *resp.Bookmark, nil
}

// RemoveBookmark unpins the bookmark with the given ID.
func (c *Client) RemoveBookmark(id string) error {
	_, err := c.call(Request{Type: "RemoveBookmark", ID: id})
	return err
}

// Copy asks the tray to put content on the clipboard.
func (c *Client) Copy(content string) error {
	_, err := c.call(Request{Type: "Copy", Content: content})
	return err
}

// ClearHistory drops the tray's clipboard history.
func (c *Client) ClearHistory() error {
	_, err := c.call(Request{Type: "ClearHistory"})
	return err
}

// ShowSettings opens the settings window.
func (c *Client) ShowSettings() error {
	_, err := c.call(Request{Type: "ShowSettings"})
	return err
}

func (c *Client) call(req Request) (*Response, error) {
	resp, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", req.Type, err)
	}
	if resp.Type == "Error" {
		return nil, fmt.Errorf("bridge error (code %d): %s", resp.Code, resp.Message)
	}
	return resp, nil
}

// send opens a connection, writes the request, reads one response, and closes.
func (c *Client) send(req Request) (*Response, error) {
	conn, err := net.Dial("unix", c.sockPath)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to clipdock at %s: %w (is the tray app running?)", c.sockPath, err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read failed: %w", err)
		}
		return nil, fmt.Errorf("bridge closed connection")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}
	return &resp, nil
}

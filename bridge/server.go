package bridge

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// Server listens on a Unix socket and routes requests to a Router.
type Server struct {
	router   Router
	listener net.Listener
	sockPath string
	wg       sync.WaitGroup
}

// NewServer creates a Server bound to the socket in configDir.
func NewServer(router Router, configDir string) (*Server, error) {
	return NewServerAt(router, SocketPath(configDir))
}

// NewServerAt creates a Server bound to sockPath.
func NewServerAt(router Router, sockPath string) (*Server, error) {
	// Remove stale socket file.
	_ = os.Remove(sockPath)

	listener, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, err
	}

	return &Server{
		router:   router,
		listener: listener,
		sockPath: sockPath,
	}, nil
}

// Serve accepts connections and handles them. Blocks until the listener is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Listener was closed.
			return err
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Close shuts down the server: closes the listener, waits for connections, removes the socket.
func (s *Server) Close() {
	_ = s.listener.Close()
	s.wg.Wait()
	_ = os.Remove(s.sockPath)
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	// Clipboard text can be large; allow up to 10MB lines.
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		resp := s.handleRequest(scanner.Bytes())

		data, err := json.Marshal(resp)
		if err != nil {
			data, _ = json.Marshal(Response{
				Type:    "Error",
				Code:    -1,
				Message: err.Error(),
			})
		}
		data = append(data, '\n')

		if _, err := conn.Write(data); err != nil {
			return
		}
	}
}

func errorResponse(code int, msg string) Response {
	return Response{Type: "Error", Code: code, Message: msg}
}

func (s *Server) handleRequest(line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return errorResponse(CodeParse, "parse error: "+err.Error())
	}

	switch req.Type {
	case "ListHistory":
		return Response{Type: "History", History: s.router.ListHistory()}

	case "ListBookmarks":
		return Response{Type: "Bookmarks", Bookmarks: s.router.ListBookmarks()}

	case "AddBookmark":
		b, err := s.router.AddBookmark(req.Content)
		if err != nil {
			return errorResponse(CodeInternal, err.Error())
		}
		return Response{Type: "Bookmark", Bookmark: &b}

	case "RemoveBookmark":
		if err := s.router.RemoveBookmark(req.ID); err != nil {
			return errorResponse(CodeInternal, err.Error())
		}
		return Response{Type: "OK"}

	case "Copy":
		if err := s.router.Copy(req.Content); err != nil {
			return errorResponse(CodeInternal, err.Error())
		}
		return Response{Type: "OK"}

	case "ClearHistory":
		s.router.ClearHistory()
		return Response{Type: "OK"}

	case "ShowSettings":
		if err := s.router.ShowSettings(); err != nil {
			return errorResponse(CodeInternal, err.Error())
		}
		return Response{Type: "OK"}

	default:
		log.Warn().Str("type", req.Type).Msg("bridge: unknown request type")
		return errorResponse(CodeUnknown, "unknown request type: "+req.Type)
	}
}

package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/dualscreen/internal/runtimepath"
	"github.com/1broseidon/dualscreen/internal/spanning"
)

// Controller is the daemon side of the protocol. Refresh, Pause, Resume and
// Reload are handed to the daemon's run loop and block until it answers.
type Controller interface {
	Last() (spanning.Event, bool)
	Constants() spanning.Constants
	Paused() bool
	EventsEmitted() uint64
	Refresh() (bool, error)
	Pause() error
	Resume() error
	Reload() error
}

// subscriberBuffer is how many undelivered events a slow subscriber may
// hold before further events are dropped for it.
const subscriberBuffer = 16

type subscriber struct {
	ch chan []byte
}

// Server handles IPC requests from clients and streams emitted events to
// SUBSCRIBE connections.
type Server struct {
	socketPath string
	listener   net.Listener
	ctrl       Controller
	startTime  time.Time

	subsMu  sync.Mutex
	subs    map[*subscriber]struct{}
	current []byte // last broadcast stream line

	done         chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

var _ spanning.EventSink = (*Server)(nil)

// NewServer creates a server on the default runtime socket path.
func NewServer(ctrl Controller) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, ctrl), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, ctrl Controller) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		startTime:  time.Now(),
		subs:       make(map[*subscriber]struct{}),
		done:       make(chan struct{}),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	if req.Command == CommandSubscribe {
		s.serveSubscriber(conn, reader)
		return
	}

	s.sendResponse(conn, s.handleCommand(req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	if s.ctrl == nil {
		return NewErrorResponse("daemon is not ready")
	}
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return s.handleGetState()
	case CommandGetConstants:
		resp, _ := NewOKResponse(s.ctrl.Constants())
		return resp
	case CommandRefresh:
		return s.handleRefresh()
	case CommandPause:
		return okOrError(s.ctrl.Pause(), "Failed to pause")
	case CommandResume:
		return okOrError(s.ctrl.Resume(), "Failed to resume")
	case CommandReload:
		log.Println("IPC: Received RELOAD command")
		return okOrError(s.ctrl.Reload(), "Failed to reload config")
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		DaemonRunning: true,
		Paused:        s.ctrl.Paused(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Subscribers:   s.Subscribers(),
		EventsEmitted: s.ctrl.EventsEmitted(),
	}
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetState() *Response {
	ev, ok := s.ctrl.Last()
	if !ok {
		return NewErrorResponse("no spanning state has been emitted yet")
	}
	resp, err := NewOKResponse(ev)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleRefresh() *Response {
	emitted, err := s.ctrl.Refresh()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Refresh failed: %v", err))
	}
	resp, _ := NewOKResponse(RefreshData{Emitted: emitted})
	return resp
}

func okOrError(err error, prefix string) *Response {
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s: %v", prefix, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// serveSubscriber acknowledges the subscription, replays the current event
// and then forwards broadcasts until the client disconnects or the server
// stops.
func (s *Server) serveSubscriber(conn net.Conn, reader *bufio.Reader) {
	sub := &subscriber{ch: make(chan []byte, subscriberBuffer)}

	s.subsMu.Lock()
	current := s.current
	s.subs[sub] = struct{}{}
	s.subsMu.Unlock()
	defer s.removeSubscriber(sub)

	if current == nil && s.ctrl != nil {
		if ev, ok := s.ctrl.Last(); ok {
			current, _ = encodeStreamLine(ev)
		}
	}

	resp, _ := NewOKResponse(nil)
	if !s.sendResponse(conn, resp) {
		return
	}
	if current != nil {
		if _, err := conn.Write(current); err != nil {
			return
		}
	}

	// Any read result (EOF included) means the client is gone.
	gone := make(chan struct{})
	go func() {
		io.Copy(io.Discard, reader)
		close(gone)
	}()

	for {
		select {
		case line := <-sub.ch:
			if _, err := conn.Write(line); err != nil {
				return
			}
		case <-gone:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Server) removeSubscriber(sub *subscriber) {
	s.subsMu.Lock()
	delete(s.subs, sub)
	s.subsMu.Unlock()
}

// Subscribers returns the number of open SUBSCRIBE connections.
func (s *Server) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

// Emit broadcasts ev to every subscriber without blocking.
func (s *Server) Emit(ev spanning.Event) {
	line, err := encodeStreamLine(ev)
	if err != nil {
		log.Printf("IPC: failed to encode event: %v", err)
		return
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.current = line
	for sub := range s.subs {
		select {
		case sub.ch <- line:
			continue
		default:
		}
		// Full: drop the oldest queued line so the newest state is delivered.
		select {
		case <-sub.ch:
			log.Printf("IPC: subscriber is not keeping up, dropping oldest event")
		default:
		}
		select {
		case sub.ch <- line:
		default:
		}
	}
}

// sendResponse writes resp as one line and reports whether it succeeded.
func (s *Server) sendResponse(conn net.Conn, resp *Response) bool {
	data, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return false
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		log.Printf("Failed to send response: %v", err)
		return false
	}
	return true
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

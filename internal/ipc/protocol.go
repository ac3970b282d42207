package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/dualscreen/internal/spanning"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetState     CommandType = "GET_STATE"
	CommandGetConstants CommandType = "GET_CONSTANTS"
	CommandRefresh      CommandType = "REFRESH"
	CommandPause        CommandType = "PAUSE"
	CommandResume       CommandType = "RESUME"
	CommandReload       CommandType = "RELOAD"
	// CommandSubscribe keeps the connection open and streams StreamMessage lines.
	CommandSubscribe CommandType = "SUBSCRIBE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	Paused        bool   `json:"paused"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Subscribers   int    `json:"subscribers"`
	EventsEmitted uint64 `json:"events_emitted"`
}

// RefreshData represents the data returned by REFRESH
type RefreshData struct {
	Emitted bool `json:"emitted"`
}

// StreamMessage is one line of a SUBSCRIBE stream.
type StreamMessage struct {
	Event string         `json:"event"`
	Data  spanning.Event `json:"data"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func encodeStreamLine(ev spanning.Event) ([]byte, error) {
	data, err := json.Marshal(StreamMessage{Event: spanning.EventName, Data: ev})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

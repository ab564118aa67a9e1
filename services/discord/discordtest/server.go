package discordtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Server records webhook posts so tests can assert on what a sender
// dispatched. Received requests are also delivered on a channel, which
// lets tests synchronize with fire-and-forget senders.
type Server struct {
	ts  *httptest.Server
	URL string

	mu       sync.Mutex
	requests []Request
	code     int
	body     string
	closed   bool

	received chan Request
}

func NewServer() *Server {
	s := &Server{
		code:     http.StatusNoContent,
		received: make(chan Request, 64),
	}
	ts := httptest.NewServer(http.HandlerFunc(s.handle))
	s.ts = ts
	s.URL = ts.URL
	return s
}

type Request struct {
	URL         string
	ContentType string
	PostData    PostData
}

type PostData struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	req := Request{
		URL:         r.URL.String(),
		ContentType: r.Header.Get("Content-Type"),
	}
	_ = json.NewDecoder(r.Body).Decode(&req.PostData)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	code, body := s.code, s.body
	s.mu.Unlock()

	w.WriteHeader(code)
	if body != "" {
		w.Write([]byte(body))
	}

	select {
	case s.received <- req:
	default:
	}
}

// SetResponse makes the server answer subsequent posts with the given
// status and body, for exercising failure paths.
func (s *Server) SetResponse(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.code = code
	s.body = body
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Received returns the channel on which recorded requests are delivered.
func (s *Server) Received() <-chan Request {
	return s.received
}

func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.ts.Close()
}

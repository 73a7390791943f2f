package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sells-group/datextract/internal/model"
)

// streamMessage is one server-to-client websocket frame: an annotation, an
// error, or the end-of-document marker.
type streamMessage struct {
	Annotation *model.DateAnnotation `json:"annotation,omitempty"`
	Error      string                `json:"error,omitempty"`
	Done       bool                  `json:"done,omitempty"`
	Count      int                   `json:"count,omitempty"`
}

// handleStream upgrades to a websocket. Each text frame is a document: either
// a JSON annotateRequest or raw text. Annotations are sent as they are found,
// followed by {"done":true}.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return s.originAllowed(r.Header.Get("Origin")) },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("server: websocket upgrade failed", zap.Error(err))
		return
	}
	if !s.track(conn) {
		conn.Close() //nolint:errcheck
		return
	}
	defer s.untrack(conn)
	conn.SetReadLimit(s.opts.MaxBodyBytes)

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("server: websocket read", zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			if err := s.send(conn, streamMessage{Error: "expected a text message", Done: true}); err != nil {
				return
			}
			continue
		}
		if err := s.streamDocument(conn, msg); err != nil {
			s.log.Debug("server: websocket write", zap.Error(err))
			return
		}
	}
}

func (s *Server) streamDocument(conn *websocket.Conn, msg []byte) error {
	req := decodeStreamRequest(msg)
	if req.Text == "" {
		return s.send(conn, streamMessage{Error: "text is required", Done: true})
	}
	p, err := s.params(req)
	if err != nil {
		return s.send(conn, streamMessage{Error: err.Error(), Done: true})
	}

	n := 0
	for ann := range s.ext.Annotations(req.Text, p) {
		if err := s.send(conn, streamMessage{Annotation: &ann}); err != nil {
			return err
		}
		n++
	}
	return s.send(conn, streamMessage{Done: true, Count: n})
}

// send writes one frame, giving up after the configured write timeout.
func (s *Server) send(conn *websocket.Conn, m streamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(m)
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.streams[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.streams, conn)
	s.mu.Unlock()
	conn.Close() //nolint:errcheck
}

// CloseStreams sends a going-away close frame to every open websocket and
// closes it. Streams opened afterwards are closed on upgrade. Hijacked
// connections are not closed by http.Server.Shutdown, so register this with
// RegisterOnShutdown.
func (s *Server) CloseStreams() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*websocket.Conn, 0, len(s.streams))
	for c := range s.streams {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.Close() //nolint:errcheck
	}
	if len(conns) > 0 {
		s.log.Info("server: closed websocket streams", zap.Int("count", len(conns)))
	}
}

// decodeStreamRequest treats a frame that is a JSON object as a request and
// anything else as the document text.
func decodeStreamRequest(msg []byte) annotateRequest {
	trimmed := strings.TrimSpace(string(msg))
	if strings.HasPrefix(trimmed, "{") {
		var req annotateRequest
		if err := json.Unmarshal(msg, &req); err == nil {
			return req
		}
	}
	return annotateRequest{Text: string(msg)}
}

package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/dgallion1/argus/internal/render"
	"github.com/dgallion1/argus/internal/workspace"
	"github.com/gorilla/websocket"
)

// liveMessage is a client frame on the live socket.
type liveMessage struct {
	Type     string `json:"type"` // "document" or "locate"
	HTML     string `json:"html,omitempty"`
	EditorID string `json:"editor_id,omitempty"`
}

// liveFrame is a server frame on the live socket.
type liveFrame struct {
	Type      string            `json:"type"` // "pass", "highlight" or "error"
	Pass      int               `json:"pass,omitempty"`
	HTML      string            `json:"html,omitempty"`
	Found     bool              `json:"found,omitempty"`
	Highlight *render.Highlight `json:"highlight,omitempty"`
	Error     string            `json:"error,omitempty"`
}

const liveWriteTimeout = 10 * time.Second

// handleLive streams the rendered map after every settled pass. Clients
// send document edits and locate requests on the same socket.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspaceFor(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	log := s.log.With("workspace_id", ws.ID)

	updates, unsubscribe := ws.Subscribe()
	defer unsubscribe()

	var writeMu sync.Mutex
	send := func(f liveFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		return conn.WriteJSON(f)
	}

	res := ws.Result()
	if err := send(liveFrame{Type: "pass", Pass: res.Pass, HTML: res.HTML}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readLive(conn, ws, send)
	}()

	for {
		select {
		case <-done:
			return
		case res, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "workspace closed"),
					time.Now().Add(time.Second))
				return
			}
			if err := send(liveFrame{Type: "pass", Pass: res.Pass, HTML: res.HTML}); err != nil {
				log.Debug("live write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) readLive(conn *websocket.Conn, ws *workspace.Workspace, send func(liveFrame) error) {
	conn.SetReadLimit(s.cfg.MaxUploadBytes)
	for {
		var msg liveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "document":
			if err := ws.Update(msg.HTML); err != nil {
				send(liveFrame{Type: "error", Error: err.Error()})
			}
		case "locate":
			h, found := ws.Locate(msg.EditorID)
			f := liveFrame{Type: "highlight", Found: found}
			if found {
				f.Highlight = &h
			}
			send(f)
		default:
			send(liveFrame{Type: "error", Error: "unknown message type: " + msg.Type})
		}
	}
}

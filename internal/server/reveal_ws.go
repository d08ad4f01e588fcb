package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/hazyhaar/colorpaps/internal/reveal"
	"github.com/hazyhaar/colorpaps/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	// The site is served from the same origin; the API carries no
	// credentials, so cross-origin dials only ever see public catalog data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// revealOp is a client → server control message.
type revealOp struct {
	Op string `json:"op"` // start | cancel
}

// revealMsg is a server → client message. For "frame" messages Cells holds
// interleaved x,y pairs of the cells cleared this frame.
type revealMsg struct {
	Type       string  `json:"type"` // started | frame | cancelled | error
	TotalCells int     `json:"total_cells,omitempty"`
	Target     int     `json:"target,omitempty"`
	Cells      []int   `json:"cells,omitempty"`
	Progress   float64 `json:"progress"`
	Displayed  int     `json:"displayed"`
	Done       bool    `json:"done,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// revealConn serializes writes to one websocket. Frames come from the
// session goroutine while control acknowledgements come from the read loop.
type revealConn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *revealConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

// handleReveal runs reveal sessions for one artwork over a websocket.
//
// The client dials /ws/reveal?artwork=<id>, waits for its preview image to
// finish loading, then sends {"op":"start"} — that send is the asset
// readiness signal; starting earlier would reveal cells over a blank image.
// The server answers "started", a stream of "frame" messages, and marks the
// final frame done. {"op":"cancel"}, a second "start", or closing the
// socket cancels the in-flight session; the next session always begins with
// a fresh permutation.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	artworkID := r.URL.Query().Get("artwork")
	if artworkID == "" {
		writeError(w, http.StatusBadRequest, "missing artwork parameter")
		return
	}
	art, err := s.store.GetArtwork(r.Context(), artworkID)
	if err != nil {
		s.logger.Error("artwork lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if art == nil {
		writeError(w, http.StatusNotFound, "artwork not found")
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn := &revealConn{ws: ws}
	log := s.logger.With("artwork", art.ID)

	var (
		cancel  context.CancelFunc
		running sync.WaitGroup
	)
	stop := func() {
		if cancel != nil {
			cancel()
			running.Wait()
			cancel = nil
		}
	}
	defer stop()

	for {
		var op revealOp
		if err := ws.ReadJSON(&op); err != nil {
			return
		}
		switch op.Op {
		case "start":
			stop()
			ctx, c := context.WithCancel(r.Context())
			cancel = c
			running.Add(1)
			go func() {
				defer running.Done()
				s.runReveal(ctx, conn, art, log)
			}()
		case "cancel":
			stop()
			conn.writeJSON(revealMsg{Type: "cancelled"})
		default:
			conn.writeJSON(revealMsg{Type: "error", Error: "unknown op"})
		}
	}
}

// runReveal owns one session from cover to completion, as the sole writer
// of its frames.
func (s *Server) runReveal(ctx context.Context, conn *revealConn, art *store.Artwork, log *slog.Logger) {
	canvas := reveal.NewCanvas(s.cfg.Reveal.CanvasWidth, s.cfg.Reveal.CanvasHeight)
	session := reveal.NewSession(canvas)
	target := reveal.TargetTotal(art.Count, art.TotalAvailable)
	session.Start(target)

	if err := conn.writeJSON(revealMsg{
		Type:       "started",
		TotalCells: session.TotalCells(),
		Target:     target,
	}); err != nil {
		return
	}

	// A degenerate surface completes inside Start; the client still needs
	// its terminal frame.
	if session.State() == reveal.StateComplete {
		conn.writeJSON(revealMsg{
			Type:      "frame",
			Progress:  1,
			Displayed: session.Displayed(),
			Done:      true,
		})
		return
	}

	driver := &reveal.Driver{Interval: s.cfg.Reveal.FrameInterval}
	err := driver.Run(ctx, session, func(f reveal.Frame) error {
		cells := make([]int, 0, len(f.Cells)*2)
		for _, c := range f.Cells {
			cells = append(cells, c.X, c.Y)
		}
		return conn.writeJSON(revealMsg{
			Type:      "frame",
			Cells:     cells,
			Progress:  f.Progress,
			Displayed: f.Displayed,
			Done:      f.Done,
		})
	})
	switch {
	case err == nil:
		log.Debug("reveal complete", "target", target)
	case errors.Is(err, context.Canceled):
		conn.writeJSON(revealMsg{Type: "cancelled"})
	default:
		log.Debug("reveal stream ended", "error", err)
	}
}

package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/heatsim/internal/heat"
)

// Server streams simulation runs to websocket clients on /ws. Every
// connection gets its own run.
type Server struct {
	sim      *heat.Simulation
	fps      int
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// NewServer returns a Server for sim paced at fps frames per second.
// fps <= 0 sends frames as fast as the client reads them.
func NewServer(sim *heat.Simulation, fps int, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		sim: sim,
		fps: fps,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Handler returns the HTTP handler serving /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

// ListenAndServe serves Handler on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", addr).Info("stream server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	h := newHub(s, conn, s.log.WithField("remote", r.RemoteAddr))
	h.log.Info("client connected")
	h.readLoop()
	h.log.Info("client disconnected")
}

// hub owns one connection and at most one running simulation.
type hub struct {
	s    *Server
	conn *websocket.Conn
	log  logrus.FieldLogger

	writeMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newHub(s *Server, conn *websocket.Conn, log logrus.FieldLogger) *hub {
	return &hub{s: s, conn: conn, log: log}
}

func (h *hub) readLoop() {
	defer func() {
		h.stop()
		h.wg.Wait()
		h.conn.Close()
	}()

	for {
		var msg Msg
		if err := h.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("read failed")
			}
			return
		}

		switch msg.Type {
		case TypeStart:
			if !h.start() {
				h.write(Msg{Type: TypeError, Content: "already running"})
			}
		case TypeStop:
			h.stop()
			h.wg.Wait()
			h.write(Msg{Type: TypeStopped})
		default:
			h.log.WithField("type", msg.Type).Warn("unknown message type")
			h.write(Msg{Type: TypeError, Content: "unknown message type: " + msg.Type})
		}
	}
}

func (h *hub) start() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.write(Msg{Type: TypeStarted})
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.run(ctx)
		h.mu.Lock()
		h.cancel = nil
		h.mu.Unlock()
		cancel()
	}()
	return true
}

func (h *hub) stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
}

func (h *hub) run(ctx context.Context) {
	var tick <-chan time.Time
	if h.s.fps > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(h.s.fps))
		defer ticker.Stop()
		tick = ticker.C
	}

	sent := 0
	err := h.s.sim.RunContext(ctx, func(step int, elapsed float64, f *heat.Field) bool {
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return false
			}
		}
		frame := Frame{Type: TypeFrame, Step: step, Time: elapsed, N: f.N(), Values: f.Values()}
		if err := h.write(frame); err != nil {
			return false
		}
		sent++
		return true
	})
	if err != nil && err != context.Canceled {
		h.write(Msg{Type: TypeError, Content: err.Error()})
		return
	}

	h.log.WithFields(logrus.Fields{"steps": sent, "total": h.s.sim.Steps()}).Debug("run finished")
	h.write(Done{Type: TypeDone, Steps: sent})
}

func (h *hub) write(v interface{}) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if err := h.conn.WriteJSON(v); err != nil {
		h.log.WithError(err).Debug("write failed")
		return err
	}
	return nil
}

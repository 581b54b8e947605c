package progress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait        = 1 * time.Second
	pubResolution    = 100 * time.Millisecond
	pingResolution   = 500 * time.Millisecond
	pongWait         = pingResolution * 4
	closeGracePeriod = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ErrPongDeadlineExceeded signals the peer stopped answering pings.
var ErrPongDeadlineExceeded = errors.New("progress: client disconnect, pong deadline exceeded")

// Server serves a small status page and a websocket endpoint that streams
// Hub snapshots to connected clients.
type Server struct {
	addr string
	hub  *Hub
	mux  *mux.Router
}

// NewServer returns a Server backed by hub, listening at addr (e.g. ":8080").
func NewServer(addr string, hub *Hub) *Server {
	s := &Server{addr: addr, hub: hub, mux: mux.NewRouter()}
	s.mux.HandleFunc("/healthz", s.serveHealth).Methods(http.MethodGet)
	s.mux.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.mux.HandleFunc("/ws", s.serveWebsocket).Methods(http.MethodGet)
	return s
}

// Handler returns s's routed http.Handler, for embedding in another server
// or exercising directly in tests.
func Handler(s *Server) http.Handler {
	return s.mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.mux}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return group.Wait()
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = fmt.Fprint(w, indexHTML)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer closeWebsocket(ws)

	updates, initial, cancel := s.hub.Subscribe()
	defer cancel()

	client := &wsClient{ws: ws, updates: updates, initial: initial, rootCtx: r.Context()}
	_ = client.sync()
}

// wsClient publishes Hub snapshots to one connected websocket peer: a read
// pump to drive ping/pong control frames, a ping loop enforcing a liveness
// deadline, and a publish loop that writes snapshots, run together under an
// errgroup.
type wsClient struct {
	ws      *websocket.Conn
	updates <-chan Snapshot
	initial Snapshot
	rootCtx context.Context
}

func (c *wsClient) sync() error {
	group, ctx := errgroup.WithContext(c.rootCtx)

	group.Go(func() error { return c.readMessages(ctx) })
	group.Go(func() error { return c.pingPong(ctx) })
	group.Go(func() error { return c.publish(ctx) })

	return group.Wait()
}

func (c *wsClient) readMessages(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if _, _, err := c.ws.ReadMessage(); err != nil {
				return err
			}
		}
	}
}

func (c *wsClient) pingPong(ctx context.Context) error {
	pong := make(chan struct{}, 1)
	c.ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return ErrPongDeadlineExceeded
			}
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (c *wsClient) publish(ctx context.Context) error {
	if err := c.write(c.initial); err != nil {
		return err
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-c.updates:
			if !ok {
				return nil
			}
			if time.Since(last) < pubResolution {
				continue
			}
			last = time.Now()
			if err := c.write(snap); err != nil {
				return err
			}
		}
	}
}

func (c *wsClient) write(snap Snapshot) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(snap)
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}

const indexHTML = `<!DOCTYPE html>
<html><head><title>mapinfer progress</title></head>
<body>
<pre id="out">connecting...</pre>
<script>
const out = document.getElementById("out");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => { out.textContent = JSON.stringify(JSON.parse(ev.data), null, 2); };
ws.onclose = () => { out.textContent += "\n(disconnected)"; };
</script>
</body></html>`

// Package stream serves live particle frames over websockets.
//
// Every client connecting to /ws gets its own system, built from the server
// config, and receives one JSON [Frame] per tick at the configured FPS.
// Clients may send the text commands "pause", "resume" and "reset".
package stream

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/partisim/internal/config"
	"github.com/san-kum/partisim/internal/particle"
)

const writeWait = 2 * time.Second

type Particle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Hue    float64 `json:"hue"`
}

type Frame struct {
	Tick      uint64     `json:"tick"`
	Particles []Particle `json:"particles"`
}

// FrameOf converts the live state of sys into a wire frame.
func FrameOf(sys *particle.System) Frame {
	f := Frame{Tick: sys.Tick(), Particles: make([]Particle, sys.Count())}
	for i := range f.Particles {
		p := sys.At(i)
		f.Particles[i] = Particle{X: p.X, Y: p.Y, Radius: p.Radius, Hue: p.Hue}
	}
	return f
}

type Server struct {
	cfg      config.Config
	upgrader websocket.Upgrader
	clients  atomic.Int64

	done     chan struct{}
	doneOnce sync.Once
}

func New(cfg *config.Config) *Server {
	return &Server{
		cfg: *cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		done: make(chan struct{}),
	}
}

// Clients reports how many websocket clients are currently streaming.
func (s *Server) Clients() int { return int(s.clients.Load()) }

// Close stops every open stream. It is safe to call more than once.
func (s *Server) Close() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		log.Printf("streaming %d particles on ws://%s/ws", s.cfg.Count, addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}
	defer conn.Close()

	s.clients.Add(1)
	defer s.clients.Add(-1)

	commands := make(chan string, 8)
	closed := make(chan struct{})
	go readSocket(conn, commands, closed)

	s.stream(conn, commands, closed)
}

// readSocket forwards client commands until the connection drops.
func readSocket(conn *websocket.Conn, commands chan<- string, closed chan<- struct{}) {
	defer close(closed)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}
		select {
		case commands <- string(msg):
		default:
		}
	}
}

func (s *Server) stream(conn *websocket.Conn, commands <-chan string, closed <-chan struct{}) {
	sys := s.cfg.NewSystem()
	running := true

	fps := max(s.cfg.FPS, 1)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	if err := send(conn, sys); err != nil {
		log.Println(err)
		return
	}

	for {
		select {
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-closed:
			return
		case cmd := <-commands:
			switch cmd {
			case "pause":
				running = false
			case "resume":
				running = true
			case "reset":
				sys = s.cfg.NewSystem()
				if err := send(conn, sys); err != nil {
					log.Println(err)
					return
				}
			}
		case <-ticker.C:
			if !running {
				continue
			}
			if s.cfg.Parallel {
				sys.UpdateParallel(1024)
			} else {
				sys.Update()
			}
			if err := send(conn, sys); err != nil {
				log.Println(err)
				return
			}
		}
	}
}

func send(conn *websocket.Conn, sys *particle.System) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(FrameOf(sys))
}

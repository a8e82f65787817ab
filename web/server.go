// Package web exposes the emulator over HTTP: the framebuffer and
// keypad travel over websockets, and plain endpoints control execution.
package web

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server implements ocho.Frontend for browser clients. A single
// display socket receives framebuffer frames, a keypad socket feeds
// key state back, and /start /stop /reset /step control the emulator.
type Server struct {
	emu    *ocho.Emulator
	logger *log.Logger
	ctx    context.Context

	debugger *Debugger

	wsMutex sync.RWMutex
	socket  *websocket.Conn

	keyMutex sync.RWMutex
	keys     [16]bool
}

type ServerConfig struct {
	UseDebugger bool
}

type ServerConfigCb func(config *ServerConfig)

func WithDebugger() ServerConfigCb {
	return func(config *ServerConfig) {
		config.UseDebugger = true
	}
}

func NewServer(ctx context.Context, logger *log.Logger, configs ...ServerConfigCb) *Server {
	config := &ServerConfig{}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		logger: logger,
		ctx:    ctx,
	}
	if config.UseDebugger {
		s.debugger = NewDebugger(logger)
	}

	return s
}

// Attach hands the server the emulator it controls. The emulator
// starts paused so a client can connect before the program runs; the
// debugger, when enabled, registers its hook here.
func (s *Server) Attach(emu *ocho.Emulator) {
	s.emu = emu
	s.emu.Pause()
	if s.debugger != nil {
		s.debugger.Attach(emu)
	}
}

// Listen serves the control and websocket endpoints. It blocks until
// the context is cancelled or the listener fails.
func (s *Server) Listen(port int) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/start", s.controlHandler("starting", s.emu.Resume))
	mux.HandleFunc("/stop", s.controlHandler("stopping", s.emu.Pause))
	mux.HandleFunc("/reset", s.controlHandler("resetting", func() {
		s.emu.Pause()
		// Reset mutates machine state, so it runs on the emulation
		// goroutine rather than on this handler.
		s.emu.Schedule(s.emu.Reset)
	}))
	mux.HandleFunc("/step", func(w http.ResponseWriter, r *http.Request) {
		setControlHeaders(w)
		if !s.emu.Paused() {
			http.Error(w, "emulator is running", http.StatusConflict)
			return
		}

		// Execution happens on the emulation goroutine; the handler
		// only waits for the outcome.
		done := make(chan error, 1)
		if !s.emu.Schedule(func() { done <- s.emu.Execute() }) {
			http.Error(w, "control queue is full", http.StatusServiceUnavailable)
			return
		}
		select {
		case err := <-done:
			if err != nil {
				s.logger.Error("single step failed", log.Err(err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case <-r.Context().Done():
		}
	})
	mux.HandleFunc("/display", s.displayHandler)
	mux.HandleFunc("/keypad", s.keypadHandler)
	if s.debugger != nil {
		mux.HandleFunc("/debugger", s.debugger.handler)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		<-s.ctx.Done()
		_ = httpServer.Close()
	}()

	s.logger.Info("listening", log.Int("port", port))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) controlHandler(action string, fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setControlHeaders(w)
		s.logger.Info(action)
		fn()
	}
}

func setControlHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache")
}

func (s *Server) displayHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("display upgrade failed", log.Err(err))
		return
	}
	defer conn.Close()

	s.logger.Info("display client connected")
	s.setWs(conn)
	defer s.unsetWs()

	<-r.Context().Done()
	s.logger.Info("display client disconnected")
}

func (s *Server) setWs(conn *websocket.Conn) {
	s.wsMutex.Lock()
	s.socket = conn
	s.wsMutex.Unlock()
}

func (s *Server) unsetWs() {
	s.wsMutex.Lock()
	s.socket = nil
	s.wsMutex.Unlock()
}

// keypadHandler reads two-byte key events: the key value followed by
// its state, zero for released and anything else for held.
func (s *Server) keypadHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("keypad upgrade failed", log.Err(err))
		return
	}
	defer conn.Close()

	s.logger.Info("keypad client connected")
	defer s.releaseKeys()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info("keypad client disconnected")
			return
		}
		if len(msg) != 2 || msg[0] > 15 {
			continue
		}

		s.keyMutex.Lock()
		s.keys[msg[0]] = msg[1] != 0
		s.keyMutex.Unlock()
	}
}

// A disappearing client must not leave keys stuck down.
func (s *Server) releaseKeys() {
	s.keyMutex.Lock()
	s.keys = [16]bool{}
	s.keyMutex.Unlock()
}

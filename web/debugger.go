package web

import (
	"net/http"

	"github.com/retroenv/retrogolib/log"

	"github.com/guslan/ocho"
)

// Debugger streams a JSON machine snapshot to a websocket client after
// every executed instruction. Meant to be driven step by step through
// the /step endpoint.
type Debugger struct {
	logger *log.Logger
	send   chan ocho.Snapshot
}

func NewDebugger(logger *log.Logger) *Debugger {
	return &Debugger{
		logger: logger,
		send:   make(chan ocho.Snapshot, 16),
	}
}

// Attach registers the snapshot hook on the emulator.
func (d *Debugger) Attach(emu *ocho.Emulator) {
	emu.AddAfterStepHook(d.afterStep)
}

// afterStep forwards a snapshot without ever blocking the run loop. If
// no client is draining the channel, snapshots are dropped.
func (d *Debugger) afterStep(e *ocho.Emulator) {
	select {
	case d.send <- e.Snapshot():
	default:
	}
}

func (d *Debugger) handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Error("debugger upgrade failed", log.Err(err))
		return
	}
	defer conn.Close()

	d.logger.Info("debugger client connected")

	for {
		select {
		case snapshot := <-d.send:
			if err := conn.WriteJSON(snapshot); err != nil {
				d.logger.Info("debugger client disconnected")
				return
			}
		case <-r.Context().Done():
			d.logger.Info("debugger client disconnected")
			return
		}
	}
}

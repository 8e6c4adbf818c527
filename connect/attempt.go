package connect

import (
	"net"
	"sync/atomic"

	"github.com/fzft/go-connecter/log"
	"go.uber.org/zap"
)

// Outcome is the completion state of an attempt. It moves from Pending
// to exactly one of the terminal values and never changes again.
type Outcome int32

const (
	Pending Outcome = iota
	Connected
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Connected:
		return "connected"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Attempt is one in-flight outbound connection.
//
// Field ownership is strict and lock-free: the worker goroutine is the
// only writer of conn and outcome, the registry (main-loop goroutine)
// is the only writer of killed. The registry reads conn only after it
// has loaded a terminal outcome, so the atomic store in run is the
// publication point for conn.
type Attempt struct {
	addr        Address
	conn        net.Conn
	outcome     atomic.Int32
	killed      atomic.Bool
	onConnected func(net.Conn)
	onFailed    func()
}

func (a *Attempt) Addr() Address { return a.addr }

func (a *Attempt) Outcome() Outcome { return Outcome(a.outcome.Load()) }

func (a *Attempt) Killed() bool { return a.killed.Load() }

// run is the worker body: one blocking resolve+dial, then a one-shot
// terminal outcome store. It runs exactly once per attempt, either on a
// worker goroutine or inline on the caller when no worker could be
// spawned, and never touches the attempt again after the store.
func (a *Attempt) run(c Connector) {
	conn, err := c.Connect(a.addr)
	if err != nil {
		log.Logger.Debug("connect failed",
			zap.String("addr", a.addr.String()), zap.Error(err))
		a.outcome.Store(int32(Aborted))
		return
	}
	a.conn = conn
	a.outcome.Store(int32(Connected))
}

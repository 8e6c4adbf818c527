package connect

import (
	"net"

	"github.com/fzft/go-connecter/log"
	"go.uber.org/zap"
)

// Spawner starts independent execution of a worker task, reporting
// whether it managed to. Create falls back to running the task inline
// when the spawner refuses.
type Spawner func(task func()) bool

// GoSpawner runs the task on a new goroutine. Spawning a goroutine
// cannot fail short of running the process out of memory, so it always
// reports success.
func GoSpawner(task func()) bool {
	go task()
	return true
}

// Registry tracks every in-flight attempt and reaps finished ones on
// each Poll. It is not safe for concurrent use: Create, Poll, KillAll
// and Len must all be called from the same (main-loop) goroutine. Only
// the attempts' own fields cross goroutines, never the registry slice.
type Registry struct {
	connector Connector
	spawn     Spawner
	attempts  []*Attempt
}

func NewRegistry(connector Connector) *Registry {
	return &Registry{
		connector: connector,
		spawn:     GoSpawner,
	}
}

// SetSpawner replaces the worker-spawning primitive. Call before the
// first Create.
func (r *Registry) SetSpawner(s Spawner) {
	r.spawn = s
}

// Create registers an attempt for addr and starts its worker. If no
// worker can be spawned the dial runs synchronously here, so in that
// degraded mode Create blocks for the full resolve+dial and the
// attempt is already terminal when it returns. Either way the attempt
// is live in the registry and its callbacks fire from a later Poll.
func (r *Registry) Create(addr Address, onConnected func(net.Conn), onFailed func()) *Attempt {
	a := &Attempt{
		addr:        addr,
		onConnected: onConnected,
		onFailed:    onFailed,
	}
	r.attempts = append(r.attempts, a)
	if !r.spawn(func() { a.run(r.connector) }) {
		log.Logger.Warn("no worker available, dialing on caller",
			zap.String("addr", addr.String()))
		a.run(r.connector)
	}
	return a
}

// Poll reaps every attempt that has reached a terminal outcome, in
// registry order. Killed attempts are closed and dropped silently;
// live ones get exactly one callback, with ownership of the conn
// passing to onConnected. Pending attempts are left alone, killed or
// not. Callbacks may Create new attempts; they join the tail of the
// same scan.
func (r *Registry) Poll() {
	for i := 0; i < len(r.attempts); {
		a := r.attempts[i]
		outcome := a.Outcome()
		if outcome == Pending {
			i++
			continue
		}
		r.attempts = append(r.attempts[:i], r.attempts[i+1:]...)
		if a.killed.Load() {
			if a.conn != nil {
				a.conn.Close()
			}
			log.Logger.Debug("reaped killed attempt",
				zap.String("addr", a.addr.String()),
				zap.Stringer("outcome", outcome))
			continue
		}
		if outcome == Connected {
			a.onConnected(a.conn)
		} else {
			a.onFailed()
		}
	}
}

// KillAll marks every registered attempt so its eventual outcome is
// discarded without a callback. It does not close sockets, interrupt
// workers, or shrink the registry; reaping still happens through Poll
// as each worker finishes. Full drain is therefore bounded by the dial
// timeout of the slowest in-flight attempt, not by this call.
func (r *Registry) KillAll() {
	for _, a := range r.attempts {
		a.killed.Store(true)
	}
}

// Len reports the number of live attempts, terminal-but-unreaped ones
// included.
func (r *Registry) Len() int {
	return len(r.attempts)
}

// Pending returns the addresses of attempts still waiting on their
// worker, in registry order.
func (r *Registry) Pending() []Address {
	var addrs []Address
	for _, a := range r.attempts {
		if a.Outcome() == Pending {
			addrs = append(addrs, a.addr)
		}
	}
	return addrs
}

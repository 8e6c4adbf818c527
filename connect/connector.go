package connect

import (
	"net"
	"time"

	"github.com/fzft/go-connecter/log"
	"go.uber.org/zap"
)

// Connector performs the blocking resolve+dial for one address. It may
// block for an OS-dependent duration and offers no way to be
// interrupted once started; callers run it off the main loop.
type Connector interface {
	Connect(addr Address) (net.Conn, error)
}

// NetConnector dials over the real network stack.
type NetConnector struct {
	// Timeout bounds a single dial, resolution included. Zero means
	// whatever the OS enforces, which can be minutes.
	Timeout time.Duration
}

func (c *NetConnector) Connect(addr Address) (net.Conn, error) {
	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.Dial("tcp", addr.String())
	if err != nil {
		return nil, err
	}
	if err := tuneConn(conn); err != nil {
		log.Logger.Warn("socket tuning failed",
			zap.String("addr", addr.String()), zap.Error(err))
	}
	return conn, nil
}

// Package connect establishes outbound TCP connections without ever
// blocking the caller's main loop. Each Create hands the slow
// resolve+dial to a worker goroutine; a per-tick Poll on the registry
// notices finished attempts and delivers their outcome exactly once,
// on the main-loop goroutine. KillAll turns shutdown into silence:
// marked attempts are reaped without callbacks once their worker
// finishes, since the blocking dial itself cannot be interrupted.
package connect

import (
	"fmt"
	"net"
	"strconv"
)

// Address is the target of one outbound connection: a host (name or
// literal IP) and a port. It is immutable once an attempt is created
// for it; resolution happens inside the Connector at dial time.
type Address struct {
	Host string
	Port uint16
}

// ParseAddress parses a "host:port" string. The host may be a name, an
// IPv4 literal, or a bracketed IPv6 literal.
func ParseAddress(s string) (Address, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Address{}, err
	}
	if host == "" {
		return Address{}, fmt.Errorf("address %q: empty host", s)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("address %q: bad port: %w", s, err)
	}
	return Address{Host: host, Port: uint16(port)}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

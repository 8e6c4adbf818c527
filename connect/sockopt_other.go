//go:build !linux && !darwin
// +build !linux,!darwin

package connect

import "net"

func tuneConn(conn net.Conn) error {
	return nil
}

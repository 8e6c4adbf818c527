package connect

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetConnectorDialsLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	addr, err := ParseAddress(ln.Addr().String())
	require.NoError(t, err)

	c := &NetConnector{Timeout: 2 * time.Second}
	conn, err := c.Connect(addr)
	require.NoError(t, err)
	assert.NotNil(t, conn)
	conn.Close()
}

func TestNetConnectorReportsRefusal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr, err := ParseAddress(ln.Addr().String())
	require.NoError(t, err)
	ln.Close()

	c := &NetConnector{Timeout: 2 * time.Second}
	conn, err := c.Connect(addr)
	assert.Error(t, err)
	assert.Nil(t, conn)
}

package loop

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/fzft/go-connecter/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnector struct {
	err     error
	release chan struct{}
}

func (c *stubConnector) Connect(addr connect.Address) (net.Conn, error) {
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	client, _ := net.Pipe()
	return client, nil
}

func TestSubmitRunsOnLoop(t *testing.T) {
	r := NewRunner(connect.NewRegistry(&stubConnector{}), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	require.True(t, r.Submit(func() { close(ran) }))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("submitted task never ran")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestShutdownWaitsForInflightDial(t *testing.T) {
	stub := &stubConnector{release: make(chan struct{})}
	registry := connect.NewRegistry(stub)
	r := NewRunner(registry, time.Millisecond)
	r.SetDrainTimeout(5 * time.Second)

	created := make(chan struct{})
	require.True(t, r.Submit(func() {
		registry.Create(connect.Address{Host: "127.0.0.1", Port: 7000},
			func(conn net.Conn) { t.Error("killed attempt notified") },
			func() { t.Error("killed attempt notified") })
		close(created)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	<-created
	cancel()

	// Drain cannot finish while the dial is blocked.
	select {
	case err := <-done:
		t.Fatalf("run returned before the worker finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(stub.release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after the worker finished")
	}
}

func TestShutdownGivesUpAtDrainDeadline(t *testing.T) {
	stub := &stubConnector{release: make(chan struct{})}
	registry := connect.NewRegistry(stub)
	r := NewRunner(registry, time.Millisecond)
	r.SetDrainTimeout(30 * time.Millisecond)

	created := make(chan struct{})
	require.True(t, r.Submit(func() {
		registry.Create(connect.Address{Host: "127.0.0.1", Port: 7001},
			func(net.Conn) {}, func() {})
		close(created)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	<-created
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, ErrDrainTimeout))
	case <-time.After(time.Second):
		t.Fatal("run did not give up at the drain deadline")
	}
	close(stub.release)
}

func TestSubmitAfterQueueFull(t *testing.T) {
	// Never started, so nothing consumes the queue.
	r := NewRunner(connect.NewRegistry(&stubConnector{}), time.Millisecond)
	for i := 0; i < 64; i++ {
		require.True(t, r.Submit(func() {}))
	}
	assert.False(t, r.Submit(func() {}), "full queue must refuse work, not block")
}

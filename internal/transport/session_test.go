package transport

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingSource struct {
	connects    int
	disconnects int
	connectErr  error
	fetchErr    error
	payload     []byte
}

func (c *countingSource) Connect(context.Context) error {
	if c.connectErr != nil {
		return c.connectErr
	}
	c.connects++
	return nil
}

func (c *countingSource) FetchFile(_ context.Context, path string) ([]byte, error) {
	if c.fetchErr != nil {
		return nil, &TransferError{Path: path, Cause: c.fetchErr}
	}
	return c.payload, nil
}

func (c *countingSource) Disconnect() error {
	c.disconnects++
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	src := &countingSource{payload: []byte("data")}
	session := NewSession(src, nil)

	if session.State() != StateDisconnected {
		t.Fatalf("new session should be disconnected, got %s", session.State())
	}
	if _, err := session.Fetch(context.Background(), "/a.xlsx"); err == nil {
		t.Fatalf("fetch before connect must fail")
	}

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if session.State() != StateReady {
		t.Fatalf("expect ready, got %s", session.State())
	}

	data, err := session.Fetch(context.Background(), "/a.xlsx")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("unexpected payload %q", data)
	}

	session.Disconnect()
	if session.State() != StateDisconnected {
		t.Fatalf("expect disconnected, got %s", session.State())
	}
}

func TestSessionReconnectClosesOldConnection(t *testing.T) {
	src := &countingSource{}
	session := NewSession(src, nil)

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("first connect failed: %v", err)
	}
	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("second connect failed: %v", err)
	}
	if src.connects != 2 {
		t.Fatalf("expect 2 connects, got %d", src.connects)
	}
	if src.disconnects != 1 {
		t.Fatalf("reconnect must close old connection once, got %d", src.disconnects)
	}
}

func TestSessionDisconnectIsIdempotent(t *testing.T) {
	src := &countingSource{}
	session := NewSession(src, nil)

	session.Disconnect()
	session.Disconnect()
	if src.disconnects != 0 {
		t.Fatalf("disconnect without session must be a no-op, got %d", src.disconnects)
	}

	if err := session.Connect(context.Background()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	session.Disconnect()
	session.Disconnect()
	if src.disconnects != 1 {
		t.Fatalf("expect exactly 1 source disconnect, got %d", src.disconnects)
	}
}

func TestSessionConnectFailureKeepsDisconnected(t *testing.T) {
	src := &countingSource{connectErr: &ConnectionError{Host: "sftp.example.com", Cause: errors.New("拒绝连接")}}
	session := NewSession(src, nil)

	if err := session.Connect(context.Background()); err == nil {
		t.Fatalf("expect connect error")
	}
	if session.State() != StateDisconnected {
		t.Fatalf("failed connect must leave session disconnected, got %s", session.State())
	}
}

func TestSessionSpanExcludesConcurrentCallers(t *testing.T) {
	src := &countingSource{payload: []byte("data")}
	session := NewSession(src, nil)

	if err := session.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	second := make(chan error, 1)
	go func() {
		if err := session.Begin(context.Background()); err != nil {
			second <- err
			return
		}
		_, err := session.Fetch(context.Background(), "/b.xlsx")
		session.End()
		second <- err
	}()

	select {
	case <-second:
		t.Fatalf("second span must wait until the first one ends")
	case <-time.After(50 * time.Millisecond):
	}

	// 第一个跨度的 fetch 不受第二个调用方影响
	if _, err := session.Fetch(context.Background(), "/a.xlsx"); err != nil {
		t.Fatalf("fetch inside first span: %v", err)
	}
	session.End()

	if err := <-second; err != nil {
		t.Fatalf("second span fetch must succeed after first span ends: %v", err)
	}
}

func TestStripScheme(t *testing.T) {
	cases := map[string]string{
		"sftp://files.example.com": "files.example.com",
		"ftp://files.example.com":  "files.example.com",
		"files.example.com":        "files.example.com",
	}
	for in, want := range cases {
		if got := StripScheme(in); got != want {
			t.Fatalf("StripScheme(%q) = %q, want %q", in, got, want)
		}
	}
}

package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/danmuck/gcproto/internal/testutil/testlog"
	"github.com/rs/zerolog/log"
)

type invalidEvent struct {
	kind protocol.PacketKind
	err  error
}

func startListener(t *testing.T, kind protocol.PacketKind, h Handlers) *Listener {
	t.Helper()
	l, err := Listen("127.0.0.1:0", kind, h, log.Logger)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("listener did not stop")
		}
	})
	return l
}

func TestGameStateOverLoopback(t *testing.T) {
	testlog.Start(t)
	got := make(chan protocol.GameControlData, 1)
	invalid := make(chan invalidEvent, 1)
	l := startListener(t, protocol.KindGameState, Handlers{
		GameState: func(_ net.Addr, p protocol.GameControlData) { got <- p },
		Invalid: func(_ net.Addr, kind protocol.PacketKind, err error) {
			invalid <- invalidEvent{kind: kind, err: err}
		},
	})

	sender, err := Dial(l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := sender.conn.Write([]byte("RGme")); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	select {
	case ev := <-invalid:
		if ev.kind != protocol.KindGameState || !errors.Is(ev.err, protocol.ErrLengthMismatch) {
			t.Fatalf("unexpected invalid event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for rejection")
	}

	want := protocol.NewGameControlData()
	want.PacketNumber = 9
	want.State = protocol.StateReady
	want.Teams[0].TeamNumber = 4
	if err := sender.SendGameState(ctx, want); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case p := <-got:
		if p != want {
			t.Fatalf("received %+v want %+v", p, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for packet")
	}
}

func TestReturnOverLoopback(t *testing.T) {
	got := make(chan protocol.ReturnData, 1)
	l := startListener(t, protocol.KindReturn, Handlers{
		Return: func(_ net.Addr, r protocol.ReturnData) { got <- r },
	})

	sender, err := Dial(l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()

	want := protocol.NewReturnData(5, 1, protocol.ReturnAlive)
	if err := sender.SendReturn(context.Background(), want); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case r := <-got:
		if r != want {
			t.Fatalf("received %+v want %+v", r, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for packet")
	}
}

func TestSendHonoursCancelledContext(t *testing.T) {
	sender, err := Dial("127.0.0.1:9")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sender.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sender.SendReturn(ctx, protocol.NewReturnData(1, 1, protocol.ReturnAlive)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestListenRejectsBadAddress(t *testing.T) {
	if _, err := Listen("not-an-addr", protocol.KindReturn, Handlers{}, log.Logger); err == nil {
		t.Fatalf("expected error")
	}
}

// Package transport carries GameController packets over UDP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/danmuck/gcproto/internal/observability"
	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/rs/zerolog"
)

// maxDatagram leaves room for oversized datagrams so they surface as length
// mismatches instead of being silently truncated.
const maxDatagram = 64 * 1024

// Handlers receive decoded packets. Nil handlers are skipped.
type Handlers struct {
	GameState func(from net.Addr, p protocol.GameControlData)
	Return    func(from net.Addr, r protocol.ReturnData)
	Invalid   func(from net.Addr, kind protocol.PacketKind, err error)
}

// Listener decodes every datagram on one UDP socket as a single packet kind.
type Listener struct {
	conn     *net.UDPConn
	kind     protocol.PacketKind
	handlers Handlers
	logger   zerolog.Logger
}

func Listen(addr string, kind protocol.PacketKind, handlers Handlers, logger zerolog.Logger) (*Listener, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport listen %s: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport listen %s: %w", addr, err)
	}
	return &Listener{
		conn:     conn,
		kind:     kind,
		handlers: handlers,
		logger:   logger.With().Str("kind", kind.String()).Str("addr", conn.LocalAddr().String()).Logger(),
	}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

func (l *Listener) Close() error {
	return l.conn.Close()
}

// Serve reads until ctx is done or the socket is closed. Bad datagrams are
// counted and skipped.
func (l *Listener) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = l.conn.Close() })
	defer stop()

	l.logger.Info().Msg("listening")
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				l.logger.Info().Msg("listener stopped")
				return nil
			}
			return fmt.Errorf("transport read: %w", err)
		}
		l.dispatch(from, buf[:n])
	}
}

func (l *Listener) dispatch(from *net.UDPAddr, datagram []byte) {
	var err error
	switch l.kind {
	case protocol.KindGameState:
		var p protocol.GameControlData
		p, err = protocol.DecodeGameControlData(datagram)
		if err == nil {
			observability.RecordPacket(l.kind, observability.DirectionIn)
			if l.handlers.GameState != nil {
				l.handlers.GameState(from, p)
			}
		}
	case protocol.KindReturn:
		var r protocol.ReturnData
		r, err = protocol.DecodeReturnData(datagram)
		if err == nil {
			observability.RecordPacket(l.kind, observability.DirectionIn)
			if l.handlers.Return != nil {
				l.handlers.Return(from, r)
			}
		}
	default:
		err = fmt.Errorf("transport: unsupported packet kind %s", l.kind)
	}
	if err == nil {
		return
	}

	observability.RecordDecodeError(l.kind, err)
	l.logger.Debug().
		Err(err).
		Str("from", from.String()).
		Int("bytes", len(datagram)).
		Str("reason", protocol.ErrorReason(err)).
		Msg("datagram rejected")
	if l.handlers.Invalid != nil {
		l.handlers.Invalid(from, l.kind, err)
	}
}

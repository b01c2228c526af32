package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/danmuck/gcproto/internal/observability"
	"github.com/danmuck/gcproto/internal/protocol"
)

// Sender writes encoded packets to one UDP destination, broadcast included.
type Sender struct {
	conn *net.UDPConn
}

func Dial(addr string) (*Sender, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport dial %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport dial %s: %w", addr, err)
	}
	return &Sender{conn: conn}, nil
}

func (s *Sender) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Sender) Close() error {
	return s.conn.Close()
}

func (s *Sender) SendGameState(ctx context.Context, p protocol.GameControlData) error {
	return s.send(ctx, protocol.KindGameState, protocol.EncodeGameControlData(p))
}

func (s *Sender) SendReturn(ctx context.Context, r protocol.ReturnData) error {
	return s.send(ctx, protocol.KindReturn, protocol.EncodeReturnData(r))
}

func (s *Sender) send(ctx context.Context, kind protocol.PacketKind, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// zero deadline clears any previous one
	deadline, _ := ctx.Deadline()
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("transport send %s: %w", kind, err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("transport send %s: %w", kind, err)
	}
	observability.RecordPacket(kind, observability.DirectionOut)
	return nil
}

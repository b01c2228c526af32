// Package sim drives fake controller and robot traffic for field tests.
package sim

import (
	"context"
	"time"

	"github.com/danmuck/gcproto/internal/config"
	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/rs/zerolog"
)

type GameStateSender interface {
	SendGameState(ctx context.Context, p protocol.GameControlData) error
}

type ReturnSender interface {
	SendReturn(ctx context.Context, r protocol.ReturnData) error
}

// Controller produces successive broadcast packets from a SimConfig.
type Controller struct {
	packet  protocol.GameControlData
	started bool
	carry   time.Duration
}

func NewController(cfg config.SimConfig) *Controller {
	p := protocol.NewGameControlData()
	p.PlayersPerTeam = cfg.PlayersPerTeam
	p.CompetitionPhase = cfg.CompetitionPhase
	p.CompetitionType = cfg.CompetitionType
	p.State = cfg.State
	p.SecondaryState = cfg.SecondaryState
	p.FirstHalf = 1
	p.KickingTeam = cfg.KickingTeam
	p.SecsRemaining = cfg.SecsRemaining
	for i, team := range cfg.Teams {
		p.Teams[i].TeamNumber = team.Number
		p.Teams[i].TeamColor = team.Color
		p.Teams[i].Score = team.Score
	}
	return &Controller{packet: p}
}

// Next advances by elapsed and returns the packet to send. The packet number
// wraps at 256 and the clock only runs while playing.
func (c *Controller) Next(elapsed time.Duration) protocol.GameControlData {
	if c.started {
		c.packet.PacketNumber++
	}
	c.started = true

	if c.packet.State == protocol.StatePlaying {
		c.carry += elapsed
		secs := uint16(c.carry / time.Second)
		c.carry -= time.Duration(secs) * time.Second
		c.packet.SecsRemaining -= secs
	}
	return c.packet
}

// RunController sends one packet per cfg.Interval until ctx is done.
func RunController(ctx context.Context, cfg config.SimConfig, out GameStateSender, logger zerolog.Logger) error {
	ctrl := NewController(cfg)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		now := time.Now()
		p := ctrl.Next(now.Sub(last))
		last = now
		if err := out.SendGameState(ctx, p); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn().Err(err).Uint8("packet", p.PacketNumber).Msg("send failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunRobot sends the configured return packet once per cfg.Interval until ctx
// is done.
func RunRobot(ctx context.Context, cfg config.RobotConfig, out ReturnSender, logger zerolog.Logger) error {
	pkt := protocol.NewReturnData(cfg.Team, cfg.Player, cfg.Message)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		if err := out.SendReturn(ctx, pkt); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn().Err(err).Msg("send failed")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

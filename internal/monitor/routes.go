package monitor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/danmuck/gcproto/internal/robots"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type playerView struct {
	Number              int    `json:"number"`
	Penalised           bool   `json:"penalised"`
	Penalty             string `json:"penalty"`
	PenaltyCode         uint8  `json:"penalty_code"`
	SecsTillUnpenalised uint8  `json:"secs_till_unpenalised"`
}

type teamView struct {
	Number      uint8        `json:"number"`
	Index       int          `json:"index"`
	Color       string       `json:"color"`
	Score       uint8        `json:"score"`
	PenaltyShot uint8        `json:"penalty_shot"`
	SingleShots uint16       `json:"single_shots"`
	ShotResults []bool       `json:"shot_results"`
	Players     []playerView `json:"players"`
}

// maxShotResults is the width of the SingleShots bitmask.
const maxShotResults = 16

type stateView struct {
	From             string     `json:"from"`
	ReceivedAt       time.Time  `json:"received_at"`
	Received         uint64     `json:"received"`
	Missed           uint64     `json:"missed"`
	PacketNumber     uint8      `json:"packet_number"`
	PlayersPerTeam   uint8      `json:"players_per_team"`
	CompetitionPhase string     `json:"competition_phase"`
	CompetitionType  string     `json:"competition_type"`
	State            string     `json:"state"`
	SecondaryState   string     `json:"secondary_state"`
	FirstHalf        bool       `json:"first_half"`
	KickingTeam      uint8      `json:"kicking_team"`
	DropBall         bool       `json:"drop_ball"`
	DropInTeam       uint8      `json:"drop_in_team"`
	DropInTime       *uint16    `json:"drop_in_time"`
	SecsRemaining    uint16     `json:"secs_remaining"`
	SecondaryTime    uint16     `json:"secondary_time"`
	Teams            []teamView `json:"teams"`
}

func (m *Monitor) registerRoutes() {
	r := m.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(m.started).String(),
			"service": m.cfg.Name,
			"version": "0.0.1",
			"robots":  m.registry.Len(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/state", func(c *gin.Context) {
		view, ok := m.stateView()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game state received yet"})
			return
		}
		c.JSON(http.StatusOK, view)
	})

	r.GET("/state/team/:number", func(c *gin.Context) {
		p, ok := m.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game state received yet"})
			return
		}
		number, err := strconv.ParseUint(c.Param("number"), 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team must be 0..255"})
			return
		}
		if _, idx, found := p.TeamByNumber(uint8(number)); found {
			c.JSON(http.StatusOK, m.teamView(p, idx))
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "team not in game"})
	})

	r.GET("/state/team/:number/player/:player", func(c *gin.Context) {
		p, ok := m.Latest()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no game state received yet"})
			return
		}
		number, err := strconv.ParseUint(c.Param("number"), 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team must be 0..255"})
			return
		}
		player, err := strconv.ParseUint(c.Param("player"), 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player must be 1..255"})
			return
		}
		team, _, found := p.TeamByNumber(uint8(number))
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "team not in game"})
			return
		}
		info, ok := team.Player(uint8(player))
		if !ok || int(player) > int(p.PlayersPerTeam) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not active"})
			return
		}
		c.JSON(http.StatusOK, m.playerView(int(player), info))
	})

	r.GET("/robots", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"robots":          m.registry.Snapshot(m.now()),
			"unknown_sources": m.registry.UnknownSources(),
		})
	})

	r.GET("/robots/:team", func(c *gin.Context) {
		team, err := strconv.ParseUint(c.Param("team"), 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "team must be 0..255"})
			return
		}
		out := make([]robots.Robot, 0)
		for _, robot := range m.registry.Snapshot(m.now()) {
			if robot.Team == uint8(team) {
				out = append(out, robot)
			}
		}
		c.JSON(http.StatusOK, gin.H{"robots": out})
	})
}

func (m *Monitor) stateView() (stateView, bool) {
	m.mu.RLock()
	p, from, at, ok := m.last, m.lastFrom, m.lastAt, m.haveLast
	received, missed := m.received, m.missed
	m.mu.RUnlock()
	if !ok {
		return stateView{}, false
	}

	view := stateView{
		From:             from,
		ReceivedAt:       at,
		Received:         received,
		Missed:           missed,
		PacketNumber:     p.PacketNumber,
		PlayersPerTeam:   p.PlayersPerTeam,
		CompetitionPhase: p.CompetitionPhase.String(),
		CompetitionType:  p.CompetitionType.String(),
		State:            p.State.String(),
		SecondaryState:   p.SecondaryState.String(),
		FirstHalf:        p.IsFirstHalf(),
		KickingTeam:      p.KickingTeam,
		DropBall:         p.IsDropBall(),
		DropInTeam:       p.DropInTeam,
		SecsRemaining:    p.SecsRemaining,
		SecondaryTime:    p.SecondaryTime,
	}
	if p.HasDropIn() {
		t := p.DropInTime
		view.DropInTime = &t
	}
	for i := range p.Teams {
		view.Teams = append(view.Teams, m.teamView(p, i))
	}
	return view, true
}

func (m *Monitor) teamView(p protocol.GameControlData, idx int) teamView {
	team := p.Teams[idx]
	tv := teamView{
		Number:      team.TeamNumber,
		Index:       idx,
		Color:       team.TeamColor.Name(m.cfg.League),
		Score:       team.Score,
		PenaltyShot: team.PenaltyShot,
		SingleShots: team.SingleShots,
		ShotResults: []bool{},
		Players:     []playerView{},
	}
	for i := 0; i < int(team.PenaltyShot) && i < maxShotResults; i++ {
		tv.ShotResults = append(tv.ShotResults, team.PenaltyShotSucceeded(i))
	}
	for n, player := range p.ActivePlayers(idx) {
		tv.Players = append(tv.Players, m.playerView(n+1, player))
	}
	return tv
}

func (m *Monitor) playerView(number int, player protocol.RobotInfo) playerView {
	return playerView{
		Number:              number,
		Penalised:           player.IsPenalised(),
		Penalty:             player.Penalty.Name(m.cfg.League),
		PenaltyCode:         uint8(player.Penalty),
		SecsTillUnpenalised: player.SecsTillUnpenalised,
	}
}

package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/gcproto/internal/protocol"
)

// MonitorConfig drives gcmonitor.
type MonitorConfig struct {
	Name          string
	ListenAddr    string
	ReturnAddr    string
	HTTPAddr      string
	CorsOrigins   []string
	ListenReturns bool
	StaleAfter    time.Duration
	League        protocol.League
}

// SimTeamConfig is one side of the simulated match.
type SimTeamConfig struct {
	Number uint8
	Color  protocol.TeamColor
	Score  uint8
}

// SimConfig drives gcsim, the controller side simulator.
type SimConfig struct {
	TargetAddr       string
	Interval         time.Duration
	PlayersPerTeam   uint8
	State            protocol.GameState
	SecondaryState   protocol.SecondaryState
	CompetitionPhase protocol.CompetitionPhase
	CompetitionType  protocol.CompetitionType
	SecsRemaining    uint16
	KickingTeam      uint8
	Teams            [protocol.NumTeams]SimTeamConfig
}

// RobotConfig drives gcrobot, the robot side return packet sender.
type RobotConfig struct {
	TargetAddr string
	Team       uint8
	Player     uint8
	Interval   time.Duration
	Message    protocol.ReturnMessage
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Name:          "gcmonitor",
		ListenAddr:    fmt.Sprintf(":%d", protocol.GameControllerDataPort),
		ReturnAddr:    fmt.Sprintf(":%d", protocol.GameControllerReturnPort),
		HTTPAddr:      ":8380",
		ListenReturns: true,
		StaleAfter:    time.Minute,
		League:        protocol.LeagueSPL,
	}
}

func DefaultSimConfig() SimConfig {
	return SimConfig{
		TargetAddr:     fmt.Sprintf("255.255.255.255:%d", protocol.GameControllerDataPort),
		Interval:       500 * time.Millisecond,
		PlayersPerTeam: 5,
		State:          protocol.StateInitial,
		SecsRemaining:  600,
		Teams: [protocol.NumTeams]SimTeamConfig{
			{Number: 1, Color: protocol.TeamBlue},
			{Number: 2, Color: protocol.TeamRed},
		},
	}
}

func DefaultRobotConfig() RobotConfig {
	return RobotConfig{
		TargetAddr: fmt.Sprintf("255.255.255.255:%d", protocol.GameControllerReturnPort),
		Team:       1,
		Player:     1,
		Interval:   time.Second,
		Message:    protocol.ReturnAlive,
	}
}

// file-level key mapping
type monitorFile struct {
	Name          string   `toml:"name"`
	ListenAddr    string   `toml:"listen_addr"`
	ReturnAddr    string   `toml:"return_addr"`
	HTTPAddr      string   `toml:"http_addr"`
	CorsOrigins   []string `toml:"cors_origins"`
	ListenReturns bool     `toml:"listen_returns"`
	StaleAfter    string   `toml:"stale_after"`
	League        string   `toml:"league"`
}

type simTeamFile struct {
	Number int    `toml:"number"`
	Color  string `toml:"color"`
	Score  int    `toml:"score"`
}

type simFile struct {
	TargetAddr       string        `toml:"target_addr"`
	Interval         string        `toml:"interval"`
	PlayersPerTeam   int           `toml:"players_per_team"`
	State            string        `toml:"state"`
	SecondaryState   string        `toml:"secondary_state"`
	CompetitionPhase int           `toml:"competition_phase"`
	CompetitionType  int           `toml:"competition_type"`
	SecsRemaining    int           `toml:"secs_remaining"`
	KickingTeam      int           `toml:"kicking_team"`
	Teams            []simTeamFile `toml:"teams"`
}

type robotFile struct {
	TargetAddr string `toml:"target_addr"`
	Team       int    `toml:"team"`
	Player     int    `toml:"player"`
	Interval   string `toml:"interval"`
	Message    string `toml:"message"`
}

func LoadMonitorConfig(path string) (MonitorConfig, error) {
	cfg := DefaultMonitorConfig()
	var raw monitorFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return MonitorConfig{}, fmt.Errorf("load monitor config: %w", err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("return_addr") {
		cfg.ReturnAddr = strings.TrimSpace(raw.ReturnAddr)
	}
	if meta.IsDefined("http_addr") {
		cfg.HTTPAddr = strings.TrimSpace(raw.HTTPAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("listen_returns") {
		cfg.ListenReturns = raw.ListenReturns
	}
	if meta.IsDefined("stale_after") {
		d, err := parseDuration("stale_after", raw.StaleAfter)
		if err != nil {
			return MonitorConfig{}, fmt.Errorf("load monitor config: %w", err)
		}
		cfg.StaleAfter = d
	}
	if meta.IsDefined("league") {
		league, err := protocol.ParseLeague(strings.TrimSpace(raw.League))
		if err != nil {
			return MonitorConfig{}, fmt.Errorf("load monitor config: %w", err)
		}
		cfg.League = league
	}

	if err := ValidateMonitorConfig(cfg); err != nil {
		return MonitorConfig{}, fmt.Errorf("load monitor config: %w", err)
	}
	return cfg, nil
}

func LoadSimConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	var raw simFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return SimConfig{}, fmt.Errorf("load sim config: %w", err)
	}

	if meta.IsDefined("target_addr") {
		cfg.TargetAddr = strings.TrimSpace(raw.TargetAddr)
	}
	if meta.IsDefined("interval") {
		d, err := parseDuration("interval", raw.Interval)
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.Interval = d
	}
	if meta.IsDefined("players_per_team") {
		if raw.PlayersPerTeam < 0 || raw.PlayersPerTeam > protocol.MaxNumPlayers {
			return SimConfig{}, fmt.Errorf("load sim config: players_per_team %d out of range 0..%d", raw.PlayersPerTeam, protocol.MaxNumPlayers)
		}
		cfg.PlayersPerTeam = uint8(raw.PlayersPerTeam)
	}
	if meta.IsDefined("state") {
		state, err := protocol.ParseGameState(strings.TrimSpace(raw.State))
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.State = state
	}
	if meta.IsDefined("secondary_state") {
		state, err := protocol.ParseSecondaryState(strings.TrimSpace(raw.SecondaryState))
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.SecondaryState = state
	}
	if meta.IsDefined("competition_phase") {
		v, err := nibble("competition_phase", raw.CompetitionPhase)
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.CompetitionPhase = protocol.CompetitionPhase(v)
	}
	if meta.IsDefined("competition_type") {
		v, err := nibble("competition_type", raw.CompetitionType)
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.CompetitionType = protocol.CompetitionType(v)
	}
	if meta.IsDefined("secs_remaining") {
		if raw.SecsRemaining < 0 || raw.SecsRemaining > 0xFFFF {
			return SimConfig{}, fmt.Errorf("load sim config: secs_remaining %d out of range", raw.SecsRemaining)
		}
		cfg.SecsRemaining = uint16(raw.SecsRemaining)
	}
	if meta.IsDefined("kicking_team") {
		v, err := byteValue("kicking_team", raw.KickingTeam)
		if err != nil {
			return SimConfig{}, fmt.Errorf("load sim config: %w", err)
		}
		cfg.KickingTeam = v
	}
	if meta.IsDefined("teams") {
		if len(raw.Teams) != protocol.NumTeams {
			return SimConfig{}, fmt.Errorf("load sim config: expected %d [[teams]], got %d", protocol.NumTeams, len(raw.Teams))
		}
		for i, team := range raw.Teams {
			parsed, err := parseSimTeam(team)
			if err != nil {
				return SimConfig{}, fmt.Errorf("load sim config: teams[%d]: %w", i, err)
			}
			cfg.Teams[i] = parsed
		}
	}

	if err := ValidateSimConfig(cfg); err != nil {
		return SimConfig{}, fmt.Errorf("load sim config: %w", err)
	}
	return cfg, nil
}

func LoadRobotConfig(path string) (RobotConfig, error) {
	cfg := DefaultRobotConfig()
	var raw robotFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
	}

	if meta.IsDefined("target_addr") {
		cfg.TargetAddr = strings.TrimSpace(raw.TargetAddr)
	}
	if meta.IsDefined("team") {
		v, err := byteValue("team", raw.Team)
		if err != nil {
			return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
		}
		cfg.Team = v
	}
	if meta.IsDefined("player") {
		v, err := byteValue("player", raw.Player)
		if err != nil {
			return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
		}
		cfg.Player = v
	}
	if meta.IsDefined("interval") {
		d, err := parseDuration("interval", raw.Interval)
		if err != nil {
			return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
		}
		cfg.Interval = d
	}
	if meta.IsDefined("message") {
		msg, err := protocol.ParseReturnMessage(strings.TrimSpace(raw.Message))
		if err != nil {
			return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
		}
		cfg.Message = msg
	}

	if err := ValidateRobotConfig(cfg); err != nil {
		return RobotConfig{}, fmt.Errorf("load robot config: %w", err)
	}
	return cfg, nil
}

func ValidateMonitorConfig(cfg MonitorConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("monitor config missing name")
	}
	if err := validateAddr("listen_addr", cfg.ListenAddr); err != nil {
		return err
	}
	if cfg.ListenReturns {
		if err := validateAddr("return_addr", cfg.ReturnAddr); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cfg.HTTPAddr) != "" {
		if err := validateAddr("http_addr", cfg.HTTPAddr); err != nil {
			return err
		}
	}
	if cfg.StaleAfter <= 0 {
		return fmt.Errorf("stale_after must be positive")
	}
	return nil
}

func ValidateSimConfig(cfg SimConfig) error {
	if err := validateAddr("target_addr", cfg.TargetAddr); err != nil {
		return err
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if cfg.PlayersPerTeam > protocol.MaxNumPlayers {
		return fmt.Errorf("players_per_team %d exceeds %d", cfg.PlayersPerTeam, protocol.MaxNumPlayers)
	}
	if cfg.Teams[0].Number == cfg.Teams[1].Number {
		return fmt.Errorf("team numbers must differ, both are %d", cfg.Teams[0].Number)
	}
	return nil
}

func ValidateRobotConfig(cfg RobotConfig) error {
	if err := validateAddr("target_addr", cfg.TargetAddr); err != nil {
		return err
	}
	if cfg.Player < 1 || cfg.Player > protocol.MaxNumPlayers {
		return fmt.Errorf("player %d out of range 1..%d", cfg.Player, protocol.MaxNumPlayers)
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

func parseSimTeam(raw simTeamFile) (SimTeamConfig, error) {
	number, err := byteValue("number", raw.Number)
	if err != nil {
		return SimTeamConfig{}, err
	}
	score, err := byteValue("score", raw.Score)
	if err != nil {
		return SimTeamConfig{}, err
	}
	color, err := parseTeamColor(raw.Color)
	if err != nil {
		return SimTeamConfig{}, err
	}
	return SimTeamConfig{Number: number, Color: color, Score: score}, nil
}

func parseTeamColor(raw string) (protocol.TeamColor, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "", "blue", "cyan":
		return protocol.TeamBlue, nil
	case "red", "magenta":
		return protocol.TeamRed, nil
	}
	for c := protocol.TeamYellow; c <= protocol.TeamGray; c++ {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown team color %q", raw)
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func nibble(key string, v int) (uint8, error) {
	if v < 0 || v > 0x0F {
		return 0, fmt.Errorf("%s %d does not fit in 4 bits", key, v)
	}
	return uint8(v), nil
}

func byteValue(key string, v int) (uint8, error) {
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%s %d out of range 0..255", key, v)
	}
	return uint8(v), nil
}

func validateAddr(key, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s %q: %w", key, addr, err)
	}
	return nil
}

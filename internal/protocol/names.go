package protocol

import "fmt"

func unknown(v uint8) string {
	return fmt.Sprintf("Unknown(%d)", v)
}

func (k PacketKind) String() string {
	switch k {
	case KindGameState:
		return "game_state"
	case KindReturn:
		return "return"
	default:
		return unknown(uint8(k))
	}
}

var teamColorNames = [...]string{
	TeamBlue:   "blue",
	TeamRed:    "red",
	TeamYellow: "yellow",
	TeamBlack:  "black",
	TeamWhite:  "white",
	TeamGreen:  "green",
	TeamOrange: "orange",
	TeamPurple: "purple",
	TeamBrown:  "brown",
	TeamGray:   "gray",
}

func (c TeamColor) String() string {
	if int(c) < len(teamColorNames) {
		return teamColorNames[c]
	}
	return unknown(uint8(c))
}

// Name resolves c for league. Humanoid leagues call codes 0 and 1 cyan and
// magenta.
func (c TeamColor) Name(league League) string {
	if league == LeagueHLKid || league == LeagueHLTeen {
		switch c {
		case TeamCyan:
			return "cyan"
		case TeamMagenta:
			return "magenta"
		}
	}
	return c.String()
}

func (p CompetitionPhase) String() string {
	switch p {
	case GamePhaseRoundRobin:
		return "round_robin"
	case GamePhasePlayoff:
		return "playoff"
	default:
		return unknown(uint8(p))
	}
}

func (t CompetitionType) String() string {
	switch t {
	case GameTypeNormal:
		return "normal"
	case GameTypeMixedTeam:
		return "mixed_team"
	case GameTypeGeneralPenaltyKick:
		return "general_penalty_kick"
	default:
		return unknown(uint8(t))
	}
}

var gameStateNames = [...]string{
	StateInitial:         "initial",
	StateReady:           "ready",
	StateSet:             "set",
	StatePlaying:         "playing",
	StateFinished:        "finished",
	StateGoalFreeKick:    "goal_free_kick",
	StatePenaltyFreeKick: "penalty_free_kick",
}

func (s GameState) String() string {
	if int(s) < len(gameStateNames) {
		return gameStateNames[s]
	}
	return unknown(uint8(s))
}

func (s SecondaryState) String() string {
	switch s {
	case State2Normal:
		return "normal"
	case State2PenaltyShoot:
		return "penalty_shoot"
	case State2Overtime:
		return "overtime"
	case State2Timeout:
		return "timeout"
	default:
		return unknown(uint8(s))
	}
}

func (m ReturnMessage) String() string {
	switch m {
	case ReturnManualPenalise:
		return "manual_penalise"
	case ReturnManualUnpenalise:
		return "manual_unpenalise"
	case ReturnAlive:
		return "alive"
	default:
		return unknown(uint8(m))
	}
}

// ParseReturnMessage accepts the names produced by ReturnMessage.String.
func ParseReturnMessage(s string) (ReturnMessage, error) {
	for _, m := range []ReturnMessage{ReturnManualPenalise, ReturnManualUnpenalise, ReturnAlive} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown return message %q", s)
}

// ParseGameState accepts the names produced by GameState.String.
func ParseGameState(s string) (GameState, error) {
	for i, name := range gameStateNames {
		if name == s {
			return GameState(i), nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown game state %q", s)
}

// ParseSecondaryState accepts the names produced by SecondaryState.String.
func ParseSecondaryState(s string) (SecondaryState, error) {
	for v := State2Normal; v <= State2Timeout; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown secondary state %q", s)
}

var (
	splPenaltyNames = [...]string{
		PenaltySPLIllegalBallContact: "illegal_ball_contact",
		PenaltySPLPlayerPushing:      "player_pushing",
		PenaltySPLIllegalMotionInSet: "illegal_motion_in_set",
		PenaltySPLInactivePlayer:     "inactive_player",
		PenaltySPLIllegalDefender:    "illegal_defender",
		PenaltySPLLeavingTheField:    "leaving_the_field",
		PenaltySPLKickOffGoal:        "kick_off_goal",
		PenaltySPLRequestForPickup:   "request_for_pickup",
	}
	hlPenaltyNames = [...]string{
		PenaltyHLKidBallManipulation:         "ball_manipulation",
		PenaltyHLKidPhysicalContact:          "physical_contact",
		PenaltyHLKidIllegalAttack:            "illegal_attack",
		PenaltyHLKidIllegalDefense:           "illegal_defense",
		PenaltyHLKidRequestForPickup:         "request_for_pickup",
		PenaltyHLKidRequestForService:        "request_for_service",
		PenaltyHLKidRequestForPickup2Service: "request_for_pickup_2_service",
	}
)

// String names only the league independent codes.
func (p Penalty) String() string {
	switch p {
	case PenaltyNone:
		return "none"
	case PenaltySubstitute:
		return "substitute"
	case PenaltyManual:
		return "manual"
	default:
		return fmt.Sprintf("Penalty(%d)", uint8(p))
	}
}

// Name resolves p against the penalty table of league.
func (p Penalty) Name(league League) string {
	var table []string
	switch league {
	case LeagueSPL:
		table = splPenaltyNames[:]
	case LeagueHLKid, LeagueHLTeen:
		table = hlPenaltyNames[:]
	}
	if int(p) < len(table) && table[p] != "" {
		return table[p]
	}
	return p.String()
}

func (l League) String() string {
	switch l {
	case LeagueSPL:
		return "spl"
	case LeagueHLKid:
		return "hl_kid"
	case LeagueHLTeen:
		return "hl_teen"
	default:
		return unknown(uint8(l))
	}
}

// ParseLeague accepts the names produced by League.String.
func ParseLeague(s string) (League, error) {
	for l := LeagueSPL; l <= LeagueHLTeen; l++ {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown league %q", s)
}

package protocol

import "encoding"

// RobotInfo is the per-player slot of a team.
type RobotInfo struct {
	Penalty             Penalty
	SecsTillUnpenalised uint8
}

// TeamInfo is one side of the match. Team identity is TeamNumber, never the
// index inside GameControlData.Teams.
type TeamInfo struct {
	TeamNumber  uint8
	TeamColor   TeamColor
	Score       uint8
	PenaltyShot uint8
	SingleShots uint16
	Players     [MaxNumPlayers]RobotInfo
}

// GameControlData is the broadcast packet sent by the controller.
type GameControlData struct {
	Header           [4]byte
	Version          uint16
	PacketNumber     uint8
	PlayersPerTeam   uint8
	CompetitionPhase CompetitionPhase
	CompetitionType  CompetitionType
	State            GameState
	FirstHalf        uint8
	KickingTeam      uint8
	SecondaryState   SecondaryState
	DropInTeam       uint8
	DropInTime       uint16
	SecsRemaining    uint16
	SecondaryTime    uint16
	Teams            [NumTeams]TeamInfo
}

var (
	_ encoding.BinaryMarshaler   = GameControlData{}
	_ encoding.BinaryUnmarshaler = (*GameControlData)(nil)
)

// NewGameControlData returns a packet with header and version populated and
// no drop-in recorded yet.
func NewGameControlData() GameControlData {
	return GameControlData{
		Header:     GameControlDataHeader,
		Version:    GameControlDataVersion,
		DropInTime: DropInTimeNone,
	}
}

func (p GameControlData) MarshalBinary() ([]byte, error) {
	return EncodeGameControlData(p), nil
}

func (p *GameControlData) UnmarshalBinary(b []byte) error {
	decoded, err := DecodeGameControlData(b)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

func (p GameControlData) IsFirstHalf() bool {
	return p.FirstHalf == 1
}

func (p GameControlData) HasDropIn() bool {
	return p.DropInTime != DropInTimeNone
}

func (p GameControlData) IsDropBall() bool {
	return p.KickingTeam == DropBall
}

// TeamByNumber finds the team record carrying number n and its index.
func (p GameControlData) TeamByNumber(n uint8) (TeamInfo, int, bool) {
	for i, team := range p.Teams {
		if team.TeamNumber == n {
			return team, i, true
		}
	}
	return TeamInfo{}, -1, false
}

// ActivePlayers returns the leading PlayersPerTeam slots of team idx. Trailing
// slots are present on the wire but carry no meaning.
func (p GameControlData) ActivePlayers(idx int) []RobotInfo {
	if idx < 0 || idx >= NumTeams {
		return nil
	}
	n := int(p.PlayersPerTeam)
	if n > MaxNumPlayers {
		n = MaxNumPlayers
	}
	out := make([]RobotInfo, n)
	copy(out, p.Teams[idx].Players[:n])
	return out
}

// PenaltyShotSucceeded reports bit i of SingleShots.
func (t TeamInfo) PenaltyShotSucceeded(i int) bool {
	if i < 0 || i >= 16 {
		return false
	}
	return t.SingleShots&(1<<uint(i)) != 0
}

// Player returns the slot for a 1-based player number.
func (t TeamInfo) Player(number uint8) (RobotInfo, bool) {
	if number == 0 || int(number) > MaxNumPlayers {
		return RobotInfo{}, false
	}
	return t.Players[number-1], true
}

func (r RobotInfo) IsPenalised() bool {
	return r.Penalty != PenaltyNone
}

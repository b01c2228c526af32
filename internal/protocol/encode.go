package protocol

import "encoding/binary"

// Broadcast packet offsets.
//
//	offset 0:  header           [4]byte "RGme"
//	offset 4:  version          uint16
//	offset 6:  packetNumber     uint8
//	offset 7:  playersPerTeam   uint8
//	offset 8:  phase:4 | type:4 uint8 (phase in the low nibble)
//	offset 9:  state            uint8
//	offset 10: firstHalf        uint8
//	offset 11: kickingTeam      uint8
//	offset 12: secondaryState   uint8
//	offset 13: dropInTeam       uint8
//	offset 14: dropInTime       uint16
//	offset 16: secsRemaining    uint16
//	offset 18: secondaryTime    uint16
//	offset 20: teams            [2]TeamInfo (18 bytes each)
const (
	offVersion        = 4
	offPacketNumber   = 6
	offPlayersPerTeam = 7
	offCompetition    = 8
	offState          = 9
	offFirstHalf      = 10
	offKickingTeam    = 11
	offSecondaryState = 12
	offDropInTeam     = 13
	offDropInTime     = 14
	offSecsRemaining  = 16
	offSecondaryTime  = 18
	offTeams          = 20
)

// TeamInfo offsets relative to the start of the record.
const (
	offTeamNumber  = 0
	offTeamColor   = 1
	offScore       = 2
	offPenaltyShot = 3
	offSingleShots = 4
	offPlayers     = 6
)

// Return packet offsets.
const (
	offReturnVersion = 4
	offReturnTeam    = 5
	offReturnPlayer  = 6
	offReturnMessage = 7
)

// EncodeGameControlData serializes p into a GameControlDataSize buffer. Values
// are written as given; phase and type are truncated to their 4 bits.
func EncodeGameControlData(p GameControlData) []byte {
	buf := make([]byte, GameControlDataSize)
	copy(buf[0:4], p.Header[:])
	binary.LittleEndian.PutUint16(buf[offVersion:], p.Version)
	buf[offPacketNumber] = p.PacketNumber
	buf[offPlayersPerTeam] = p.PlayersPerTeam
	buf[offCompetition] = PackCompetition(p.CompetitionPhase, p.CompetitionType)
	buf[offState] = uint8(p.State)
	buf[offFirstHalf] = p.FirstHalf
	buf[offKickingTeam] = p.KickingTeam
	buf[offSecondaryState] = uint8(p.SecondaryState)
	buf[offDropInTeam] = p.DropInTeam
	binary.LittleEndian.PutUint16(buf[offDropInTime:], p.DropInTime)
	binary.LittleEndian.PutUint16(buf[offSecsRemaining:], p.SecsRemaining)
	binary.LittleEndian.PutUint16(buf[offSecondaryTime:], p.SecondaryTime)
	for i, team := range p.Teams {
		encodeTeamInfo(buf[offTeams+i*TeamInfoSize:offTeams+(i+1)*TeamInfoSize], team)
	}
	return buf
}

func encodeTeamInfo(buf []byte, t TeamInfo) {
	_ = buf[TeamInfoSize-1]
	buf[offTeamNumber] = t.TeamNumber
	buf[offTeamColor] = uint8(t.TeamColor)
	buf[offScore] = t.Score
	buf[offPenaltyShot] = t.PenaltyShot
	binary.LittleEndian.PutUint16(buf[offSingleShots:], t.SingleShots)
	for i, player := range t.Players {
		off := offPlayers + i*RobotInfoSize
		buf[off] = uint8(player.Penalty)
		buf[off+1] = player.SecsTillUnpenalised
	}
}

// PackCompetition builds the shared competition byte: phase in the low
// nibble, type in the high nibble.
func PackCompetition(phase CompetitionPhase, typ CompetitionType) byte {
	return byte(phase)&0x0F | byte(typ)<<4
}

// EncodeReturnData serializes r into a ReturnDataSize buffer.
func EncodeReturnData(r ReturnData) []byte {
	buf := make([]byte, ReturnDataSize)
	copy(buf[0:4], r.Header[:])
	buf[offReturnVersion] = r.Version
	buf[offReturnTeam] = r.Team
	buf[offReturnPlayer] = r.Player
	buf[offReturnMessage] = uint8(r.Message)
	return buf
}

package protocol

import (
	"bytes"
	"encoding/binary"
)

// DecodeGameControlData parses one complete broadcast packet. Checks run in
// order: exact length, header, version. Unknown enumerated codes pass through.
func DecodeGameControlData(b []byte) (GameControlData, error) {
	if len(b) != GameControlDataSize {
		return GameControlData{}, lengthError(KindGameState, len(b), GameControlDataSize)
	}
	if !bytes.Equal(b[0:4], GameControlDataHeader[:]) {
		return GameControlData{}, headerError(KindGameState, b[0:4], GameControlDataHeader)
	}
	version := binary.LittleEndian.Uint16(b[offVersion:])
	if version != GameControlDataVersion {
		return GameControlData{}, versionError(KindGameState, int(version), int(GameControlDataVersion))
	}

	phase, typ := UnpackCompetition(b[offCompetition])
	p := GameControlData{
		Header:           GameControlDataHeader,
		Version:          version,
		PacketNumber:     b[offPacketNumber],
		PlayersPerTeam:   b[offPlayersPerTeam],
		CompetitionPhase: phase,
		CompetitionType:  typ,
		State:            GameState(b[offState]),
		FirstHalf:        b[offFirstHalf],
		KickingTeam:      b[offKickingTeam],
		SecondaryState:   SecondaryState(b[offSecondaryState]),
		DropInTeam:       b[offDropInTeam],
		DropInTime:       binary.LittleEndian.Uint16(b[offDropInTime:]),
		SecsRemaining:    binary.LittleEndian.Uint16(b[offSecsRemaining:]),
		SecondaryTime:    binary.LittleEndian.Uint16(b[offSecondaryTime:]),
	}
	for i := range p.Teams {
		p.Teams[i] = decodeTeamInfo(b[offTeams+i*TeamInfoSize : offTeams+(i+1)*TeamInfoSize])
	}
	return p, nil
}

func decodeTeamInfo(b []byte) TeamInfo {
	_ = b[TeamInfoSize-1]
	t := TeamInfo{
		TeamNumber:  b[offTeamNumber],
		TeamColor:   TeamColor(b[offTeamColor]),
		Score:       b[offScore],
		PenaltyShot: b[offPenaltyShot],
		SingleShots: binary.LittleEndian.Uint16(b[offSingleShots:]),
	}
	for i := range t.Players {
		off := offPlayers + i*RobotInfoSize
		t.Players[i] = RobotInfo{
			Penalty:             Penalty(b[off]),
			SecsTillUnpenalised: b[off+1],
		}
	}
	return t
}

// UnpackCompetition splits the shared competition byte.
func UnpackCompetition(b byte) (CompetitionPhase, CompetitionType) {
	return CompetitionPhase(b & 0x0F), CompetitionType(b >> 4)
}

// DecodeReturnData parses one return packet. The message code is not checked.
func DecodeReturnData(b []byte) (ReturnData, error) {
	if len(b) != ReturnDataSize {
		return ReturnData{}, lengthError(KindReturn, len(b), ReturnDataSize)
	}
	if !bytes.Equal(b[0:4], ReturnDataHeader[:]) {
		return ReturnData{}, headerError(KindReturn, b[0:4], ReturnDataHeader)
	}
	if b[offReturnVersion] != ReturnDataVersion {
		return ReturnData{}, versionError(KindReturn, int(b[offReturnVersion]), int(ReturnDataVersion))
	}
	return ReturnData{
		Header:  ReturnDataHeader,
		Version: b[offReturnVersion],
		Team:    b[offReturnTeam],
		Player:  b[offReturnPlayer],
		Message: ReturnMessage(b[offReturnMessage]),
	}, nil
}

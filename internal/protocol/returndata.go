package protocol

import "encoding"

// ReturnData is the status packet a robot sends back to the controller.
// Player numbers start at 1.
type ReturnData struct {
	Header  [4]byte
	Version uint8
	Team    uint8
	Player  uint8
	Message ReturnMessage
}

var (
	_ encoding.BinaryMarshaler   = ReturnData{}
	_ encoding.BinaryUnmarshaler = (*ReturnData)(nil)
)

// NewReturnData builds an outgoing return packet with header and version set.
func NewReturnData(team, player uint8, msg ReturnMessage) ReturnData {
	return ReturnData{
		Header:  ReturnDataHeader,
		Version: ReturnDataVersion,
		Team:    team,
		Player:  player,
		Message: msg,
	}
}

func (r ReturnData) MarshalBinary() ([]byte, error) {
	return EncodeReturnData(r), nil
}

func (r *ReturnData) UnmarshalBinary(b []byte) error {
	decoded, err := DecodeReturnData(b)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// Known reports whether Message is one of the three defined codes.
func (m ReturnMessage) Known() bool {
	return m <= ReturnAlive
}

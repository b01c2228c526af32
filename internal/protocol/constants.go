package protocol

// UDP ports used by the GameController.
const (
	GameControllerDataPort   = 3838
	GameControllerReturnPort = 3939
)

// Broadcast packet contract.
const (
	GameControlDataVersion uint16 = 11
	MaxNumPlayers                 = 6
	NumTeams                      = 2

	RobotInfoSize       = 2
	TeamInfoSize        = 4 + 2 + MaxNumPlayers*RobotInfoSize
	gameControlBodySize = 4 + 2 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 2 + 2 + 2
	GameControlDataSize = gameControlBodySize + NumTeams*TeamInfoSize
)

// Return packet contract.
const (
	ReturnDataVersion uint8 = 2
	ReturnDataSize          = 4 + 1 + 1 + 1 + 1
)

var (
	GameControlDataHeader = [4]byte{'R', 'G', 'm', 'e'}
	ReturnDataHeader      = [4]byte{'R', 'G', 'r', 't'}
)

// Sentinels carried on the wire.
const (
	DropBall       uint8  = 255
	DropInTimeNone uint16 = 0xFFFF
)

// PacketKind identifies which of the two packet layouts a value belongs to.
type PacketKind uint8

const (
	KindGameState PacketKind = iota
	KindReturn
)

// TeamColor is the colour code of a team. SPL and HL share the first two codes.
type TeamColor uint8

const (
	TeamBlue   TeamColor = 0 // cyan, blue, violet
	TeamRed    TeamColor = 1 // magenta, pink
	TeamYellow TeamColor = 2
	TeamBlack  TeamColor = 3
	TeamWhite  TeamColor = 4
	TeamGreen  TeamColor = 5
	TeamOrange TeamColor = 6
	TeamPurple TeamColor = 7
	TeamBrown  TeamColor = 8
	TeamGray   TeamColor = 9

	TeamCyan    TeamColor = 0
	TeamMagenta TeamColor = 1
)

// CompetitionPhase occupies the low nibble of the competition byte.
type CompetitionPhase uint8

const (
	GamePhaseRoundRobin CompetitionPhase = 0
	GamePhasePlayoff    CompetitionPhase = 1
)

// CompetitionType occupies the high nibble of the competition byte.
type CompetitionType uint8

const (
	GameTypeNormal             CompetitionType = 0
	GameTypeMixedTeam          CompetitionType = 1
	GameTypeGeneralPenaltyKick CompetitionType = 2
)

type GameState uint8

const (
	StateInitial         GameState = 0
	StateReady           GameState = 1
	StateSet             GameState = 2
	StatePlaying         GameState = 3
	StateFinished        GameState = 4
	StateGoalFreeKick    GameState = 5
	StatePenaltyFreeKick GameState = 6
)

type SecondaryState uint8

const (
	State2Normal       SecondaryState = 0
	State2PenaltyShoot SecondaryState = 1
	State2Overtime     SecondaryState = 2
	State2Timeout      SecondaryState = 3
)

// Penalty is ruleset dependent; the same code means different things per league.
type Penalty uint8

const (
	PenaltyNone Penalty = 0

	PenaltySPLIllegalBallContact Penalty = 1
	PenaltySPLPlayerPushing      Penalty = 2
	PenaltySPLIllegalMotionInSet Penalty = 3
	PenaltySPLInactivePlayer     Penalty = 4
	PenaltySPLIllegalDefender    Penalty = 5
	PenaltySPLLeavingTheField    Penalty = 6
	PenaltySPLKickOffGoal        Penalty = 7
	PenaltySPLRequestForPickup   Penalty = 8

	PenaltyHLKidBallManipulation         Penalty = 1
	PenaltyHLKidPhysicalContact          Penalty = 2
	PenaltyHLKidIllegalAttack            Penalty = 3
	PenaltyHLKidIllegalDefense           Penalty = 4
	PenaltyHLKidRequestForPickup         Penalty = 5
	PenaltyHLKidRequestForService        Penalty = 6
	PenaltyHLKidRequestForPickup2Service Penalty = 7

	PenaltyHLTeenBallManipulation         Penalty = 1
	PenaltyHLTeenPhysicalContact          Penalty = 2
	PenaltyHLTeenIllegalAttack            Penalty = 3
	PenaltyHLTeenIllegalDefense           Penalty = 4
	PenaltyHLTeenRequestForPickup         Penalty = 5
	PenaltyHLTeenRequestForService        Penalty = 6
	PenaltyHLTeenRequestForPickup2Service Penalty = 7

	PenaltySubstitute Penalty = 14
	PenaltyManual     Penalty = 15
)

// League selects the penalty naming table.
type League uint8

const (
	LeagueSPL League = iota
	LeagueHLKid
	LeagueHLTeen
)

// ReturnMessage is the single message code of a return packet.
type ReturnMessage uint8

const (
	ReturnManualPenalise   ReturnMessage = 0
	ReturnManualUnpenalise ReturnMessage = 1
	ReturnAlive            ReturnMessage = 2
)

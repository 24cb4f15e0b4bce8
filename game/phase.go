package game

type Phase int

const (
	InitPhase   Phase = iota // Before the game has been set up
	PlacePhase               // Wait for the current player to place a piece
	RemovePhase              // Wait for the current player to remove an opponent piece
	MovePhase                // Wait for the current player to move a piece
	EndPhase                 // Game ended, the current player is the winner
)

func (p Phase) String() string {
	switch p {
	case InitPhase:
		return "Init"
	case PlacePhase:
		return "Place"
	case RemovePhase:
		return "Remove"
	case MovePhase:
		return "Move"
	case EndPhase:
		return "End"
	default:
		return "Unknown"
	}
}

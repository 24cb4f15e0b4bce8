// meta/meta.go
package meta

// LIB_NAME and LIB_VERSION identify the engine in logs and brain inspections.
const (
	LIB_NAME    = "morris"
	LIB_VERSION = "0.1.0"
)

// NUM_OF_PIECES is the number of pieces each player starts with in the deck.
const NUM_OF_PIECES = 9

// NUM_OF_SQUARES is the number of concentric squares on the field.
const NUM_OF_SQUARES = 3

// NUM_OF_SQUARE_PLACES is the number of points on one square.
const NUM_OF_SQUARE_PLACES = 8

// NUM_OF_FIELD_PLACES is the number of points on the whole field.
const NUM_OF_FIELD_PLACES = NUM_OF_SQUARES * NUM_OF_SQUARE_PLACES

// NUM_OF_PLAYERS is fixed at two.
const NUM_OF_PLAYERS = 2

// FLYING_THRESHOLD is the piece count at or below which a player may jump.
const FLYING_THRESHOLD = 3

// MAX_TURNS caps a self-play game; reaching it is a draw.
const MAX_TURNS = 300

// RETRY_ATTEMPTS bounds how many exploration candidates a learning player draws per turn.
const RETRY_ATTEMPTS = 64

package game

import (
	"fmt"

	"morris/meta"
)

// Cell is the index of a point on the field, indexed like this:
//
//	0-----------1-----------2
//	|           |           |
//	|   8-------9------10   |
//	|   |       |       |   |
//	|   |  16--17--18   |   |
//	|   |   |       |   |   |
//	7--15--23      19--11---3
//	|   |   |       |   |   |
//	|   |  22--21--20   |   |
//	|   |       |       |   |
//	|  14------13------12   |
//	|           |           |
//	6-----------5-----------4
type Cell uint8

// NoCell stands for "no point", e.g. the missing half of a learning step.
const NoCell Cell = 255

// NumCells is the number of points on the field.
const NumCells = meta.NUM_OF_FIELD_PLACES

// Valid reports whether c names a point on the field.
func (c Cell) Valid() bool {
	return int(c) < NumCells
}

// Square returns the index of the square c lies on, 0 being the outer one.
func (c Cell) Square() int {
	return int(c) / meta.NUM_OF_SQUARE_PLACES
}

// Offset returns the position of c inside its square.
func (c Cell) Offset() int {
	return int(c) % meta.NUM_OF_SQUARE_PLACES
}

func (c Cell) String() string {
	if c == NoCell {
		return "none"
	}
	return fmt.Sprintf("%d", uint8(c))
}

// Line is three points which form a mill when held by the same player.
type Line [3]Cell

// Contains reports whether c is one of the points of the line.
func (l Line) Contains(c Cell) bool {
	return l[0] == c || l[1] == c || l[2] == c
}

// Layout describes the field geometry from which the lookup tables are built.
type Layout struct {
	Squares      int   // Number of concentric squares
	SquarePlaces int   // Points per square, corners and midpoints alternating
	Spokes       []int // Square offsets connected to the same offset of the neighbouring squares
}

// StandardLayout is the nine men's morris field.
var StandardLayout = Layout{
	Squares:      meta.NUM_OF_SQUARES,
	SquarePlaces: meta.NUM_OF_SQUARE_PLACES,
	Spokes:       []int{1, 3, 5, 7},
}

// Topology holds the static adjacency relation and the mill lines of a field.
// It is built once and never changes.
type Topology struct {
	adjacent [NumCells][]Cell
	linked   [NumCells]uint32 // bitset form of adjacent
	lines    []Line
	through  [NumCells][]int // indices into lines
}

var standard = NewTopology(StandardLayout)

// Standard returns the topology of the standard field.
func Standard() *Topology {
	return standard
}

// NewTopology builds the lookup tables from a layout description.
func NewTopology(l Layout) *Topology {
	if l.Squares != len(Line{}) || l.Squares*l.SquarePlaces != NumCells {
		panic(fmt.Sprintf("layout has %dx%d points, expected %dx%d", l.Squares, l.SquarePlaces, len(Line{}), NumCells/len(Line{})))
	}
	t := &Topology{}
	at := func(square, offset int) Cell {
		return Cell(square*l.SquarePlaces + (offset+l.SquarePlaces)%l.SquarePlaces)
	}

	// Edges along the sides of every square
	for square := 0; square < l.Squares; square++ {
		for offset := 0; offset < l.SquarePlaces; offset++ {
			t.link(at(square, offset), at(square, offset+1))
		}
	}
	// Spokes between neighbouring squares
	for _, offset := range l.Spokes {
		for square := 0; square+1 < l.Squares; square++ {
			t.link(at(square, offset), at(square+1, offset))
		}
	}

	// Side lines start at every corner, a side spans two steps
	for square := 0; square < l.Squares; square++ {
		for offset := 0; offset < l.SquarePlaces; offset += 2 {
			t.addLine(Line{at(square, offset), at(square, offset+1), at(square, offset+2)})
		}
	}
	// Cross lines run along the spokes through every square
	for _, offset := range l.Spokes {
		t.addLine(Line{at(0, offset), at(1, offset), at(2, offset)})
	}

	return t
}

func (t *Topology) link(a, b Cell) {
	if t.linked[a]&(1<<b) != 0 {
		return
	}
	t.adjacent[a] = append(t.adjacent[a], b)
	t.adjacent[b] = append(t.adjacent[b], a)
	t.linked[a] |= 1 << b
	t.linked[b] |= 1 << a
}

func (t *Topology) addLine(line Line) {
	index := len(t.lines)
	t.lines = append(t.lines, line)
	for _, c := range line {
		t.through[c] = append(t.through[c], index)
	}
}

// Adjacent returns the points reachable from c by one step.
func (t *Topology) Adjacent(c Cell) []Cell {
	if !c.Valid() {
		return nil
	}
	return t.adjacent[c]
}

// AreAdjacent checks if two points are connected by a line segment.
func (t *Topology) AreAdjacent(a, b Cell) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return t.linked[a]&(1<<b) != 0
}

// Lines returns every mill line of the field.
func (t *Topology) Lines() []Line {
	return t.lines
}

// MillLinesThrough returns the mill lines c takes part in.
func (t *Topology) MillLinesThrough(c Cell) []Line {
	if !c.Valid() {
		return nil
	}
	lines := make([]Line, 0, len(t.through[c]))
	for _, index := range t.through[c] {
		lines = append(lines, t.lines[index])
	}
	return lines
}

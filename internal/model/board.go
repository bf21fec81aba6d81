package model

import (
	"encoding/json"
	"sort"
)

// BoardSize is the fixed side length of every board
const BoardSize = 10

// Board is a player's private placement grid.
// Cell values are 0 for empty water or a PieceID for the occupying pig.
type Board [][]int

// Coord identifies a cell on a board
type Coord struct {
	Row int `json:"r"` // 0-indexed from top
	Col int `json:"c"` // 0-indexed from left
}

// InBounds returns true if the coordinate is on the board
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// WellFormed returns true if the board is exactly BoardSize x BoardSize
// with no negative cells. It says nothing about the fleet inventory.
func (b Board) WellFormed() bool {
	if len(b) != BoardSize {
		return false
	}
	for _, row := range b {
		if len(row) != BoardSize {
			return false
		}
		for _, v := range row {
			if v < 0 {
				return false
			}
		}
	}
	return true
}

// Cell returns the value at the given coordinate, or 0 if out of bounds
func (b Board) Cell(c Coord) int {
	if !c.InBounds() {
		return 0
	}
	return b[c.Row][c.Col]
}

// CellsOf returns every coordinate occupied by the given piece id
func (b Board) CellsOf(id PieceID) []Coord {
	var cells []Coord
	for r := range b {
		for col, v := range b[r] {
			if PieceID(v) == id {
				cells = append(cells, Coord{Row: r, Col: col})
			}
		}
	}
	return cells
}

// OccupiedCells returns every coordinate holding any pig
func (b Board) OccupiedCells() []Coord {
	var cells []Coord
	for r := range b {
		for col, v := range b[r] {
			if v > 0 {
				cells = append(cells, Coord{Row: r, Col: col})
			}
		}
	}
	return cells
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, row := range b {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// ShotSet records the distinct coordinates one seat has fired this battle
type ShotSet map[Coord]struct{}

// NewShotSet returns an empty shot set
func NewShotSet() ShotSet {
	return make(ShotSet)
}

// Contains returns true if the coordinate has already been fired
func (s ShotSet) Contains(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Add records a fired coordinate
func (s ShotSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Clone returns a copy of the set
func (s ShotSet) Clone() ShotSet {
	out := make(ShotSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Covers returns true if every given coordinate is in the set
func (s ShotSet) Covers(cells []Coord) bool {
	for _, c := range cells {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a list of coordinates, for storage backends
// that persist rooms as JSON documents
func (s ShotSet) MarshalJSON() ([]byte, error) {
	coords := make([]Coord, 0, len(s))
	for c := range s {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return json.Marshal(coords)
}

// UnmarshalJSON decodes a list of coordinates back into the set
func (s *ShotSet) UnmarshalJSON(data []byte) error {
	var coords []Coord
	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}
	set := make(ShotSet, len(coords))
	for _, c := range coords {
		set.Add(c)
	}
	*s = set
	return nil
}

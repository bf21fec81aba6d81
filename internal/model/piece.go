package model

// PieceID identifies a pig in the fleet catalog
type PieceID int

// Piece describes one pig in the static fleet catalog
type Piece struct {
	ID   PieceID
	Name string
	Size int // number of board cells the pig occupies
}

// pieces is the fixed fleet every player must place, defined at startup
var pieces = []Piece{
	{ID: 1, Name: "Baozhu (Wifey Pig)", Size: 5},
	{ID: 2, Name: "Zhubao (Hubby Pig)", Size: 4},
	{ID: 3, Name: "White Pig", Size: 3},
	{ID: 4, Name: "Black Pig", Size: 3},
	{ID: 5, Name: "Xiao Zhu Tou (Baby)", Size: 2},
}

// Pieces returns the fleet catalog
func Pieces() []Piece {
	out := make([]Piece, len(pieces))
	copy(out, pieces)
	return out
}

// PieceByID returns the catalog entry for the given id, or nil if unknown
func PieceByID(id PieceID) *Piece {
	for i := range pieces {
		if pieces[i].ID == id {
			return &pieces[i]
		}
	}
	return nil
}

// ExpectedInventory returns the required cell count per piece id
func ExpectedInventory() map[PieceID]int {
	inv := make(map[PieceID]int, len(pieces))
	for _, p := range pieces {
		inv[p.ID] = p.Size
	}
	return inv
}

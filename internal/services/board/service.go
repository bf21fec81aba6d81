package board

import (
	"github.com/battlepigs/battlepigs/internal/model"
)

// Service validates submitted pig placements
type Service struct{}

// New creates a new board validation service
func New() *Service {
	return &Service{}
}

// ValidatePlacement checks that a submitted board carries exactly the
// required fleet: for every catalog pig, the number of cells holding its
// id equals its size, and no other positive ids appear.
//
// Deliberately permissive beyond that: pigs may be scattered across
// non-contiguous cells. Only the per-id cell count is contractual.
func (s *Service) ValidatePlacement(b model.Board) error {
	if !b.WellFormed() {
		return model.ErrInvalidPlacement
	}

	counts := make(map[model.PieceID]int)
	for _, row := range b {
		for _, v := range row {
			if v > 0 {
				counts[model.PieceID(v)]++
			}
		}
	}

	expected := model.ExpectedInventory()
	if len(counts) != len(expected) {
		return model.ErrInvalidPlacement
	}
	for id, size := range expected {
		if counts[id] != size {
			return model.ErrInvalidPlacement
		}
	}
	return nil
}

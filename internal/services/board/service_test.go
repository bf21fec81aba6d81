package board

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/battlepigs/battlepigs/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

// emptyBoard returns a 10x10 all-water board
func emptyBoard() model.Board {
	b := make(model.Board, model.BoardSize)
	for i := range b {
		b[i] = make([]int, model.BoardSize)
	}
	return b
}

// validBoard places the full fleet in contiguous horizontal runs
func validBoard() model.Board {
	b := emptyBoard()
	row := 0
	for _, p := range model.Pieces() {
		for col := 0; col < p.Size; col++ {
			b[row][col] = int(p.ID)
		}
		row++
	}
	return b
}

func (s *ServiceSuite) TestValidPlacementAccepted() {
	err := s.service.ValidatePlacement(validBoard())
	s.NoError(err)
}

func (s *ServiceSuite) TestScatteredPlacementAccepted() {
	// Cell counts are checked, contiguity is not.
	b := validBoard()
	b[0][4] = 0
	b[9][9] = 1
	s.NoError(s.service.ValidatePlacement(b))
}

func (s *ServiceSuite) TestEmptyBoardRejected() {
	err := s.service.ValidatePlacement(emptyBoard())
	s.ErrorIs(err, model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestMissingPieceRejected() {
	b := validBoard()
	// Remove the baby pig entirely.
	for _, c := range b.CellsOf(5) {
		b[c.Row][c.Col] = 0
	}
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestWrongCellCountRejected() {
	b := validBoard()
	// One extra cell for piece 1.
	b[9][9] = 1
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestUnknownPieceIDRejected() {
	b := validBoard()
	b[9][9] = 7
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestWrongDimensionsRejected() {
	b := validBoard()
	b = b[:9]
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestRaggedRowRejected() {
	b := validBoard()
	b[4] = b[4][:9]
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestNegativeCellRejected() {
	b := validBoard()
	b[9][9] = -1
	s.ErrorIs(s.service.ValidatePlacement(b), model.ErrInvalidPlacement)
}

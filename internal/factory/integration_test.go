package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/battlepigs/battlepigs/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func validBoard() model.Board {
	b := make(model.Board, model.BoardSize)
	for i := range b {
		b[i] = make([]int, model.BoardSize)
	}
	row := 0
	for _, p := range model.Pieces() {
		for col := 0; col < p.Size; col++ {
			b[row][col] = int(p.ID)
		}
		row++
	}
	return b
}

// Test: Complete battle from room creation to victory and rematch
func (s *IntegrationSuite) TestCompleteBattleFlow() {
	s.app.MockRandom.QueueString("PIGS")

	// Step 1: Alice creates a room
	room, err := s.app.RoomController.CreateRoom(s.ctx, "sess-a", "Alice")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("PIGS"), room.Code)
	s.Equal(model.PhaseWaiting, room.Phase)

	// Step 2: Bob joins with a sloppy code
	room, err = s.app.RoomController.JoinRoom(s.ctx, "sess-b", "Bob", " pigs ")
	s.Require().NoError(err)
	s.Equal(model.PhasePlacing, room.Phase)

	// Step 3: Both place their fleets
	placed, err := s.app.GameController.SubmitPlacement(s.ctx, "sess-a", validBoard())
	s.Require().NoError(err)
	s.False(placed.Started)

	placed, err = s.app.GameController.SubmitPlacement(s.ctx, "sess-b", validBoard())
	s.Require().NoError(err)
	s.True(placed.Started)
	s.Equal(model.SeatCreator, placed.Turn)

	// Step 4: Alice sweeps the fleet while Bob misses
	occupied := validBoard().OccupiedCells()
	var final *model.Room
	for i, c := range occupied {
		result, err := s.app.GameController.Fire(s.ctx, "sess-a", c)
		s.Require().NoError(err)
		s.True(result.Hit)

		if i < len(occupied)-1 {
			miss, err := s.app.GameController.Fire(s.ctx, "sess-b", model.Coord{
				Row: 9 - i/model.BoardSize,
				Col: i % model.BoardSize,
			})
			s.Require().NoError(err)
			s.False(miss.Hit)
		} else {
			s.True(result.GameOver)
			s.Equal("Alice", result.WinnerName)
		}
	}

	final, err = s.app.RoomController.GetRoom(s.ctx, "PIGS")
	s.Require().NoError(err)
	s.Equal(model.PhaseFinished, final.Phase)

	// Step 5: Rematch resets the room in place
	rematch, err := s.app.GameController.PlayAgain(s.ctx, "sess-b")
	s.Require().NoError(err)
	s.Len(rematch.Seats, 2)

	final, err = s.app.RoomController.GetRoom(s.ctx, "PIGS")
	s.Require().NoError(err)
	s.Equal(model.PhasePlacing, final.Phase)
	s.Nil(final.Winner)

	// Step 6: Alice disconnects, the room is gone
	gone, err := s.app.GameController.Disconnect(s.ctx, "sess-a")
	s.Require().NoError(err)
	s.Equal("Alice", gone.LeaverName)
	s.Equal([]model.SessionID{"sess-b"}, gone.Remaining)

	_, err = s.app.RoomController.GetRoom(s.ctx, "PIGS")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// Test: Two rooms run independently
func (s *IntegrationSuite) TestRoomsAreIndependent() {
	s.app.MockRandom.QueueString("AAAA", "BBBB")

	_, err := s.app.RoomController.CreateRoom(s.ctx, "sess-1", "Alice")
	s.Require().NoError(err)
	_, err = s.app.RoomController.CreateRoom(s.ctx, "sess-2", "Carol")
	s.Require().NoError(err)

	_, err = s.app.RoomController.JoinRoom(s.ctx, "sess-3", "Bob", "AAAA")
	s.Require().NoError(err)

	// Room AAAA advancing leaves BBBB untouched.
	_, err = s.app.GameController.SubmitPlacement(s.ctx, "sess-1", validBoard())
	s.Require().NoError(err)

	other, err := s.app.RoomController.GetRoom(s.ctx, "BBBB")
	s.Require().NoError(err)
	s.Equal(model.PhaseWaiting, other.Phase)

	// Tearing down AAAA leaves BBBB joinable.
	_, err = s.app.GameController.Disconnect(s.ctx, "sess-1")
	s.Require().NoError(err)

	_, err = s.app.RoomController.JoinRoom(s.ctx, "sess-4", "Dave", "BBBB")
	s.Require().NoError(err)
}

func (s *IntegrationSuite) TestFactoryDefaultsToMemory() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
	s.NotNil(app.Hub)
	s.NotNil(app.Dispatcher)
}

func (s *IntegrationSuite) TestFactoryRejectsUnknownStorage() {
	_, err := New(Config{StorageType: "cloud"})
	s.Error(err)
}

func (s *IntegrationSuite) TestFactoryRequiresRedisConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/battlepigs/battlepigs/internal/dependencies/mocks"
	"github.com/battlepigs/battlepigs/internal/model"
	"github.com/battlepigs/battlepigs/internal/services/board"
	"github.com/battlepigs/battlepigs/internal/services/game"
	"github.com/battlepigs/battlepigs/internal/services/room"
	"github.com/battlepigs/battlepigs/internal/storage/memory"
	"github.com/battlepigs/battlepigs/internal/testutil"
)

// sentEvent records one delivery made through the fake sender
type sentEvent struct {
	To      model.SessionID
	Event   string
	Payload any
}

// fakeSender records deliveries instead of writing to sockets
type fakeSender struct {
	events []sentEvent
}

var _ Sender = (*fakeSender)(nil)

func (f *fakeSender) Send(id model.SessionID, event string, payload any) {
	f.events = append(f.events, sentEvent{To: id, Event: event, Payload: payload})
}

func (f *fakeSender) SendMany(ids []model.SessionID, event string, payload any) {
	for _, id := range ids {
		f.events = append(f.events, sentEvent{To: id, Event: event, Payload: payload})
	}
}

// to returns the events delivered to one session, in order
func (f *fakeSender) to(id model.SessionID) []sentEvent {
	var out []sentEvent
	for _, e := range f.events {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

type DispatcherSuite struct {
	suite.Suite
	random     *mocks.MockRandom
	sender     *fakeSender
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := testutil.NopLogger()
	storage := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	rooms := room.NewController(storage, clk, s.random, logger)
	games := game.NewController(rooms, board.New(), logger)
	s.sender = &fakeSender{}
	s.dispatcher = NewDispatcher(rooms, games, s.sender, logger)
	s.ctx = context.Background()
}

// dispatch frames a payload into an envelope and hands it to the dispatcher
func (s *DispatcherSuite) dispatch(id model.SessionID, event string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	raw, err := json.Marshal(Envelope{Event: event, Data: data})
	s.Require().NoError(err)
	s.dispatcher.HandleEvent(s.ctx, id, raw)
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

// setupRoom takes sess-0 and sess-1 through create and join
func (s *DispatcherSuite) setupRoom() {
	s.random.QueueString("ABCD")
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "Alice"})
	s.dispatch("sess-1", EventJoinGame, JoinGameRequest{Name: "Bob", Code: "ABCD"})
	s.sender.events = nil
}

// setupBattle additionally submits both placements
func (s *DispatcherSuite) setupBattle() {
	s.setupRoom()
	s.dispatch("sess-0", EventPlacePigs, PlacePigsRequest{Board: validBoard()})
	s.dispatch("sess-1", EventPlacePigs, PlacePigsRequest{Board: validBoard()})
	s.sender.events = nil
}

func intPtr(v int) *int { return &v }

// create_room

func (s *DispatcherSuite) TestCreateRoomAcksSenderOnly() {
	s.random.QueueString("ABCD")
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "Alice"})

	s.Require().Len(s.sender.events, 1)
	e := s.sender.events[0]
	s.Equal(model.SessionID("sess-0"), e.To)
	s.Equal(EventRoomCreated, e.Event)
	s.Equal(RoomCreated{Code: "ABCD", Name: "Alice"}, e.Payload)
}

func (s *DispatcherSuite) TestCreateRoomEmptyNameErrors() {
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "  "})

	s.Require().Len(s.sender.events, 1)
	e := s.sender.events[0]
	s.Equal(EventError, e.Event)
	s.Equal(ErrorEvent{Msg: "Please enter your name"}, e.Payload)
}

// join_game

func (s *DispatcherSuite) TestJoinGameStartsBothSeats() {
	s.random.QueueString("ABCD")
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "Alice"})
	s.dispatch("sess-1", EventJoinGame, JoinGameRequest{Name: "Bob", Code: "ABCD"})

	joiner := s.sender.to("sess-1")
	s.Require().Len(joiner, 1)
	s.Equal(EventGameStart, joiner[0].Event)
	s.Equal(GameStart{You: 1, Opponent: "Alice"}, joiner[0].Payload)

	creator := s.sender.to("sess-0")
	s.Require().Len(creator, 2) // room_created then game_start
	s.Equal(EventGameStart, creator[1].Event)
	s.Equal(GameStart{You: 0, Opponent: "Bob"}, creator[1].Payload)
}

func (s *DispatcherSuite) TestJoinGameUnknownCodeErrors() {
	s.dispatch("sess-1", EventJoinGame, JoinGameRequest{Name: "Bob", Code: "ZZZZ"})

	s.Require().Len(s.sender.events, 1)
	s.Equal(EventError, s.sender.events[0].Event)
	s.Equal(ErrorEvent{Msg: "Room not found"}, s.sender.events[0].Payload)
}

func (s *DispatcherSuite) TestJoinGameFullRoomErrors() {
	s.setupRoom()
	s.dispatch("sess-2", EventJoinGame, JoinGameRequest{Name: "Carol", Code: "ABCD"})

	got := s.sender.to("sess-2")
	s.Require().Len(got, 1)
	s.Equal(ErrorEvent{Msg: "Room is full"}, got[0].Payload)
	// Nothing leaks to the seated players.
	s.Empty(s.sender.to("sess-0"))
	s.Empty(s.sender.to("sess-1"))
}

// place_pigs

func (s *DispatcherSuite) TestFirstPlacementWaits() {
	s.setupRoom()
	s.dispatch("sess-0", EventPlacePigs, PlacePigsRequest{Board: validBoard()})

	s.Require().Len(s.sender.events, 1)
	e := s.sender.events[0]
	s.Equal(model.SessionID("sess-0"), e.To)
	s.Equal(EventWaitForOpponent, e.Event)
}

func (s *DispatcherSuite) TestSecondPlacementBroadcastsBattleStart() {
	s.setupRoom()
	s.dispatch("sess-0", EventPlacePigs, PlacePigsRequest{Board: validBoard()})
	s.sender.events = nil

	s.dispatch("sess-1", EventPlacePigs, PlacePigsRequest{Board: validBoard()})

	s.Require().Len(s.sender.events, 2)
	for _, e := range s.sender.events {
		s.Equal(EventBattleStart, e.Event)
		s.Equal(BattleStart{Turn: 0}, e.Payload)
	}
	s.Len(s.sender.to("sess-0"), 1)
	s.Len(s.sender.to("sess-1"), 1)
}

func (s *DispatcherSuite) TestInvalidPlacementErrorsSenderOnly() {
	s.setupRoom()
	s.dispatch("sess-0", EventPlacePigs, PlacePigsRequest{Board: model.Board{}})

	s.Require().Len(s.sender.events, 1)
	s.Equal(model.SessionID("sess-0"), s.sender.events[0].To)
	s.Equal(ErrorEvent{Msg: "Invalid pig placement"}, s.sender.events[0].Payload)
}

// fire

func (s *DispatcherSuite) TestFireBroadcastsResult() {
	s.setupBattle()
	s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(0), C: intPtr(0)})

	s.Require().Len(s.sender.events, 2)
	for _, e := range s.sender.events {
		s.Equal(EventFireResult, e.Event)
		result, ok := e.Payload.(FireResultEvent)
		s.Require().True(ok)
		s.Equal(0, result.R)
		s.Equal(0, result.C)
		s.True(result.Hit)
		s.Equal(0, result.Shooter)
		s.Equal(1, result.Turn)
		s.False(result.GameOver)
	}
}

func (s *DispatcherSuite) TestFireOutOfTurnDroppedSilently() {
	s.setupBattle()
	s.dispatch("sess-1", EventFire, FireRequest{R: intPtr(0), C: intPtr(0)})

	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestFireMissingCoordinatesDropped() {
	s.setupBattle()
	s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(0)})

	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestFireRepeatDroppedSilently() {
	s.setupBattle()
	s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(9), C: intPtr(9)})
	s.dispatch("sess-1", EventFire, FireRequest{R: intPtr(9), C: intPtr(9)})
	s.sender.events = nil

	s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(9), C: intPtr(9)})
	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestFireFromUnseatedSessionDropped() {
	s.dispatch("ghost", EventFire, FireRequest{R: intPtr(0), C: intPtr(0)})
	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestWinningShotBroadcastsGameOver() {
	s.setupBattle()
	s.sinkAllButOne()
	s.sender.events = nil

	// The last standing cell of the fleet.
	s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(4), C: intPtr(1)})

	s.Require().Len(s.sender.events, 2)
	result, ok := s.sender.events[0].Payload.(FireResultEvent)
	s.Require().True(ok)
	s.True(result.GameOver)
	s.Equal("Alice", result.WinnerName)
	s.Equal(0, result.Turn)
	s.Require().NotNil(result.Sunk)
	s.Equal(5, *result.Sunk)
}

// play_again

func (s *DispatcherSuite) TestPlayAgainRestartsBothSeats() {
	s.setupBattle()
	s.dispatch("sess-1", EventPlayAgain, nil)

	seat0 := s.sender.to("sess-0")
	s.Require().Len(seat0, 1)
	s.Equal(EventGameStart, seat0[0].Event)
	s.Equal(GameStart{You: 0, Opponent: "Bob"}, seat0[0].Payload)

	seat1 := s.sender.to("sess-1")
	s.Require().Len(seat1, 1)
	s.Equal(GameStart{You: 1, Opponent: "Alice"}, seat1[0].Payload)
}

func (s *DispatcherSuite) TestPlayAgainAloneDropped() {
	s.random.QueueString("ABCD")
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "Alice"})
	s.sender.events = nil

	s.dispatch("sess-0", EventPlayAgain, nil)
	s.Empty(s.sender.events)
}

// disconnect

func (s *DispatcherSuite) TestDisconnectNotifiesRemaining() {
	s.setupBattle()
	s.dispatcher.HandleDisconnect(s.ctx, "sess-0")

	s.Require().Len(s.sender.events, 1)
	e := s.sender.events[0]
	s.Equal(model.SessionID("sess-1"), e.To)
	s.Equal(EventOpponentLeft, e.Event)
	s.Equal(OpponentLeft{Name: "Alice"}, e.Payload)
}

func (s *DispatcherSuite) TestDisconnectAloneIsQuiet() {
	s.random.QueueString("ABCD")
	s.dispatch("sess-0", EventCreateRoom, CreateRoomRequest{Name: "Alice"})
	s.sender.events = nil

	s.dispatcher.HandleDisconnect(s.ctx, "sess-0")
	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestDisconnectUnknownSessionIsQuiet() {
	s.dispatcher.HandleDisconnect(s.ctx, "ghost")
	s.Empty(s.sender.events)
}

// framing

func (s *DispatcherSuite) TestMalformedFrameDropped() {
	s.dispatcher.HandleEvent(s.ctx, "sess-0", []byte("not json"))
	s.Empty(s.sender.events)
}

func (s *DispatcherSuite) TestUnknownEventDropped() {
	s.dispatch("sess-0", "dance", nil)
	s.Empty(s.sender.events)
}

// helpers

// sinkAllButOne has seat 0 hit every fleet cell except (4,1), with seat 1
// passing its turns on misses
func (s *DispatcherSuite) sinkAllButOne() {
	occupied := validBoard().OccupiedCells()
	miss := 0
	for _, c := range occupied {
		if c.Row == 4 && c.Col == 1 {
			continue
		}
		s.dispatch("sess-0", EventFire, FireRequest{R: intPtr(c.Row), C: intPtr(c.Col)})
		s.dispatch("sess-1", EventFire, FireRequest{
			R: intPtr(9 - miss/model.BoardSize),
			C: intPtr(miss % model.BoardSize),
		})
		miss++
	}
}

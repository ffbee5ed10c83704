package registry_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	"github.com/tableforge/tableforge/internal/pkg/idgen"
	"github.com/tableforge/tableforge/internal/registry"
	"github.com/tableforge/tableforge/internal/repositories/character"
	"github.com/tableforge/tableforge/internal/repositories/gamelog"
	"github.com/tableforge/tableforge/internal/repositories/participant"
	"github.com/tableforge/tableforge/internal/repositories/session"
	"github.com/tableforge/tableforge/internal/rules"
	"github.com/tableforge/tableforge/internal/testutils"
	"github.com/tableforge/tableforge/internal/world"
)

type publishedEvent struct {
	SessionID string
	Event     string
	Payload   interface{}
}

// recordingPublisher captures everything the registry announces
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(sessionID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{SessionID: sessionID, Event: event, Payload: payload})
}

func (p *recordingPublisher) byType(event string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []publishedEvent
	for _, e := range p.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type RegistryTestSuite struct {
	suite.Suite
	ctx     context.Context
	cleanup func()

	sessionRepo     session.Repository
	participantRepo participant.Repository
	characterRepo   character.Repository
	gameLogRepo     gamelog.Repository

	events  *recordingPublisher
	service registry.Service
}

func (s *RegistryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()

	clk := clock.NewFixed(time.Unix(1700000000, 0))

	var err error
	s.sessionRepo, err = session.NewRedisRepository(&session.Config{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.participantRepo, err = participant.NewRedisRepository(&participant.Config{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.characterRepo, err = character.NewRedisRepository(&character.Config{Client: client, Clock: clk})
	s.Require().NoError(err)
	s.gameLogRepo, err = gamelog.NewRedisRepository(&gamelog.Config{Client: client, Clock: clk})
	s.Require().NoError(err)

	s.events = &recordingPublisher{}
	s.service = s.newService(clk)
}

// newService builds a registry over the suite's shared repositories
func (s *RegistryTestSuite) newService(clk clock.Clock) registry.Service {
	svc, err := registry.NewService(&registry.Config{
		SessionRepo:            s.sessionRepo,
		ParticipantRepo:        s.participantRepo,
		CharacterRepo:          s.characterRepo,
		GameLogRepo:            s.gameLogRepo,
		SessionIDGenerator:     idgen.NewUUID("sess"),
		ParticipantIDGenerator: idgen.NewUUID("part"),
		CharacterIDGenerator:   idgen.NewUUID("char"),
		LogIDGenerator:         idgen.NewUUID("log"),
		Clock:                  clk,
		Roller:                 dice.NewRoller(rand.NewSource(7)),
		EventPublisher:         s.events,
	})
	s.Require().NoError(err)
	return svc
}

func (s *RegistryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RegistryTestSuite) createGame(name string, maxPlayers int32) *entities.Session {
	out, err := s.service.CreateGame(s.ctx, &registry.CreateGameInput{
		Name:       name,
		MaxPlayers: maxPlayers,
		OwnerID:    "user-owner",
		WorldSeed:  42,
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *RegistryTestSuite) joinGame(name, userID, playerName string) *registry.JoinGameOutput {
	out, err := s.service.JoinGame(s.ctx, &registry.JoinGameInput{
		SessionName: name,
		UserID:      userID,
		PlayerName:  playerName,
	})
	s.Require().NoError(err)
	return out
}

func (s *RegistryTestSuite) TestCreateGame() {
	sess := s.createGame("The Sunken Keep", 4)

	s.NotEmpty(sess.ID)
	s.Equal("The Sunken Keep", sess.Name)
	s.Equal(int32(4), sess.MaxPlayers)
	s.Equal(entities.StatusWaiting, sess.State.Status)
	s.True(sess.IsActive)
	s.Equal(int64(42), sess.WorldSeed)

	state, err := s.service.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Equal(20, state.World.Width)
	s.Equal(20, state.World.Height)
	s.Empty(state.Participants)
}

func (s *RegistryTestSuite) TestCreateGameDuplicateName() {
	s.createGame("Duplicate Keep", 4)

	_, err := s.service.CreateGame(s.ctx, &registry.CreateGameInput{Name: "Duplicate Keep"})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RegistryTestSuite) TestCreateGameRequiresName() {
	_, err := s.service.CreateGame(s.ctx, &registry.CreateGameInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RegistryTestSuite) TestJoinGameNewPlayer() {
	s.createGame("Starter Run", 4)

	out := s.joinGame("Starter Run", "user-1", "Alice")

	s.True(out.IsNewPlayer)
	s.Equal("Alice", out.Participant.Name)
	s.True(out.Participant.IsOnline)

	// New players get a playable starter fighter at the spawn tile
	s.Require().NotNil(out.Character)
	s.Equal("fighter", out.Character.Class)
	s.Equal(int32(1), out.Character.Level)
	s.Equal(entities.Position{X: 10, Y: 10}, out.Character.Position)
	s.Positive(out.Character.MaxHP)

	joined := s.events.byType(entities.EventPlayerJoined)
	s.Require().Len(joined, 1)
}

func (s *RegistryTestSuite) TestJoinGameFull() {
	s.createGame("Tiny Table", 1)
	s.joinGame("Tiny Table", "user-1", "Alice")

	_, err := s.service.JoinGame(s.ctx, &registry.JoinGameInput{
		SessionName: "Tiny Table",
		UserID:      "user-2",
		PlayerName:  "Bob",
	})
	s.Require().Error(err)
	s.True(errors.IsResourceExhausted(err))
}

func (s *RegistryTestSuite) TestJoinGameMissingSession() {
	_, err := s.service.JoinGame(s.ctx, &registry.JoinGameInput{
		SessionName: "no-such-table",
		UserID:      "user-1",
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RegistryTestSuite) TestJoinGameReconnect() {
	s.createGame("Tiny Table", 1)
	first := s.joinGame("Tiny Table", "user-1", "Alice")

	_, err := s.service.DisconnectPlayer(s.ctx, &registry.DisconnectPlayerInput{
		ParticipantID: first.Participant.ID,
	})
	s.Require().NoError(err)

	// Rejoining does not consume a seat even in a full session
	again := s.joinGame("Tiny Table", "user-1", "Alice")
	s.False(again.IsNewPlayer)
	s.Equal(first.Participant.ID, again.Participant.ID)
	s.True(again.Participant.IsOnline)
	s.Require().NotNil(again.Character)
	s.Equal(first.Character.ID, again.Character.ID)
}

func (s *RegistryTestSuite) TestJoinGameFinishedSession() {
	sess := s.createGame("Over Already", 4)

	for _, status := range []string{entities.StatusActive, entities.StatusFinished} {
		st := status
		_, err := s.service.UpdateGameState(s.ctx, &registry.UpdateGameStateInput{
			SessionID: sess.ID,
			Patch:     registry.StatePatch{Status: &st},
		})
		s.Require().NoError(err)
	}

	_, err := s.service.JoinGame(s.ctx, &registry.JoinGameInput{
		SessionName: "Over Already",
		UserID:      "user-1",
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

// findTile scans the generated world for a tile matching the predicate
func (s *RegistryTestSuite) findTile(sessionID string, match func(t *world.Tile) bool) (int, int) {
	state, err := s.service.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sessionID})
	s.Require().NoError(err)

	for x := 0; x < state.World.Width; x++ {
		for y := 0; y < state.World.Height; y++ {
			if match(state.World.TileAt(x, y)) {
				return x, y
			}
		}
	}
	s.FailNow("no matching tile in world")
	return 0, 0
}

func (s *RegistryTestSuite) TestMoveCharacterOutOfBounds() {
	sess := s.createGame("Walkabout", 4)
	out := s.joinGame("Walkabout", "user-1", "Alice")

	for _, pos := range []entities.Position{{X: -1, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 20}} {
		_, err := s.service.MoveCharacter(s.ctx, &registry.MoveCharacterInput{
			SessionID:     sess.ID,
			ParticipantID: out.Participant.ID,
			X:             pos.X,
			Y:             pos.Y,
		})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err), "expected validation error for (%d, %d)", pos.X, pos.Y)
	}
}

func (s *RegistryTestSuite) TestMoveCharacterImpassable() {
	sess := s.createGame("Walkabout", 4)
	out := s.joinGame("Walkabout", "user-1", "Alice")

	x, y := s.findTile(sess.ID, func(t *world.Tile) bool { return !t.Passable })

	_, err := s.service.MoveCharacter(s.ctx, &registry.MoveCharacterInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		X:             x,
		Y:             y,
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RegistryTestSuite) TestMoveCharacterCommits() {
	sess := s.createGame("Walkabout", 4)
	out := s.joinGame("Walkabout", "user-1", "Alice")

	x, y := s.findTile(sess.ID, func(t *world.Tile) bool { return t.Passable })

	moved, err := s.service.MoveCharacter(s.ctx, &registry.MoveCharacterInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		X:             x,
		Y:             y,
	})
	s.Require().NoError(err)
	s.Equal(entities.Position{X: x, Y: y}, moved.Character.Position)

	// Snapshot reflects the committed move
	state, err := s.service.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Require().Len(state.Characters, 1)
	s.Equal(entities.Position{X: x, Y: y}, state.Characters[0].Position)

	// And the move reached the store
	stored, err := s.characterRepo.Get(s.ctx, character.GetInput{ID: out.Character.ID})
	s.Require().NoError(err)
	s.Equal(entities.Position{X: x, Y: y}, stored.Character.Position)

	events := s.events.byType(entities.EventCharacterMoved)
	s.Require().Len(events, 1)
	payload, ok := events[0].Payload.(*registry.CharacterMovedEvent)
	s.Require().True(ok)
	s.Equal(entities.Position{X: x, Y: y}, payload.Position)
}

func (s *RegistryTestSuite) TestCreateCharacterReplacesStarter() {
	sess := s.createGame("Rebuild", 4)
	out := s.joinGame("Rebuild", "user-1", "Alice")

	built, err := s.service.CreateCharacter(s.ctx, &registry.CreateCharacterInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		Build: rulesInput("Mirabel", "elf", "wizard", "sage",
			[]int32{15, 14, 13, 12, 10, 8}, []string{"arcana", "investigation"}),
	})
	s.Require().NoError(err)

	s.Equal("wizard", built.Character.Class)
	// Identity and position carry over from the replaced sheet
	s.Equal(out.Character.ID, built.Character.ID)
	s.Equal(out.Character.Position, built.Character.Position)

	events := s.events.byType(entities.EventCharacterCreated)
	s.Require().Len(events, 1)
}

func (s *RegistryTestSuite) TestCreateCharacterInvalidSkills() {
	sess := s.createGame("Rebuild", 4)
	out := s.joinGame("Rebuild", "user-1", "Alice")

	_, err := s.service.CreateCharacter(s.ctx, &registry.CreateCharacterInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		Build: rulesInput("Mirabel", "elf", "wizard", "sage",
			[]int32{15, 14, 13, 12, 10, 8}, []string{"athletics", "intimidation"}),
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RegistryTestSuite) TestRollDice() {
	sess := s.createGame("Dice Night", 4)
	out := s.joinGame("Dice Night", "user-1", "Alice")

	rolled, err := s.service.RollDice(s.ctx, &registry.RollDiceInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		Command:       "/roll 2d6+3",
	})
	s.Require().NoError(err)

	s.GreaterOrEqual(rolled.Result.Total, int32(5))
	s.LessOrEqual(rolled.Result.Total, int32(15))
	s.Contains(rolled.Formatted, "Alice rolls")

	events := s.events.byType(entities.EventDiceRolled)
	s.Require().Len(events, 1)

	state, err := s.service.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sess.ID})
	s.Require().NoError(err)
	last := state.Log[len(state.Log)-1]
	s.Equal(entities.LogTypeDiceRoll, last.Type)
}

func (s *RegistryTestSuite) TestRollDiceFallsBackToD20() {
	sess := s.createGame("Dice Night", 4)
	out := s.joinGame("Dice Night", "user-1", "Alice")

	rolled, err := s.service.RollDice(s.ctx, &registry.RollDiceInput{
		SessionID:     sess.ID,
		ParticipantID: out.Participant.ID,
		Command:       "gibberish",
	})
	s.Require().NoError(err)
	s.Equal(int32(20), rolled.Result.Sides)
	s.Equal(int32(1), rolled.Result.Count)
}

func (s *RegistryTestSuite) TestGetTileInfo() {
	sess := s.createGame("Scout", 4)

	out, err := s.service.GetTileInfo(s.ctx, &registry.GetTileInfoInput{
		SessionID: sess.ID, X: 5, Y: 5,
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Tile.Type)
	s.Equal(world.Position{X: 5, Y: 5}, out.Position)

	_, err = s.service.GetTileInfo(s.ctx, &registry.GetTileInfoInput{
		SessionID: sess.ID, X: 20, Y: 0,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RegistryTestSuite) TestInteractWithTile() {
	sess := s.createGame("Scout", 4)
	joined := s.joinGame("Scout", "user-1", "Alice")

	x, y := s.findTile(sess.ID, func(t *world.Tile) bool { return len(t.Features) > 0 })

	out, err := s.service.InteractWithTile(s.ctx, &registry.InteractWithTileInput{
		SessionID:     sess.ID,
		ParticipantID: joined.Participant.ID,
		Action:        "search",
		X:             x,
		Y:             y,
	})
	s.Require().NoError(err)
	s.NotEmpty(out.Findings)
	s.Contains(out.Result, "You search the area")

	// Unknown actions narrate instead of failing
	out, err = s.service.InteractWithTile(s.ctx, &registry.InteractWithTileInput{
		SessionID:     sess.ID,
		ParticipantID: joined.Participant.ID,
		Action:        "dance",
		X:             x,
		Y:             y,
	})
	s.Require().NoError(err)
	s.Equal("Nothing happens.", out.Result)

	events := s.events.byType(entities.EventTileInteraction)
	s.Len(events, 2)
}

func (s *RegistryTestSuite) TestUpdateGameState() {
	sess := s.createGame("Turn Tracker", 4)

	active := entities.StatusActive
	round := int32(1)
	turn := "part-abc"
	out, err := s.service.UpdateGameState(s.ctx, &registry.UpdateGameStateInput{
		SessionID: sess.ID,
		Patch: registry.StatePatch{
			Status:      &active,
			CurrentTurn: &turn,
			Round:       &round,
		},
	})
	s.Require().NoError(err)
	s.Equal(entities.StatusActive, out.Session.State.Status)
	s.Equal(int32(1), out.Session.State.Round)
	s.Equal("part-abc", out.Session.State.CurrentTurn)

	// Unpatched fields survive the merge
	round2 := int32(2)
	out, err = s.service.UpdateGameState(s.ctx, &registry.UpdateGameStateInput{
		SessionID: sess.ID,
		Patch:     registry.StatePatch{Round: &round2},
	})
	s.Require().NoError(err)
	s.Equal("part-abc", out.Session.State.CurrentTurn)
	s.Equal(entities.StatusActive, out.Session.State.Status)
	s.Equal(int32(2), out.Session.State.Round)
}

func (s *RegistryTestSuite) TestUpdateGameStateRejectsBadTransitions() {
	sess := s.createGame("Turn Tracker", 4)

	// The round cannot move before the game starts
	round := int32(1)
	_, err := s.service.UpdateGameState(s.ctx, &registry.UpdateGameStateInput{
		SessionID: sess.ID,
		Patch:     registry.StatePatch{Round: &round},
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	// waiting cannot jump straight to finished
	finished := entities.StatusFinished
	_, err = s.service.UpdateGameState(s.ctx, &registry.UpdateGameStateInput{
		SessionID: sess.ID,
		Patch:     registry.StatePatch{Status: &finished},
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RegistryTestSuite) TestLogActionChat() {
	sess := s.createGame("Tavern Talk", 4)
	joined := s.joinGame("Tavern Talk", "user-1", "Alice")

	out, err := s.service.LogAction(s.ctx, &registry.LogActionInput{
		SessionID:     sess.ID,
		ParticipantID: joined.Participant.ID,
		Type:          entities.LogTypeChat,
		Message:       "well met, travelers",
	})
	s.Require().NoError(err)
	s.Equal(entities.LogTypeChat, out.Entry.Type)

	events := s.events.byType(entities.EventChatMessage)
	s.Require().Len(events, 1)
	payload, ok := events[0].Payload.(*registry.ChatMessageEvent)
	s.Require().True(ok)
	s.Equal("Alice", payload.PlayerName)
	s.Equal("well met, travelers", payload.Message)
}

func (s *RegistryTestSuite) TestDisconnectPlayerIdempotent() {
	s.createGame("Flaky Wifi", 4)
	joined := s.joinGame("Flaky Wifi", "user-1", "Alice")

	out, err := s.service.DisconnectPlayer(s.ctx, &registry.DisconnectPlayerInput{
		ParticipantID: joined.Participant.ID,
	})
	s.Require().NoError(err)
	s.True(out.Disconnected)

	// Repeating the disconnect changes nothing
	out, err = s.service.DisconnectPlayer(s.ctx, &registry.DisconnectPlayerInput{
		ParticipantID: joined.Participant.ID,
	})
	s.Require().NoError(err)
	s.False(out.Disconnected)

	out, err = s.service.DisconnectPlayer(s.ctx, &registry.DisconnectPlayerInput{
		ParticipantID: "part_unknown",
	})
	s.Require().NoError(err)
	s.False(out.Disconnected)

	events := s.events.byType(entities.EventPlayerDisconnected)
	s.Len(events, 1)
}

func (s *RegistryTestSuite) TestRestoreFromStore() {
	sess := s.createGame("Long Campaign", 4)
	joined := s.joinGame("Long Campaign", "user-1", "Alice")

	x, y := s.findTile(sess.ID, func(t *world.Tile) bool { return t.Passable })
	_, err := s.service.MoveCharacter(s.ctx, &registry.MoveCharacterInput{
		SessionID:     sess.ID,
		ParticipantID: joined.Participant.ID,
		X:             x,
		Y:             y,
	})
	s.Require().NoError(err)

	// A fresh registry over the same store stands in for a restart
	restarted := s.newService(clock.NewFixed(time.Unix(1700000100, 0)))

	state, err := restarted.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sess.ID})
	s.Require().NoError(err)

	s.Equal(sess.Name, state.Session.Name)
	s.Equal(sess.WorldSeed, state.Session.WorldSeed)
	s.Require().Len(state.Participants, 1)
	s.Equal("Alice", state.Participants[0].Name)
	s.Require().Len(state.Characters, 1)
	s.Equal(entities.Position{X: x, Y: y}, state.Characters[0].Position)

	// The world is re-derived from the seed, bit for bit
	original, err := s.service.GetGameState(s.ctx, &registry.GetGameStateInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Equal(original.World.Tiles, state.World.Tiles)
}

func rulesInput(name, race, class, background string, scores []int32, skills []string) rules.BuildInput {
	return rules.BuildInput{
		Name:          name,
		Race:          race,
		Class:         class,
		Background:    background,
		AbilityScores: scores,
		SkillChoices:  skills,
	}
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

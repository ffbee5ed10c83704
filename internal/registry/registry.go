// Package registry implements the session orchestrator. It owns the
// authoritative in-memory state of every live session and is the only
// writer of session, participant, and character records.
package registry

//go:generate mockgen -destination=mock/mock_service.go -package=registrymock github.com/tableforge/tableforge/internal/registry Service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	"github.com/tableforge/tableforge/internal/pkg/idgen"
	"github.com/tableforge/tableforge/internal/repositories/character"
	"github.com/tableforge/tableforge/internal/repositories/gamelog"
	"github.com/tableforge/tableforge/internal/repositories/participant"
	"github.com/tableforge/tableforge/internal/repositories/session"
	"github.com/tableforge/tableforge/internal/world"
)

const (
	// DefaultMaxPlayers caps a session's roster when the creator
	// doesn't ask for a specific size
	DefaultMaxPlayers = 6

	// Default world grid dimensions
	DefaultWorldWidth  = 20
	DefaultWorldHeight = 20

	// DefaultLogTailLimit is how many trailing log entries a state
	// snapshot carries
	DefaultLogTailLimit = 50

	// Spawn tile for freshly joined players
	spawnX = 10
	spawnY = 10
)

// Service defines the interface for session orchestration
type Service interface {
	// Session lifecycle
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)
	GetGameState(ctx context.Context, input *GetGameStateInput) (*GetGameStateOutput, error)
	UpdateGameState(ctx context.Context, input *UpdateGameStateInput) (*UpdateGameStateOutput, error)
	DisconnectPlayer(ctx context.Context, input *DisconnectPlayerInput) (*DisconnectPlayerOutput, error)

	// Character operations
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	MoveCharacter(ctx context.Context, input *MoveCharacterInput) (*MoveCharacterOutput, error)

	// In-session actions
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)
	GetTileInfo(ctx context.Context, input *GetTileInfoInput) (*GetTileInfoOutput, error)
	InteractWithTile(ctx context.Context, input *InteractWithTileInput) (*InteractWithTileOutput, error)
	LogAction(ctx context.Context, input *LogActionInput) (*LogActionOutput, error)
}

// EventPublisher fans an event out to every connection in a session
// room. Publish must not block: implementations drop or buffer, they
// never stall the caller.
type EventPublisher interface {
	Publish(sessionID string, event string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, string, interface{}) {}

// Config holds the dependencies for the session registry
type Config struct {
	SessionRepo     session.Repository
	ParticipantRepo participant.Repository
	CharacterRepo   character.Repository
	GameLogRepo     gamelog.Repository

	SessionIDGenerator     idgen.Generator
	ParticipantIDGenerator idgen.Generator
	CharacterIDGenerator   idgen.Generator
	LogIDGenerator         idgen.Generator

	Clock  clock.Clock
	Roller *dice.Roller

	// EventPublisher receives every broadcast-worthy mutation. Nil
	// means events are discarded, which is what tests want.
	EventPublisher EventPublisher

	Logger *slog.Logger

	// Zero values fall back to the package defaults
	WorldWidth   int
	WorldHeight  int
	MaxPlayers   int32
	LogTailLimit int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.ParticipantRepo == nil {
		vb.RequiredField("ParticipantRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.GameLogRepo == nil {
		vb.RequiredField("GameLogRepo")
	}
	if c.SessionIDGenerator == nil {
		vb.RequiredField("SessionIDGenerator")
	}
	if c.ParticipantIDGenerator == nil {
		vb.RequiredField("ParticipantIDGenerator")
	}
	if c.CharacterIDGenerator == nil {
		vb.RequiredField("CharacterIDGenerator")
	}
	if c.LogIDGenerator == nil {
		vb.RequiredField("LogIDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// liveSession is the authoritative in-memory state of one session.
// Every field below mu is read and written only while mu is held;
// the world grid is immutable after generation and may be shared.
type liveSession struct {
	mu sync.Mutex

	session      *entities.Session
	world        *world.World
	participants map[string]*entities.Participant // keyed by participant ID
	characters   map[string]*entities.Character   // keyed by participant ID
	logTail      []*entities.LogEntry
}

type registry struct {
	sessionRepo     session.Repository
	participantRepo participant.Repository
	characterRepo   character.Repository
	gameLogRepo     gamelog.Repository

	sessionIDs     idgen.Generator
	participantIDs idgen.Generator
	characterIDs   idgen.Generator
	logIDs         idgen.Generator

	clock  clock.Clock
	roller *dice.Roller
	rollMu sync.Mutex
	events EventPublisher
	logger *slog.Logger

	worldWidth   int
	worldHeight  int
	maxPlayers   int32
	logTailLimit int

	// mu guards the three indexes below. It is never held while a
	// liveSession mutex is held.
	mu    sync.RWMutex
	live  map[string]*liveSession
	names map[string]string // session name -> session ID
	homes map[string]string // participant ID -> session ID
}

// NewService creates a session registry with the provided dependencies
func NewService(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	events := cfg.EventPublisher
	if events == nil {
		events = nopPublisher{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &registry{
		sessionRepo:     cfg.SessionRepo,
		participantRepo: cfg.ParticipantRepo,
		characterRepo:   cfg.CharacterRepo,
		gameLogRepo:     cfg.GameLogRepo,
		sessionIDs:      cfg.SessionIDGenerator,
		participantIDs:  cfg.ParticipantIDGenerator,
		characterIDs:    cfg.CharacterIDGenerator,
		logIDs:          cfg.LogIDGenerator,
		clock:           cfg.Clock,
		roller:          cfg.Roller,
		events:          events,
		logger:          logger,
		worldWidth:      cfg.WorldWidth,
		worldHeight:     cfg.WorldHeight,
		maxPlayers:      cfg.MaxPlayers,
		logTailLimit:    cfg.LogTailLimit,
		live:            make(map[string]*liveSession),
		names:           make(map[string]string),
		homes:           make(map[string]string),
	}

	if r.worldWidth <= 0 {
		r.worldWidth = DefaultWorldWidth
	}
	if r.worldHeight <= 0 {
		r.worldHeight = DefaultWorldHeight
	}
	if r.maxPlayers <= 0 {
		r.maxPlayers = DefaultMaxPlayers
	}
	if r.logTailLimit <= 0 {
		r.logTailLimit = DefaultLogTailLimit
	}

	return r, nil
}

var _ Service = (*registry)(nil)

// getLive returns the live state for a session, loading it from the
// store on first touch after a restart.
func (r *registry) getLive(ctx context.Context, sessionID string) (*liveSession, error) {
	r.mu.RLock()
	ls, ok := r.live[sessionID]
	r.mu.RUnlock()
	if ok {
		return ls, nil
	}

	got, err := r.sessionRepo.Get(ctx, session.GetInput{ID: sessionID})
	if err != nil {
		return nil, err
	}

	return r.restore(ctx, got.Session)
}

// getLiveByName resolves a session through the name index
func (r *registry) getLiveByName(ctx context.Context, name string) (*liveSession, error) {
	r.mu.RLock()
	id, ok := r.names[name]
	r.mu.RUnlock()
	if ok {
		return r.getLive(ctx, id)
	}

	got, err := r.sessionRepo.GetByName(ctx, session.GetByNameInput{Name: name})
	if err != nil {
		return nil, err
	}

	return r.restore(ctx, got.Session)
}

// restore rebuilds live state from the store. The world grid is
// re-derived from the persisted seed, never deserialized.
func (r *registry) restore(ctx context.Context, sess *entities.Session) (*liveSession, error) {
	w := world.Generate(sess.WorldWidth, sess.WorldHeight, sess.WorldSeed, nil)

	roster, err := r.participantRepo.ListBySession(ctx, participant.ListBySessionInput{SessionID: sess.ID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore roster for session %s", sess.ID)
	}

	participants := make(map[string]*entities.Participant, len(roster.Participants))
	characters := make(map[string]*entities.Character, len(roster.Participants))
	for _, p := range roster.Participants {
		participants[p.ID] = p

		got, err := r.characterRepo.GetByParticipant(ctx, character.GetByParticipantInput{ParticipantID: p.ID})
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to restore character for participant %s", p.ID)
		}
		characters[p.ID] = got.Character
	}

	tail, err := r.gameLogRepo.Tail(ctx, gamelog.TailInput{SessionID: sess.ID, Limit: r.logTailLimit})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore log for session %s", sess.ID)
	}

	ls := &liveSession{
		session:      sess,
		world:        w,
		participants: participants,
		characters:   characters,
		logTail:      tail.Entries,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have restored the same session concurrently
	if existing, ok := r.live[sess.ID]; ok {
		return existing, nil
	}

	r.live[sess.ID] = ls
	r.names[sess.Name] = sess.ID
	for id := range participants {
		r.homes[id] = sess.ID
	}
	return ls, nil
}

// newLogEntry stamps identity and time onto a log entry
func (r *registry) newLogEntry(sessionID, participantID, entryType, message string, data map[string]interface{}) *entities.LogEntry {
	return &entities.LogEntry{
		ID:            r.logIDs.Generate(),
		SessionID:     sessionID,
		ParticipantID: participantID,
		Type:          entryType,
		Message:       message,
		Data:          data,
		Timestamp:     r.clock.Now().Unix(),
	}
}

// appendTailLocked adds an entry to the in-memory tail, trimming it to
// the configured limit. Caller holds ls.mu.
func (r *registry) appendTailLocked(ls *liveSession, entry *entities.LogEntry) {
	ls.logTail = append(ls.logTail, entry)
	if len(ls.logTail) > r.logTailLimit {
		ls.logTail = ls.logTail[len(ls.logTail)-r.logTailLimit:]
	}
}

// persistEntry is the write-behind half of a log append. State has
// already been committed in memory; a store failure only costs
// durability of the tail, so it is logged and swallowed.
func (r *registry) persistEntry(ctx context.Context, entry *entities.LogEntry) {
	if _, err := r.gameLogRepo.Append(ctx, gamelog.AppendInput{Entry: entry}); err != nil {
		r.logger.Warn("failed to persist log entry",
			"session_id", entry.SessionID,
			"type", entry.Type,
			"error", err)
	}
}

// persistSession is the write-behind half of a session mutation
func (r *registry) persistSession(ctx context.Context, sess *entities.Session) {
	if _, err := r.sessionRepo.Update(ctx, session.UpdateInput{Session: sess}); err != nil {
		r.logger.Warn("failed to persist session",
			"session_id", sess.ID,
			"error", err)
	}
}

// persistParticipant is the write-behind half of a participant mutation
func (r *registry) persistParticipant(ctx context.Context, p *entities.Participant) {
	if _, err := r.participantRepo.Update(ctx, participant.UpdateInput{Participant: p}); err != nil {
		r.logger.Warn("failed to persist participant",
			"participant_id", p.ID,
			"error", err)
	}
}

func copySession(s *entities.Session) *entities.Session {
	cp := *s
	cp.State.TurnOrder = append([]string(nil), s.State.TurnOrder...)
	return &cp
}

func copyParticipant(p *entities.Participant) *entities.Participant {
	cp := *p
	return &cp
}

// copyCharacter takes a value snapshot. Slice and map fields are
// shared: the registry never mutates them in place, it replaces the
// whole sheet.
func copyCharacter(c *entities.Character) *entities.Character {
	cp := *c
	return &cp
}

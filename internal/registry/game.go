package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/repositories/character"
	"github.com/tableforge/tableforge/internal/repositories/participant"
	"github.com/tableforge/tableforge/internal/repositories/session"
	"github.com/tableforge/tableforge/internal/rules"
	"github.com/tableforge/tableforge/internal/world"
)

// CreateGame creates a session, claims its name, and generates its
// world. The store claim is the uniqueness arbiter, so two racing
// creates with the same name resolve to exactly one winner.
func (r *registry) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("session name is required")
	}
	if input.MaxPlayers < 0 {
		return nil, errors.InvalidArgument("max players cannot be negative")
	}

	r.mu.RLock()
	_, taken := r.names[input.Name]
	r.mu.RUnlock()
	if taken {
		return nil, errors.AlreadyExistsf("session name %q is already taken", input.Name)
	}

	now := r.clock.Now()

	maxPlayers := input.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = r.maxPlayers
	}
	width := input.WorldWidth
	if width <= 0 {
		width = r.worldWidth
	}
	height := input.WorldHeight
	if height <= 0 {
		height = r.worldHeight
	}
	seed := input.WorldSeed
	if seed == 0 {
		seed = now.UnixNano()
	}

	sess := &entities.Session{
		ID:          r.sessionIDs.Generate(),
		Name:        input.Name,
		Description: input.Description,
		MaxPlayers:  maxPlayers,
		IsPrivate:   input.IsPrivate,
		IsActive:    true,
		OwnerID:     input.OwnerID,
		State: entities.GameState{
			Status:    entities.StatusWaiting,
			TurnOrder: []string{},
			Round:     0,
		},
		WorldSeed:   seed,
		WorldWidth:  width,
		WorldHeight: height,
	}

	created, err := r.sessionRepo.Create(ctx, session.CreateInput{Session: sess})
	if err != nil {
		return nil, err
	}
	sess = created.Session

	ls := &liveSession{
		session:      sess,
		world:        world.Generate(width, height, seed, nil),
		participants: make(map[string]*entities.Participant),
		characters:   make(map[string]*entities.Character),
	}

	entry := r.newLogEntry(sess.ID, "", entities.LogTypeSystem,
		fmt.Sprintf("session %q created", sess.Name), nil)
	ls.logTail = []*entities.LogEntry{entry}

	// A join racing this create may have already restored the session
	// by name. That entry is live and may carry committed mutations,
	// so it wins; overwriting it would lose them.
	r.mu.Lock()
	existing, restored := r.live[sess.ID]
	if restored {
		ls = existing
	} else {
		r.live[sess.ID] = ls
	}
	r.names[sess.Name] = sess.ID
	r.mu.Unlock()

	if !restored {
		r.persistEntry(ctx, entry)
	}

	r.logger.Info("session created",
		"session_id", sess.ID,
		"name", sess.Name,
		"seed", seed)

	return &CreateGameOutput{Session: copySession(sess)}, nil
}

// JoinGame adds a player to a session, or reconnects them if they were
// already a member. New players get a starter character at the spawn
// tile so they can act immediately.
func (r *registry) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionName == "" {
		return nil, errors.InvalidArgument("session name is required")
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	playerName := input.PlayerName
	if playerName == "" {
		playerName = "Adventurer"
	}

	ls, err := r.getLiveByName(ctx, input.SessionName)
	if err != nil {
		return nil, err
	}

	// Precheck under the lock; records are created outside it and the
	// conditions re-validated on attach.
	ls.mu.Lock()
	if out, err := r.admitLocked(ls, input.UserID); out != nil || err != nil {
		ls.mu.Unlock()
		if err != nil {
			return nil, err
		}
		r.persistParticipant(ctx, out.Participant)
		r.persistEntry(ctx, out.entry)
		return out.JoinGameOutput, nil
	}
	sessionID := ls.session.ID
	ls.mu.Unlock()

	part := &entities.Participant{
		ID:        r.participantIDs.Generate(),
		UserID:    input.UserID,
		Name:      playerName,
		SessionID: sessionID,
		IsHost:    input.UserID != "" && input.UserID == r.ownerOf(ls),
		IsOnline:  true,
		LastSeen:  r.clock.Now().Unix(),
	}

	ch, err := r.starterCharacter(part, ls)
	if err != nil {
		return nil, err
	}

	if _, err := r.participantRepo.Create(ctx, participant.CreateInput{Participant: part}); err != nil {
		return nil, errors.Wrapf(err, "failed to store participant for user %s", input.UserID)
	}
	if _, err := r.characterRepo.Create(ctx, character.CreateInput{Character: ch}); err != nil {
		r.discardParticipant(ctx, part.ID)
		return nil, errors.Wrapf(err, "failed to store starter character for user %s", input.UserID)
	}

	ls.mu.Lock()
	// Someone may have joined, rejoined, or filled the session while
	// the records were being written.
	if out, rejoinErr := r.admitLocked(ls, input.UserID); out != nil || rejoinErr != nil {
		ls.mu.Unlock()
		r.discardCharacter(ctx, ch.ID)
		r.discardParticipant(ctx, part.ID)
		if rejoinErr != nil {
			return nil, rejoinErr
		}
		r.persistParticipant(ctx, out.Participant)
		r.persistEntry(ctx, out.entry)
		return out.JoinGameOutput, nil
	}

	ls.participants[part.ID] = part
	ls.characters[part.ID] = ch

	entry := r.newLogEntry(sessionID, part.ID, entities.LogTypeSystem,
		fmt.Sprintf("%s joined the game", part.Name), nil)
	r.appendTailLocked(ls, entry)

	out := &JoinGameOutput{
		Session:     copySession(ls.session),
		Participant: copyParticipant(part),
		Character:   copyCharacter(ch),
		IsNewPlayer: true,
	}

	r.events.Publish(sessionID, entities.EventPlayerJoined, &PlayerJoinedEvent{
		Participant: out.Participant,
		Character:   out.Character,
		IsNewPlayer: true,
	})
	ls.mu.Unlock()

	r.mu.Lock()
	r.homes[part.ID] = sessionID
	r.mu.Unlock()

	r.persistEntry(ctx, entry)

	r.logger.Info("player joined",
		"session_id", sessionID,
		"participant_id", part.ID,
		"player", part.Name)

	return out, nil
}

type admitResult struct {
	*JoinGameOutput
	entry *entities.LogEntry
}

// admitLocked handles the join paths that need no new records: it
// rejects closed or full sessions and reconnects returning members.
// A (nil, nil) return means the caller should admit a new player.
// Caller holds ls.mu.
func (r *registry) admitLocked(ls *liveSession, userID string) (*admitResult, error) {
	if !ls.session.IsActive || ls.session.State.Status == entities.StatusFinished {
		return nil, errors.FailedPreconditionf("session %q has finished", ls.session.Name)
	}

	for _, p := range ls.participants {
		if p.UserID != userID {
			continue
		}

		p.IsOnline = true
		p.LastSeen = r.clock.Now().Unix()

		entry := r.newLogEntry(ls.session.ID, p.ID, entities.LogTypeSystem,
			fmt.Sprintf("%s reconnected", p.Name), nil)
		r.appendTailLocked(ls, entry)

		out := &JoinGameOutput{
			Session:     copySession(ls.session),
			Participant: copyParticipant(p),
			IsNewPlayer: false,
		}
		if ch, ok := ls.characters[p.ID]; ok {
			out.Character = copyCharacter(ch)
		}

		r.events.Publish(ls.session.ID, entities.EventPlayerJoined, &PlayerJoinedEvent{
			Participant: out.Participant,
			Character:   out.Character,
			IsNewPlayer: false,
		})

		return &admitResult{JoinGameOutput: out, entry: entry}, nil
	}

	if int32(len(ls.participants)) >= ls.session.MaxPlayers {
		return nil, errors.ResourceExhaustedf("session %q is full (%d/%d players)",
			ls.session.Name, len(ls.participants), ls.session.MaxPlayers)
	}

	return nil, nil
}

func (r *registry) ownerOf(ls *liveSession) string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.session.OwnerID
}

// starterCharacter builds the default first-level fighter every new
// player receives, placed at the spawn tile.
func (r *registry) starterCharacter(part *entities.Participant, ls *liveSession) (*entities.Character, error) {
	ch, _, err := rules.BuildCharacter(rules.BuildInput{
		Name:          part.Name,
		Race:          "human",
		Class:         "fighter",
		Background:    "soldier",
		AbilityScores: rules.StandardArray(),
		SkillChoices:  []string{"perception", "survival"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build starter character")
	}

	now := r.clock.Now().Unix()
	ch.ID = r.characterIDs.Generate()
	ch.ParticipantID = part.ID
	ch.Position = r.spawnPosition(ls)
	ch.CreatedAt = now
	ch.UpdatedAt = now
	return ch, nil
}

// spawnPosition clamps the default spawn tile into the world bounds
func (r *registry) spawnPosition(ls *liveSession) entities.Position {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	x, y := spawnX, spawnY
	if x >= ls.world.Width {
		x = ls.world.Width - 1
	}
	if y >= ls.world.Height {
		y = ls.world.Height - 1
	}
	return entities.Position{X: x, Y: y}
}

// discardParticipant rolls back a participant record created for a
// join that lost its re-validation
func (r *registry) discardParticipant(ctx context.Context, id string) {
	if _, err := r.participantRepo.Delete(ctx, participant.DeleteInput{ID: id}); err != nil {
		r.logger.Warn("failed to roll back participant", "participant_id", id, "error", err)
	}
}

func (r *registry) discardCharacter(ctx context.Context, id string) {
	if _, err := r.characterRepo.Delete(ctx, character.DeleteInput{ID: id}); err != nil {
		r.logger.Warn("failed to roll back character", "character_id", id, "error", err)
	}
}

// GetGameState returns a snapshot of the live session. It reads only
// memory, so it always reflects the latest committed mutation.
func (r *registry) GetGameState(ctx context.Context, input *GetGameStateInput) (*GetGameStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	out := &GetGameStateOutput{
		Session:      copySession(ls.session),
		Participants: make([]*entities.Participant, 0, len(ls.participants)),
		Characters:   make([]*entities.Character, 0, len(ls.characters)),
		World:        ls.world,
		Log:          append([]*entities.LogEntry(nil), ls.logTail...),
	}

	ids := make([]string, 0, len(ls.participants))
	for id := range ls.participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		out.Participants = append(out.Participants, copyParticipant(ls.participants[id]))
		if ch, ok := ls.characters[id]; ok {
			out.Characters = append(out.Characters, copyCharacter(ch))
		}
	}

	return out, nil
}

// UpdateGameState applies a shallow merge onto the session's game
// state. Status changes must follow waiting, active, finished in
// order, and the round counter only moves while the session is active.
func (r *registry) UpdateGameState(ctx context.Context, input *UpdateGameStateInput) (*UpdateGameStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()

	state := ls.session.State

	if input.Patch.Status != nil && *input.Patch.Status != state.Status {
		next := *input.Patch.Status
		if !validTransition(state.Status, next) {
			ls.mu.Unlock()
			return nil, errors.InvalidArgumentf("cannot change session status from %s to %s", state.Status, next)
		}
		state.Status = next
	}
	if input.Patch.CurrentTurn != nil {
		state.CurrentTurn = *input.Patch.CurrentTurn
	}
	if input.Patch.TurnOrder != nil {
		state.TurnOrder = append([]string(nil), (*input.Patch.TurnOrder)...)
	}
	if input.Patch.Round != nil && *input.Patch.Round != state.Round {
		if *input.Patch.Round < state.Round {
			ls.mu.Unlock()
			return nil, errors.InvalidArgument("round cannot move backwards")
		}
		if state.Status != entities.StatusActive {
			ls.mu.Unlock()
			return nil, errors.FailedPrecondition("round only advances while the session is active")
		}
		state.Round = *input.Patch.Round
	}

	ls.session.State = state
	if state.Status == entities.StatusFinished {
		ls.session.IsActive = false
	}
	ls.session.UpdatedAt = r.clock.Now().Unix()

	snapshot := copySession(ls.session)

	var entry *entities.LogEntry
	if input.Patch.Status != nil {
		entry = r.newLogEntry(ls.session.ID, "", entities.LogTypeSystem,
			fmt.Sprintf("game is now %s", state.Status), nil)
		r.appendTailLocked(ls, entry)
	}

	r.events.Publish(ls.session.ID, entities.EventGameStateUpdated, &GameStateUpdatedEvent{
		State: snapshot.State,
	})
	ls.mu.Unlock()

	r.persistSession(ctx, snapshot)
	if entry != nil {
		r.persistEntry(ctx, entry)
	}

	return &UpdateGameStateOutput{Session: snapshot}, nil
}

func validTransition(from, to string) bool {
	switch from {
	case entities.StatusWaiting:
		return to == entities.StatusActive
	case entities.StatusActive:
		return to == entities.StatusFinished
	default:
		return false
	}
}

// DisconnectPlayer marks a participant offline. The character and the
// membership survive; only presence changes. Disconnecting an unknown
// or already offline participant is a no-op.
func (r *registry) DisconnectPlayer(ctx context.Context, input *DisconnectPlayerInput) (*DisconnectPlayerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	r.mu.RLock()
	sessionID, ok := r.homes[input.ParticipantID]
	r.mu.RUnlock()

	if !ok {
		got, err := r.participantRepo.Get(ctx, participant.GetInput{ID: input.ParticipantID})
		if err != nil {
			if errors.IsNotFound(err) {
				return &DisconnectPlayerOutput{}, nil
			}
			return nil, err
		}
		sessionID = got.Participant.SessionID
	}

	ls, err := r.getLive(ctx, sessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			return &DisconnectPlayerOutput{}, nil
		}
		return nil, err
	}

	ls.mu.Lock()
	p, ok := ls.participants[input.ParticipantID]
	if !ok || !p.IsOnline {
		ls.mu.Unlock()
		return &DisconnectPlayerOutput{SessionID: sessionID}, nil
	}

	p.IsOnline = false
	p.LastSeen = r.clock.Now().Unix()
	snapshot := copyParticipant(p)

	entry := r.newLogEntry(sessionID, p.ID, entities.LogTypeSystem,
		fmt.Sprintf("%s left the game", p.Name), nil)
	r.appendTailLocked(ls, entry)

	r.events.Publish(sessionID, entities.EventPlayerDisconnected, &PlayerDisconnectedEvent{
		ParticipantID: p.ID,
		PlayerName:    p.Name,
	})
	ls.mu.Unlock()

	r.persistParticipant(ctx, snapshot)
	r.persistEntry(ctx, entry)

	return &DisconnectPlayerOutput{SessionID: sessionID, Disconnected: true}, nil
}

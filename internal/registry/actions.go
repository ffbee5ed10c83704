package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/tableforge/tableforge/internal/dice"
	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/repositories/character"
	"github.com/tableforge/tableforge/internal/rules"
	"github.com/tableforge/tableforge/internal/world"
)

// CreateCharacter runs the build engine and swaps the result in for
// the participant's current sheet. The new character keeps the old
// one's position and identity, so the swap is invisible to movement.
func (r *registry) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	if _, ok := ls.participants[input.ParticipantID]; !ok {
		ls.mu.Unlock()
		return nil, errors.NotFoundf("participant %s is not in session %s", input.ParticipantID, input.SessionID)
	}
	prior := ls.characters[input.ParticipantID]
	ls.mu.Unlock()

	built, validation, err := rules.BuildCharacter(input.Build)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now().Unix()
	built.ParticipantID = input.ParticipantID
	built.UpdatedAt = now
	if prior != nil {
		built.ID = prior.ID
		built.Position = prior.Position
		built.CreatedAt = prior.CreatedAt
	} else {
		built.ID = r.characterIDs.Generate()
		built.Position = r.spawnPosition(ls)
		built.CreatedAt = now
	}

	ls.mu.Lock()
	ls.characters[input.ParticipantID] = built

	entry := r.newLogEntry(input.SessionID, input.ParticipantID, entities.LogTypeSystem,
		fmt.Sprintf("%s created a level %d %s %s", built.Name, built.Level, built.Race, built.Class), nil)
	r.appendTailLocked(ls, entry)

	snapshot := copyCharacter(built)
	r.events.Publish(input.SessionID, entities.EventCharacterCreated, &CharacterCreatedEvent{
		Character: snapshot,
	})
	ls.mu.Unlock()

	if prior != nil {
		if _, err := r.characterRepo.Update(ctx, character.UpdateInput{Character: snapshot}); err != nil {
			r.logger.Warn("failed to persist character", "character_id", snapshot.ID, "error", err)
		}
	} else {
		if _, err := r.characterRepo.Create(ctx, character.CreateInput{Character: snapshot}); err != nil {
			r.logger.Warn("failed to persist character", "character_id", snapshot.ID, "error", err)
		}
	}
	r.persistEntry(ctx, entry)

	out := &CreateCharacterOutput{Character: snapshot}
	if validation != nil {
		out.Warnings = validation.Warnings
	}
	return out, nil
}

// MoveCharacter commits a position change after bounds and terrain
// checks against the session's world grid.
func (r *registry) MoveCharacter(ctx context.Context, input *MoveCharacterInput) (*MoveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	ch, ok := ls.characters[input.ParticipantID]
	if !ok {
		ls.mu.Unlock()
		return nil, errors.NotFoundf("participant %s has no character in session %s", input.ParticipantID, input.SessionID)
	}

	if !ls.world.InBounds(input.X, input.Y) {
		ls.mu.Unlock()
		return nil, errors.InvalidArgumentf("position (%d, %d) is outside the world", input.X, input.Y)
	}
	if !ls.world.IsPassable(input.X, input.Y) {
		ls.mu.Unlock()
		return nil, errors.InvalidArgumentf("tile (%d, %d) is impassable", input.X, input.Y)
	}

	ch.Position = entities.Position{X: input.X, Y: input.Y}
	ch.UpdatedAt = r.clock.Now().Unix()
	snapshot := copyCharacter(ch)

	entry := r.newLogEntry(input.SessionID, input.ParticipantID, entities.LogTypeAction,
		fmt.Sprintf("%s moved to (%d, %d)", ch.Name, input.X, input.Y), nil)
	r.appendTailLocked(ls, entry)

	r.events.Publish(input.SessionID, entities.EventCharacterMoved, &CharacterMovedEvent{
		ParticipantID: input.ParticipantID,
		Position:      snapshot.Position,
	})
	ls.mu.Unlock()

	pos := snapshot.Position
	if _, err := r.characterRepo.UpdateFields(ctx, character.UpdateFieldsInput{
		ID:    snapshot.ID,
		Patch: character.Patch{Position: &pos},
	}); err != nil {
		r.logger.Warn("failed to persist move", "character_id", snapshot.ID, "error", err)
	}
	r.persistEntry(ctx, entry)

	return &MoveCharacterOutput{Character: snapshot}, nil
}

// RollDice resolves roll notation for a participant and announces the
// result to the room. Unparseable commands fall back to a single d20.
func (r *registry) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	p, ok := ls.participants[input.ParticipantID]
	if !ok {
		ls.mu.Unlock()
		return nil, errors.NotFoundf("participant %s is not in session %s", input.ParticipantID, input.SessionID)
	}

	r.rollMu.Lock()
	result := r.roller.Resolve(input.Command)
	r.rollMu.Unlock()

	formatted := dice.FormatResult(result, p.Name)

	entry := r.newLogEntry(input.SessionID, input.ParticipantID, entities.LogTypeDiceRoll,
		formatted, map[string]interface{}{
			"command": result.Command,
			"total":   result.Total,
			"rolls":   result.Rolls,
		})
	r.appendTailLocked(ls, entry)

	r.events.Publish(input.SessionID, entities.EventDiceRolled, &DiceRolledEvent{
		ParticipantID: input.ParticipantID,
		PlayerName:    p.Name,
		Result:        result,
		Formatted:     formatted,
	})
	ls.mu.Unlock()

	r.persistEntry(ctx, entry)

	return &RollDiceOutput{Result: result, Formatted: formatted}, nil
}

// GetTileInfo returns the tile at a position. This is a read, not an
// interaction: nothing is logged or announced.
func (r *registry) GetTileInfo(ctx context.Context, input *GetTileInfoInput) (*GetTileInfoOutput, error) {
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
	tile := ls.world.TileAt(input.X, input.Y)
	ls.mu.Unlock()

	if tile == nil {
		return nil, errors.NotFoundf("no tile at (%d, %d)", input.X, input.Y)
	}

	snapshot := *tile
	return &GetTileInfoOutput{
		Position: world.Position{X: input.X, Y: input.Y},
		Tile:     &snapshot,
	}, nil
}

// InteractWithTile dispatches a read-only interaction against a tile
// and tells the room what happened.
func (r *registry) InteractWithTile(ctx context.Context, input *InteractWithTileInput) (*InteractWithTileOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID is required")
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	p, ok := ls.participants[input.ParticipantID]
	if !ok {
		ls.mu.Unlock()
		return nil, errors.NotFoundf("participant %s is not in session %s", input.ParticipantID, input.SessionID)
	}

	tile := ls.world.TileAt(input.X, input.Y)
	if tile == nil {
		ls.mu.Unlock()
		return nil, errors.NotFoundf("no tile at (%d, %d)", input.X, input.Y)
	}

	result, findings := describeInteraction(input.Action, tile)

	entry := r.newLogEntry(input.SessionID, input.ParticipantID, entities.LogTypeAction,
		fmt.Sprintf("%s %ss the %s tile at (%d, %d)", p.Name, input.Action, tile.Type, input.X, input.Y),
		map[string]interface{}{"result": result})
	r.appendTailLocked(ls, entry)

	r.events.Publish(input.SessionID, entities.EventTileInteraction, &TileInteractionEvent{
		ParticipantID: input.ParticipantID,
		Action:        input.Action,
		Position:      world.Position{X: input.X, Y: input.Y},
		Result:        result,
		Findings:      findings,
	})
	ls.mu.Unlock()

	r.persistEntry(ctx, entry)

	return &InteractWithTileOutput{Result: result, Findings: findings}, nil
}

// describeInteraction produces the narration for a tile interaction.
// Unknown actions narrate as nothing happening rather than erroring,
// so clients can probe freely.
func describeInteraction(action string, tile *world.Tile) (string, []string) {
	switch action {
	case "examine":
		desc := fmt.Sprintf("You see %s terrain.", tile.Type)
		if len(tile.NPCs) == 1 {
			desc += " Someone is here."
		} else if len(tile.NPCs) > 1 {
			desc += fmt.Sprintf(" %d people are here.", len(tile.NPCs))
		}
		return desc, nil

	case "search":
		if len(tile.Features) == 0 {
			return "You search the area but find nothing of interest.", nil
		}
		findings := append([]string(nil), tile.Features...)
		return fmt.Sprintf("You search the area and find: %s.", strings.Join(findings, ", ")), findings

	case "interact":
		if len(tile.NPCs) > 0 {
			npc := tile.NPCs[0]
			if npc.Friendly {
				return fmt.Sprintf("%s the %s greets you warmly.", npc.Name, npc.Type), nil
			}
			return fmt.Sprintf("%s the %s eyes you with suspicion.", npc.Name, npc.Type), nil
		}
		switch tile.Type {
		case world.TileVillage:
			return "The village is quiet.", nil
		case world.TileDungeon:
			return "A dark entrance looms before you.", nil
		default:
			return "There is nothing here to interact with.", nil
		}

	default:
		return "Nothing happens.", nil
	}
}

// LogAction appends an arbitrary entry to the session log. Chat and
// system entries are also announced to the room.
func (r *registry) LogAction(ctx context.Context, input *LogActionInput) (*LogActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if input.Message == "" {
		return nil, errors.InvalidArgument("message is required")
	}

	entryType := input.Type
	if entryType == "" {
		entryType = entities.LogTypeAction
	}

	ls, err := r.getLive(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	var playerName string
	if input.ParticipantID != "" {
		p, ok := ls.participants[input.ParticipantID]
		if !ok {
			ls.mu.Unlock()
			return nil, errors.NotFoundf("participant %s is not in session %s", input.ParticipantID, input.SessionID)
		}
		playerName = p.Name
	}

	entry := r.newLogEntry(input.SessionID, input.ParticipantID, entryType, input.Message, input.Data)
	r.appendTailLocked(ls, entry)

	switch entryType {
	case entities.LogTypeChat:
		r.events.Publish(input.SessionID, entities.EventChatMessage, &ChatMessageEvent{
			ParticipantID: input.ParticipantID,
			PlayerName:    playerName,
			Message:       input.Message,
			Timestamp:     entry.Timestamp,
		})
	case entities.LogTypeSystem:
		r.events.Publish(input.SessionID, entities.EventSystemMessage, &SystemMessageEvent{
			Message:   input.Message,
			Timestamp: entry.Timestamp,
		})
	}
	ls.mu.Unlock()

	r.persistEntry(ctx, entry)

	return &LogActionOutput{Entry: entry}, nil
}

package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/registry"
	"github.com/tableforge/tableforge/internal/rules"
)

// Client is one websocket connection. The identity fields are written
// by the read pump before the client enters a room and only read
// afterwards; the hub mutex orders those accesses.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// done signals teardown. The send channel is never closed, so a
	// racing enqueue can never panic.
	done      chan struct{}
	closeOnce sync.Once

	userID        string
	playerName    string
	sessionID     string
	participantID string
}

func (c *Client) authenticated() bool {
	return c.userID != ""
}

func (c *Client) joined() bool {
	return c.sessionID != ""
}

// enqueue hands a frame to the write pump without blocking. A false
// return means the client is gone or its queue is full.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// close signals teardown. Safe to call from any goroutine and any
// number of times; the write pump closes the conn, which in turn
// unblocks the read pump.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// drop removes the client from its room before tearing it down, so no
// publish can target it mid-teardown
func (c *Client) drop() {
	if c.joined() {
		c.hub.leave(c.sessionID, c)
	}
	c.close()
}

// reply sends a frame to this connection only
func (c *Client) reply(msg *ServerMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("failed to marshal reply", "type", msg.Type, "error", err)
		return
	}
	if !c.enqueue(frame) {
		c.drop()
	}
}

func (c *Client) replyError(err error) {
	c.reply(errorFrame(err))
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings. It owns all writes to the conn.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes inbound frames and dispatches them until the
// connection drops, then runs the disconnect path.
func (c *Client) readPump(ctx context.Context) {
	defer c.disconnect()

	c.conn.SetReadLimit(maxMessageSize)
	// The first frame must authenticate within the auth window
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.authTimeout))
	c.conn.SetPongHandler(func(string) error {
		if c.authenticated() {
			_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		}
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(frame, &msg); err != nil {
			c.replyError(errors.InvalidArgument("malformed message envelope"))
			continue
		}

		c.dispatch(ctx, &msg)

		if c.authenticated() {
			_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		}
	}
}

// disconnect releases the room slot and marks the player offline. The
// registry call is idempotent, so racing teardown paths are harmless.
func (c *Client) disconnect() {
	c.drop()

	if !c.joined() {
		return
	}

	_, err := c.hub.service.DisconnectPlayer(context.Background(), &registry.DisconnectPlayerInput{
		ParticipantID: c.participantID,
	})
	if err != nil {
		c.hub.logger.Warn("disconnect failed",
			"participant_id", c.participantID,
			"error", err)
	}
}

// dispatch routes one command. Every failure is answered with a
// point-to-point error event; the room never sees another player's
// mistakes.
func (c *Client) dispatch(ctx context.Context, msg *ClientMessage) {
	if msg.Type == CommandAuthenticate {
		c.handleAuthenticate(msg.Payload)
		return
	}

	if !c.authenticated() {
		c.replyError(errors.Unauthenticated("authenticate first"))
		return
	}

	if msg.Type == CommandJoinGame {
		c.handleJoinGame(ctx, msg.Payload)
		return
	}

	if !c.joined() {
		c.replyError(errors.FailedPrecondition("join a game first"))
		return
	}

	switch msg.Type {
	case CommandCreateCharacter:
		c.handleCreateCharacter(ctx, msg.Payload)
	case CommandMoveCharacter:
		c.handleMoveCharacter(ctx, msg.Payload)
	case CommandRollDice:
		c.handleRollDice(ctx, msg.Payload)
	case CommandInteractTile:
		c.handleInteractTile(ctx, msg.Payload)
	case CommandGetTileInfo:
		c.handleGetTileInfo(ctx, msg.Payload)
	case CommandChatMessage:
		c.handleChatMessage(ctx, msg.Payload)
	case CommandUpdateGameState:
		c.handleUpdateGameState(ctx, msg.Payload)
	default:
		c.replyError(errors.InvalidArgumentf("unknown command: %s", msg.Type))
	}
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.InvalidArgument("payload is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.InvalidArgument("malformed payload")
	}
	return nil
}

func (c *Client) handleAuthenticate(raw json.RawMessage) {
	var p AuthenticatePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}
	if p.UserID == "" {
		c.replyError(errors.Unauthenticated("userId is required"))
		return
	}

	c.userID = p.UserID
	c.playerName = p.PlayerName
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	c.reply(&ServerMessage{
		Type:    entities.EventAuthenticated,
		Payload: &AuthenticatedPayload{UserID: c.userID, PlayerName: c.playerName},
	})
}

func (c *Client) handleJoinGame(ctx context.Context, raw json.RawMessage) {
	var p JoinGamePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	if c.joined() {
		c.replyError(errors.FailedPrecondition("already in a game"))
		return
	}

	out, err := c.hub.service.JoinGame(ctx, &registry.JoinGameInput{
		SessionName: p.SessionName,
		UserID:      c.userID,
		PlayerName:  c.playerName,
	})
	if err != nil {
		c.replyError(err)
		return
	}

	c.sessionID = out.Session.ID
	c.participantID = out.Participant.ID

	// Register for fan-out before the snapshot so no event published
	// after the join commit can be missed.
	c.hub.join(c.sessionID, c)

	// The registry announced the join before this connection entered
	// the room, so echo it here; the joiner sees the same event the
	// rest of the room saw.
	c.reply(&ServerMessage{
		Type: entities.EventPlayerJoined,
		Payload: &registry.PlayerJoinedEvent{
			Participant: out.Participant,
			Character:   out.Character,
			IsNewPlayer: out.IsNewPlayer,
		},
	})

	state, err := c.hub.service.GetGameState(ctx, &registry.GetGameStateInput{SessionID: c.sessionID})
	if err != nil {
		c.replyError(err)
		return
	}

	c.reply(&ServerMessage{Type: entities.EventGameState, Payload: state})
}

func (c *Client) handleCreateCharacter(ctx context.Context, raw json.RawMessage) {
	var p CreateCharacterPayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.CreateCharacter(ctx, &registry.CreateCharacterInput{
		SessionID:     c.sessionID,
		ParticipantID: c.participantID,
		Build: rules.BuildInput{
			Name:          p.Name,
			Race:          p.Race,
			Class:         p.Class,
			Background:    p.Background,
			Alignment:     p.Alignment,
			AbilityScores: p.AbilityScores,
			SkillChoices:  p.SkillChoices,
		},
	})
	if err != nil {
		c.replyError(err)
	}
}

func (c *Client) handleMoveCharacter(ctx context.Context, raw json.RawMessage) {
	var p MoveCharacterPayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.MoveCharacter(ctx, &registry.MoveCharacterInput{
		SessionID:     c.sessionID,
		ParticipantID: c.participantID,
		X:             p.X,
		Y:             p.Y,
	})
	if err != nil {
		c.replyError(err)
	}
}

func (c *Client) handleRollDice(ctx context.Context, raw json.RawMessage) {
	var p RollDicePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.RollDice(ctx, &registry.RollDiceInput{
		SessionID:     c.sessionID,
		ParticipantID: c.participantID,
		Command:       p.Command,
	})
	if err != nil {
		c.replyError(err)
	}
}

func (c *Client) handleInteractTile(ctx context.Context, raw json.RawMessage) {
	var p InteractTilePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.InteractWithTile(ctx, &registry.InteractWithTileInput{
		SessionID:     c.sessionID,
		ParticipantID: c.participantID,
		Action:        p.Action,
		X:             p.X,
		Y:             p.Y,
	})
	if err != nil {
		c.replyError(err)
	}
}

func (c *Client) handleGetTileInfo(ctx context.Context, raw json.RawMessage) {
	var p GetTileInfoPayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	out, err := c.hub.service.GetTileInfo(ctx, &registry.GetTileInfoInput{
		SessionID: c.sessionID,
		X:         p.X,
		Y:         p.Y,
	})
	if err != nil {
		c.replyError(err)
		return
	}

	// Tile info goes back to the asker only
	c.reply(&ServerMessage{Type: entities.EventTileInfo, Payload: out})
}

func (c *Client) handleChatMessage(ctx context.Context, raw json.RawMessage) {
	var p ChatMessagePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.LogAction(ctx, &registry.LogActionInput{
		SessionID:     c.sessionID,
		ParticipantID: c.participantID,
		Type:          entities.LogTypeChat,
		Message:       p.Message,
	})
	if err != nil {
		c.replyError(err)
	}
}

func (c *Client) handleUpdateGameState(ctx context.Context, raw json.RawMessage) {
	var p UpdateGameStatePayload
	if err := decode(raw, &p); err != nil {
		c.replyError(err)
		return
	}

	_, err := c.hub.service.UpdateGameState(ctx, &registry.UpdateGameStateInput{
		SessionID: c.sessionID,
		Patch: registry.StatePatch{
			Status:      p.Status,
			CurrentTurn: p.CurrentTurn,
			TurnOrder:   p.TurnOrder,
			Round:       p.Round,
		},
	})
	if err != nil {
		c.replyError(err)
	}
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/wordspy/backend/internal/round"
	"github.com/wordspy/backend/internal/session"
	"github.com/wordspy/backend/pkg/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection and its outbox with the room.
type Join struct {
	ConnID string
	Outbox chan []byte
}

type Leave struct{ ConnID string }

// FromClient carries one decoded inbound event.
type FromClient struct {
	ConnID string
	Msg    types.ClientMessage
}

type Shutdown struct{}

// GetView reflects internal actor state without data races; test-only.
type GetView struct{ Reply chan View }

type View struct {
	NumClients   int
	Starting     bool
	PendingJoins int
}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (FromClient) isRoomMsg() {}
func (Shutdown) isRoomMsg()   {}
func (GetView) isRoomMsg()    {}

// internal messages posted back into the inbox by worker goroutines
type roundStarted struct{ err error }

type answerResolved struct {
	rec session.QuestionRecord
	res *session.ResolutionInfo
	ok  bool
}

func (roundStarted) isRoomMsg()   {}
func (answerResolved) isRoomMsg() {}

type handlerFunc func(connID string, msg types.ClientMessage) error

// Room is the per-room actor: it serializes every event for its room, owns
// the client outboxes, and fans out state changes. Only the oracle call
// leaves the loop, via a goroutine that posts its result back as a message.
type Room struct {
	id      string
	inbox   chan Msg
	clients map[string]chan []byte

	ctrl  *round.Controller
	store *session.Store
	log   *zap.Logger

	dispatch map[string]handlerFunc

	// set while a round start is in flight; joins arriving meanwhile are
	// admitted once the round exists
	starting     bool
	pendingJoins []string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRoom(parent context.Context, id string, ctrl *round.Controller, store *session.Store, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		clients: make(map[string]chan []byte),
		ctrl:    ctrl,
		store:   store,
		log:     log.With(zap.String("room", id)),
		ctx:     ctx,
		cancel:  cancel,
	}
	r.dispatch = map[string]handlerFunc{
		types.KindAskQuestion: r.handleAskQuestion,
		types.KindTyping:      r.handleTyping,
		types.KindStartRound:  r.handleStartRound,
		types.KindGiveUp:      r.handleGiveUp,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				r.handleLeave(msg.ConnID)

			case FromClient:
				h, ok := r.dispatch[msg.Msg.Type]
				if !ok {
					r.sendError(msg.ConnID, "unknown event type")
					break
				}
				if err := h(msg.ConnID, msg.Msg); err != nil {
					r.sendError(msg.ConnID, err.Error())
				}

			case roundStarted:
				r.handleRoundStarted(msg)

			case answerResolved:
				if !msg.ok {
					// answer landed on a reset round; already logged by the store
					break
				}
				r.broadcast(types.QuestionUpdated{Type: types.TypeQuestionUpdated, QuestionRecord: msg.rec})
				if msg.res != nil {
					r.broadcast(types.RoundResolved{Type: types.TypeRoundResolved, ResolutionInfo: *msg.res})
				}

			case GetView:
				msg.Reply <- View{
					NumClients:   len(r.clients),
					Starting:     r.starting,
					PendingJoins: len(r.pendingJoins),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// handleJoin registers the connection. With an active round the joiner gets
// the full snapshot immediately; with none, the join is parked until the
// auto-started round is ready.
func (r *Room) handleJoin(msg Join) {
	r.clients[msg.ConnID] = msg.Outbox

	if !r.store.HasRoom(r.id) {
		r.pendingJoins = append(r.pendingJoins, msg.ConnID)
		r.beginStartRound()
		return
	}

	r.admit(msg.ConnID)
	r.sendSnapshot(msg.ConnID)
}

// admit adds the connection as a participant and announces it to the rest
// of the room.
func (r *Room) admit(connID string) {
	p := r.store.AddParticipant(r.id, connID)
	if p == nil {
		return
	}
	r.broadcastExcept(connID, types.ParticipantJoined{Type: types.TypeParticipantJoined, ParticipantInfo: *p})
}

func (r *Room) handleLeave(connID string) {
	if ch, ok := r.clients[connID]; ok {
		delete(r.clients, connID)
		close(ch)
	}
	for i, id := range r.pendingJoins {
		if id == connID {
			r.pendingJoins = append(r.pendingJoins[:i], r.pendingJoins[i+1:]...)
			break
		}
	}

	// the conn may already be gone from the client map (slow-client drop);
	// the participant record must go regardless
	if r.store.RemoveParticipant(r.id, connID) {
		r.broadcast(types.ParticipantLeft{Type: types.TypeParticipantLeft, ID: connID})
	}
}

func (r *Room) handleRoundStarted(msg roundStarted) {
	r.starting = false
	if msg.err != nil {
		r.log.Error("round start failed", zap.Error(msg.err))
		for _, connID := range r.pendingJoins {
			r.sendError(connID, "failed to start round")
		}
		r.pendingJoins = nil
		return
	}

	for _, connID := range r.pendingJoins {
		r.admit(connID)
	}
	r.pendingJoins = nil

	// everyone converges on the new authoritative state, parked joiners
	// included
	snap, ok := r.store.Snapshot(r.id)
	if ok {
		r.broadcast(types.RoomStateSnapshot{Type: types.TypeRoomStateSnapshot, Snapshot: snap})
	}
}

func (r *Room) handleAskQuestion(connID string, msg types.ClientMessage) error {
	if msg.QuestionID == "" || msg.Text == "" {
		return fmt.Errorf("malformed question event")
	}

	rec, err := r.ctrl.SubmitQuestion(r.id, connID, msg.QuestionID, msg.Text)
	if err == round.ErrNoActiveRound {
		r.beginStartRound()
		return fmt.Errorf("question dropped, a new round is starting")
	}
	if err != nil {
		return err
	}

	// pending record is visible to the whole room before the answer exists
	r.broadcast(types.QuestionUpdated{Type: types.TypeQuestionUpdated, QuestionRecord: rec})

	go func() {
		got, res, ok := r.ctrl.ResolveAnswer(r.ctx, r.id, connID, msg.QuestionID, msg.Text)
		select {
		case r.inbox <- answerResolved{rec: got, res: res, ok: ok}:
		case <-r.ctx.Done():
		}
	}()
	return nil
}

func (r *Room) handleTyping(connID string, msg types.ClientMessage) error {
	r.store.UpdateTyping(r.id, connID, msg.Text)
	r.broadcast(types.ParticipantTyping{Type: types.TypeParticipantTyping, ID: connID, Text: msg.Text})
	return nil
}

func (r *Room) handleStartRound(connID string, _ types.ClientMessage) error {
	r.beginStartRound()
	return nil
}

func (r *Room) handleGiveUp(connID string, _ types.ClientMessage) error {
	res, err := r.ctrl.GiveUp(r.id)
	if err != nil {
		r.beginStartRound()
		return fmt.Errorf("no active round")
	}
	r.broadcast(types.RoundResolved{Type: types.TypeRoundResolved, ResolutionInfo: *res})
	return nil
}

// beginStartRound kicks off term selection + classification off-loop; the
// result re-enters the inbox as roundStarted. Duplicate requests while one
// is in flight are coalesced.
func (r *Room) beginStartRound() {
	if r.starting {
		return
	}
	r.starting = true
	go func() {
		_, err := r.ctrl.StartRound(r.ctx, r.id)
		select {
		case r.inbox <- roundStarted{err: err}:
		case <-r.ctx.Done():
		}
	}()
}

func (r *Room) sendSnapshot(connID string) {
	snap, ok := r.store.Snapshot(r.id)
	if !ok {
		return
	}
	r.sendTo(connID, types.RoomStateSnapshot{Type: types.TypeRoomStateSnapshot, Snapshot: snap})
}

func (r *Room) sendError(connID, message string) {
	r.sendTo(connID, types.OperationFailed{Type: types.TypeOperationFailed, Message: message})
}

func (r *Room) sendTo(connID string, v any) {
	ch, ok := r.clients[connID]
	if !ok {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("marshal outbound message", zap.Error(err))
		return
	}
	select {
	case ch <- payload:
	default:
		// slow client; drop it rather than stall the room
		close(ch)
		delete(r.clients, connID)
		r.evict(connID)
	}
}

func (r *Room) broadcast(v any)                    { r.fanOut("", v) }
func (r *Room) broadcastExcept(skip string, v any) { r.fanOut(skip, v) }

func (r *Room) fanOut(skip string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.log.Error("marshal outbound message", zap.Error(err))
		return
	}
	var dropped []string
	for connID, ch := range r.clients {
		if connID == skip {
			continue
		}
		select {
		case ch <- payload:
		default:
			close(ch)
			delete(r.clients, connID)
			dropped = append(dropped, connID)
		}
	}
	for _, connID := range dropped {
		r.evict(connID)
	}
}

// evict finalizes a dropped connection, already removed from the client map:
// its participant record goes away and the rest of the room hears a
// departure, exactly as on a clean leave.
func (r *Room) evict(connID string) {
	r.log.Warn("dropping slow client", zap.String("conn", connID))
	if r.store.RemoveParticipant(r.id, connID) {
		r.broadcast(types.ParticipantLeft{Type: types.TypeParticipantLeft, ID: connID})
	}
}

func (r *Room) shutdown() {
	for connID, ch := range r.clients {
		close(ch)
		delete(r.clients, connID)
	}
	r.cancel()
}

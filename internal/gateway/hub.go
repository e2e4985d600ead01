// Package gateway bridges the session store and round controller to the set
// of live connections: a hub actor owns the rooms, a room actor owns the
// per-room event ordering and fan-out.
package gateway

import (
	"context"

	"go.uber.org/zap"

	"github.com/wordspy/backend/internal/round"
	"github.com/wordspy/backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type EnsureRoom struct {
	ID    string
	Reply chan *Room
}

type GetRoom struct {
	ID    string
	Reply chan *Room
}

// RemoveRoom is explicit room teardown: the actor shuts down and the
// session state is discarded.
type RemoveRoom struct{ ID string }

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox chan HubMsg
	rooms map[string]*Room

	ctrl  *round.Controller
	store *session.Store
	log   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, ctrl *round.Controller, store *session.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*Room),
		ctrl:   ctrl,
		store:  store,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := NewRoom(h.ctx, msg.ID, h.ctrl, h.store, h.log)
				h.rooms[msg.ID] = rm
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				rm, ok := h.rooms[msg.ID]
				if !ok {
					break
				}
				delete(h.rooms, msg.ID)
				rm.Inbox() <- Shutdown{}
				h.store.Teardown(msg.ID)

			case ShutdownHub:
				for id, rm := range h.rooms {
					rm.Inbox() <- Shutdown{}
					delete(h.rooms, id)
				}
				h.cancel()
			}
		}
	}
}

package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the sole owner of RoomState mutation. Every method is a single
// atomic transition under the store mutex; missing rooms, duplicate
// participants and unknown question ids are warnings, never errors, so the
// store stays a plain fact-recording layer.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*RoomState
	log   *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{
		rooms: make(map[string]*RoomState),
		log:   log,
	}
}

// StartRound replaces the room's round state wholesale: empty question list,
// no resolution, new secret and category. The participant set is carried
// over; a brand-new room starts with an empty one.
func (s *Store) StartRound(roomID, secretTerm, category string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	participants := make(map[string]*ParticipantInfo)
	if prev, ok := s.rooms[roomID]; ok {
		participants = prev.Participants
	}

	s.rooms[roomID] = &RoomState{
		SecretTerm:   secretTerm,
		Category:     category,
		Questions:    []*QuestionRecord{},
		Participants: participants,
	}

	s.log.Info("round started",
		zap.String("room", roomID),
		zap.String("category", category),
	)
	return snapshotLocked(s.rooms[roomID])
}

// AddParticipant inserts a new participant with a fresh color and display
// name. Returns nil if the room does not exist or the connection already
// joined.
func (s *Store) AddParticipant(roomID, connID string) *ParticipantInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("add participant: no such room", zap.String("room", roomID), zap.String("conn", connID))
		return nil
	}
	if _, exists := room.Participants[connID]; exists {
		s.log.Warn("participant already in room", zap.String("room", roomID), zap.String("conn", connID))
		return nil
	}

	taken := make(map[string]bool, len(room.Participants))
	for _, p := range room.Participants {
		taken[p.ColorTag] = true
	}
	color := nextColor(taken)

	p := &ParticipantInfo{
		ID:           connID,
		DisplayName:  displayName(color),
		ColorTag:     color,
		LastActivity: time.Now().UnixMilli(),
	}
	room.Participants[connID] = p

	out := *p
	return &out
}

// RemoveParticipant is idempotent; removing an absent participant only logs.
// Reports whether a participant was actually removed, so callers can skip
// announcing a departure that already happened.
func (s *Store) RemoveParticipant(roomID, connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("remove participant: no such room", zap.String("room", roomID), zap.String("conn", connID))
		return false
	}
	if _, exists := room.Participants[connID]; !exists {
		s.log.Warn("remove participant: not in room", zap.String("room", roomID), zap.String("conn", connID))
		return false
	}
	delete(room.Participants, connID)
	return true
}

// RecordQuestion appends the record in submission order. No-op if the room
// is absent.
func (s *Store) RecordQuestion(roomID string, rec QuestionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("record question: no such room", zap.String("room", roomID), zap.String("question", rec.ID))
		return
	}
	r := rec
	room.Questions = append(room.Questions, &r)
}

// UpdateQuestion merges patch fields into the record with the given id.
// Reports whether a record matched; a miss is the benign race between a
// round reset and an in-flight answer, logged and dropped.
func (s *Store) UpdateQuestion(roomID, questionID string, patch QuestionPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("update question: no such room", zap.String("room", roomID), zap.String("question", questionID))
		return false
	}
	for _, q := range room.Questions {
		if q.ID != questionID {
			continue
		}
		if patch.Answer != nil {
			q.Answer = patch.Answer
		}
		if patch.IsConclusive != nil {
			q.IsConclusive = patch.IsConclusive
		}
		if patch.IsError != nil {
			q.IsError = patch.IsError
		}
		return true
	}
	s.log.Warn("update question: id not found, dropping stale answer",
		zap.String("room", roomID),
		zap.String("question", questionID),
	)
	return false
}

// SetResolution marks the round ended. A nil winner means abandoned. Calling
// it again on the same round overwrites the previous resolution
// (last-write-wins, by contract). No-op if the room is absent.
func (s *Store) SetResolution(roomID string, winnerID *string) *ResolutionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("set resolution: no such room", zap.String("room", roomID))
		return nil
	}
	room.Resolution = &ResolutionInfo{
		WinnerID:   winnerID,
		SecretTerm: room.SecretTerm,
	}
	out := *room.Resolution
	return &out
}

// UpdateTyping stores the participant's latest input preview.
func (s *Store) UpdateTyping(roomID, connID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		s.log.Warn("update typing: no such room", zap.String("room", roomID), zap.String("conn", connID))
		return
	}
	p, ok := room.Participants[connID]
	if !ok {
		s.log.Warn("update typing: participant not in room", zap.String("room", roomID), zap.String("conn", connID))
		return
	}
	p.TypingPreview = text
	p.LastActivity = time.Now().UnixMilli()
}

// Teardown removes the room entirely.
func (s *Store) Teardown(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

func (s *Store) HasRoom(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// SecretTerm returns the room's secret, for the round controller only.
func (s *Store) SecretTerm(roomID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return "", false
	}
	return room.SecretTerm, true
}

// Resolved reports whether the room exists and its round has ended.
func (s *Store) Resolved(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return ok && room.Resolution != nil
}

// Question returns a copy of the record with the given id.
func (s *Store) Question(roomID, questionID string) (QuestionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return QuestionRecord{}, false
	}
	for _, q := range room.Questions {
		if q.ID == questionID {
			return *q, true
		}
	}
	return QuestionRecord{}, false
}

// Snapshot builds the client-safe view of the room: everything a joiner
// needs, minus the secret term.
func (s *Store) Snapshot(roomID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotLocked(room), true
}

func snapshotLocked(room *RoomState) Snapshot {
	snap := Snapshot{
		Category:     room.Category,
		Questions:    make([]QuestionRecord, 0, len(room.Questions)),
		Participants: make(map[string]ParticipantInfo, len(room.Participants)),
	}
	for _, q := range room.Questions {
		snap.Questions = append(snap.Questions, *q)
	}
	for id, p := range room.Participants {
		snap.Participants[id] = *p
	}
	if room.Resolution != nil {
		res := *room.Resolution
		snap.Resolution = &res
	}
	return snap
}

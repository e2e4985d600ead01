// Package types defines the wire protocol between clients and the server.
// Every message carries a "type" discriminator; inbound messages share one
// flat struct, outbound messages get one struct per event.
package types

import "github.com/wordspy/backend/internal/session"

// Inbound event kinds (client -> server).
const (
	KindAskQuestion = "askQuestion"
	KindTyping      = "typing"
	KindStartRound  = "startRound"
	KindGiveUp      = "giveUp"
)

type ClientMessage struct {
	Type       string `json:"type"`
	QuestionID string `json:"questionId,omitempty"` // askQuestion
	Text       string `json:"text,omitempty"`       // askQuestion, typing
}

// Outbound event types (server -> client).
const (
	TypeRoomStateSnapshot = "roomStateSnapshot"
	TypeQuestionUpdated   = "questionUpdated"
	TypeParticipantJoined = "participantJoined"
	TypeParticipantLeft   = "participantLeft"
	TypeParticipantTyping = "participantTyping"
	TypeRoundResolved     = "roundResolved"
	TypeOperationFailed   = "operationFailed"
)

// RoomStateSnapshot is sent point-to-point, once, on join.
type RoomStateSnapshot struct {
	Type string `json:"type"`
	session.Snapshot
}

// QuestionUpdated is broadcast on initial submission (answer absent) and
// again when the answer arrives.
type QuestionUpdated struct {
	Type string `json:"type"`
	session.QuestionRecord
}

type ParticipantJoined struct {
	Type string `json:"type"`
	session.ParticipantInfo
}

type ParticipantLeft struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type ParticipantTyping struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

type RoundResolved struct {
	Type string `json:"type"`
	session.ResolutionInfo
}

// OperationFailed is only ever sent to the connection that caused it.
type OperationFailed struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

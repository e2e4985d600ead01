package session

// RoomState is the authoritative per-room state. The store owns every
// mutation; other packages only ever see copies or snapshots.
type RoomState struct {
	SecretTerm   string `json:"-"` // never serialized; clients must not learn it
	Category     string
	Questions    []*QuestionRecord
	Participants map[string]*ParticipantInfo
	Resolution   *ResolutionInfo
}

// QuestionRecord is appended the instant a question is accepted and later
// patched in place (by id) once the oracle responds. Optionals are pointers
// so "not answered yet" survives JSON encoding.
type QuestionRecord struct {
	ID           string  `json:"id"`
	Text         string  `json:"text"`
	AskedBy      string  `json:"askedBy"`
	Answer       *string `json:"answer,omitempty"`
	IsConclusive *bool   `json:"isConclusive,omitempty"`
	IsError      *bool   `json:"isError,omitempty"`
}

// QuestionPatch carries the fields UpdateQuestion merges into an existing
// record. Nil fields are left untouched.
type QuestionPatch struct {
	Answer       *string
	IsConclusive *bool
	IsError      *bool
}

type ParticipantInfo struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	ColorTag      string `json:"colorTag"`
	TypingPreview string `json:"typingPreview"`
	LastActivity  int64  `json:"lastActivity"` // unix millis
}

// ResolutionInfo marks the end of a round. A nil WinnerID means the round
// was abandoned rather than won.
type ResolutionInfo struct {
	WinnerID   *string `json:"winnerId"`
	SecretTerm string  `json:"secretTerm"`
}

// Snapshot is the client-safe view of a room: everything except the secret.
type Snapshot struct {
	Category     string                     `json:"category"`
	Questions    []QuestionRecord           `json:"questions"`
	Participants map[string]ParticipantInfo `json:"participants"`
	Resolution   *ResolutionInfo            `json:"resolution,omitempty"`
}

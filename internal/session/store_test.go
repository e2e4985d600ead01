package session

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() *Store {
	return NewStore(zap.NewNop())
}

func TestStartRound_NewRoom(t *testing.T) {
	s := newTestStore()

	snap := s.StartRound("r1", "elephant", "animals")

	assert.Equal(t, "animals", snap.Category)
	assert.Empty(t, snap.Questions)
	assert.Empty(t, snap.Participants)
	assert.Nil(t, snap.Resolution)

	secret, ok := s.SecretTerm("r1")
	require.True(t, ok)
	assert.Equal(t, "elephant", secret)
}

func TestStartRound_ResetsEverythingButParticipants(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "dog", "animals")
	p := s.AddParticipant("r1", "c1")
	require.NotNil(t, p)
	s.RecordQuestion("r1", QuestionRecord{ID: "q1", Text: "Is it alive?", AskedBy: "c1"})
	s.SetResolution("r1", nil)

	snap := s.StartRound("r1", "car", "vehicles")

	assert.Empty(t, snap.Questions)
	assert.Nil(t, snap.Resolution)
	assert.Equal(t, "vehicles", snap.Category)
	require.Contains(t, snap.Participants, "c1")
	assert.Equal(t, p.ColorTag, snap.Participants["c1"].ColorTag)
}

func TestStartRound_SameRoomTwice_LastWriteWins(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "dog", "animals")
	s.StartRound("r1", "car", "vehicles")

	secret, ok := s.SecretTerm("r1")
	require.True(t, ok)
	assert.Equal(t, "car", secret)

	snap, ok := s.Snapshot("r1")
	require.True(t, ok)
	assert.Equal(t, "vehicles", snap.Category)
	assert.Empty(t, snap.Questions) // no hybrid of old questions with new secret
}

func TestAddParticipant(t *testing.T) {
	s := newTestStore()

	t.Run("missing room returns nil", func(t *testing.T) {
		assert.Nil(t, s.AddParticipant("nope", "c1"))
	})

	s.StartRound("r1", "dog", "animals")

	t.Run("first participant gets the first palette color", func(t *testing.T) {
		p := s.AddParticipant("r1", "c1")
		require.NotNil(t, p)
		assert.Equal(t, "c1", p.ID)
		assert.Equal(t, paletteColors[0], p.ColorTag)
		assert.NotEmpty(t, p.DisplayName)
		assert.NotZero(t, p.LastActivity)
	})

	t.Run("duplicate join is a nil no-op", func(t *testing.T) {
		assert.Nil(t, s.AddParticipant("r1", "c1"))
	})
}

func TestParticipants_NetEffectAndColorUniqueness(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "dog", "animals")

	// interleaved adds and removes across the whole palette
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, id := range ids {
		require.NotNil(t, s.AddParticipant("r1", id))
	}
	assert.True(t, s.RemoveParticipant("r1", "c"))
	assert.True(t, s.RemoveParticipant("r1", "f"))
	require.NotNil(t, s.AddParticipant("r1", "i"))
	assert.False(t, s.RemoveParticipant("r1", "missing")) // idempotent no-op
	assert.False(t, s.RemoveParticipant("ghost", "c"))    // absent room

	snap, ok := s.Snapshot("r1")
	require.True(t, ok)
	assert.Len(t, snap.Participants, 7) // 8 adds - 2 removes + 1 add

	seen := map[string]string{}
	for id, p := range snap.Participants {
		if prev, dup := seen[p.ColorTag]; dup {
			t.Fatalf("color %s shared by %s and %s", p.ColorTag, prev, id)
		}
		seen[p.ColorTag] = id
	}
}

func TestColorReleasedOnRemoval(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "dog", "animals")

	first := s.AddParticipant("r1", "c1")
	require.NotNil(t, first)
	require.True(t, s.RemoveParticipant("r1", "c1"))

	next := s.AddParticipant("r1", "c2")
	require.NotNil(t, next)
	assert.Equal(t, first.ColorTag, next.ColorTag)
}

func TestRecordAndUpdateQuestion(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "elephant", "animals")
	require.NotNil(t, s.AddParticipant("r1", "c1"))

	s.RecordQuestion("r1", QuestionRecord{ID: "q1", Text: "Is it big?", AskedBy: "c1"})

	answer := "Yes"
	ok := s.UpdateQuestion("r1", "q1", QuestionPatch{Answer: &answer})
	require.True(t, ok)

	snap, found := s.Snapshot("r1")
	require.True(t, found)
	require.Len(t, snap.Questions, 1)
	q := snap.Questions[0]
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, "Is it big?", q.Text)
	assert.Equal(t, "c1", q.AskedBy)
	require.NotNil(t, q.Answer)
	assert.Equal(t, "Yes", *q.Answer)
}

func TestUpdateQuestion_UnknownID_NoOp(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "elephant", "animals")
	s.RecordQuestion("r1", QuestionRecord{ID: "q1", Text: "Is it big?", AskedBy: "c1"})

	answer := "Yes"
	ok := s.UpdateQuestion("r1", "ghost", QuestionPatch{Answer: &answer})
	assert.False(t, ok)

	snap, _ := s.Snapshot("r1")
	require.Len(t, snap.Questions, 1)
	assert.Nil(t, snap.Questions[0].Answer)
}

func TestQuestionsKeepSubmissionOrder(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "elephant", "animals")
	for _, id := range []string{"q1", "q2", "q3"} {
		s.RecordQuestion("r1", QuestionRecord{ID: id, Text: id, AskedBy: "c1"})
	}

	// answers arriving out of submission order still land by id
	no := "❌"
	yes := "✅"
	require.True(t, s.UpdateQuestion("r1", "q3", QuestionPatch{Answer: &no}))
	require.True(t, s.UpdateQuestion("r1", "q1", QuestionPatch{Answer: &yes}))

	snap, _ := s.Snapshot("r1")
	require.Len(t, snap.Questions, 3)
	assert.Equal(t, []string{"q1", "q2", "q3"}, []string{snap.Questions[0].ID, snap.Questions[1].ID, snap.Questions[2].ID})
	assert.Equal(t, "✅", *snap.Questions[0].Answer)
	assert.Nil(t, snap.Questions[1].Answer)
	assert.Equal(t, "❌", *snap.Questions[2].Answer)
}

func TestSetResolution(t *testing.T) {
	s := newTestStore()

	t.Run("missing room returns nil", func(t *testing.T) {
		assert.Nil(t, s.SetResolution("nope", nil))
	})

	s.StartRound("r1", "elephant", "animals")

	t.Run("winner recorded with secret", func(t *testing.T) {
		winner := "c1"
		res := s.SetResolution("r1", &winner)
		require.NotNil(t, res)
		require.NotNil(t, res.WinnerID)
		assert.Equal(t, "c1", *res.WinnerID)
		assert.Equal(t, "elephant", res.SecretTerm)
		assert.True(t, s.Resolved("r1"))
	})

	t.Run("second call overwrites: last write wins", func(t *testing.T) {
		res := s.SetResolution("r1", nil)
		require.NotNil(t, res)
		assert.Nil(t, res.WinnerID)

		snap, _ := s.Snapshot("r1")
		require.NotNil(t, snap.Resolution)
		assert.Nil(t, snap.Resolution.WinnerID)
	})
}

func TestUpdateTyping(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "elephant", "animals")
	require.NotNil(t, s.AddParticipant("r1", "c1"))

	s.UpdateTyping("r1", "c1", "is it a...")
	s.UpdateTyping("r1", "ghost", "ignored") // warning, no mutation

	snap, _ := s.Snapshot("r1")
	assert.Equal(t, "is it a...", snap.Participants["c1"].TypingPreview)
}

func TestSnapshot_NeverLeaksSecret(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "xylophone", "object")
	s.AddParticipant("r1", "c1")
	s.RecordQuestion("r1", QuestionRecord{ID: "q1", Text: "Is it loud?", AskedBy: "c1"})

	snap, ok := s.Snapshot("r1")
	require.True(t, ok)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "xylophone"))
}

func TestTeardown(t *testing.T) {
	s := newTestStore()
	s.StartRound("r1", "dog", "animals")
	require.True(t, s.HasRoom("r1"))

	s.Teardown("r1")
	assert.False(t, s.HasRoom("r1"))
}

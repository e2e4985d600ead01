package round

import (
	_ "embed"
	"math/rand"
	"strings"
)

//go:embed words.txt
var wordList string

// vocabulary is the fixed set of guessable terms. Selection is uniformly
// random with repeats permitted across rounds.
var vocabulary = func() []string {
	words := strings.Fields(wordList)
	if len(words) == 0 {
		panic("round: embedded word list is empty")
	}
	return words
}()

// RandomTerm picks a term uniformly at random from the vocabulary.
func RandomTerm() string {
	return vocabulary[rand.Intn(len(vocabulary))]
}

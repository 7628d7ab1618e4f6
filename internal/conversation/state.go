// Package conversation holds the ordered chat log of a single session.
package conversation

import "github.com/futig/docchat/internal/entity"

// DefaultWindow is the number of prior turns used as reformulation context
const DefaultWindow = 7

// State is an append-only log of chat turns.
// The most recent user turn is in flight until it is answered or abandoned,
// and is never part of Window.
type State struct {
	turns    []entity.ChatTurn
	inFlight bool
}

// New creates an empty conversation
func New() *State {
	return &State{}
}

// Append adds a completed turn to the end of the log
func (s *State) Append(turn entity.ChatTurn) {
	s.turns = append(s.turns, turn)
}

// Ask records the user's question and marks it in flight
func (s *State) Ask(question string) {
	s.turns = append(s.turns, entity.ChatTurn{Role: entity.RoleUser, Content: question})
	s.inFlight = true
}

// Answer appends the assistant turn for the in-flight question
func (s *State) Answer(answer string) {
	s.turns = append(s.turns, entity.ChatTurn{Role: entity.RoleAssistant, Content: answer})
	s.inFlight = false
}

// Abandon settles the in-flight question without an answer.
// The question itself stays in the log.
func (s *State) Abandon() {
	s.inFlight = false
}

// InFlight reports whether a question is awaiting its answer
func (s *State) InFlight() bool {
	return s.inFlight
}

// Window returns up to n most recent turns that precede the in-flight question,
// oldest first. The returned slice is a copy.
func (s *State) Window(n int) []entity.ChatTurn {
	end := len(s.turns)
	if s.inFlight {
		end--
	}
	if n <= 0 || end <= 0 {
		return []entity.ChatTurn{}
	}

	start := end - n
	if start < 0 {
		start = 0
	}

	window := make([]entity.ChatTurn, end-start)
	copy(window, s.turns[start:end])
	return window
}

// Transcript returns a copy of every turn in insertion order
func (s *State) Transcript() []entity.ChatTurn {
	out := make([]entity.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of stored turns
func (s *State) Len() int {
	return len(s.turns)
}

// Reset clears all turns
func (s *State) Reset() {
	s.turns = nil
	s.inFlight = false
}

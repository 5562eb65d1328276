package types

// State is the append-only conversation log shared by all nodes of one run.
// New turns are concatenated, never replacing history (reducer semantics).
// A run owns its State exclusively, so State carries no locking; consumers
// on other goroutines must work from a Snapshot.
type State struct {
	messages []Message
}

// NewState creates a conversation state seeded with the given messages.
func NewState(messages ...Message) *State {
	s := &State{messages: make([]Message, 0, len(messages)+8)}
	s.messages = append(s.messages, messages...)
	return s
}

// Append adds a message to the end of the log.
func (s *State) Append(msg Message) {
	s.messages = append(s.messages, msg)
}

// Len returns the number of messages in the log.
func (s *State) Len() int {
	return len(s.messages)
}

// Last returns the most recent message. ok is false for an empty log.
func (s *State) Last() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Messages returns the underlying log. Callers must treat it as read-only;
// use Snapshot when the slice escapes the owning run.
func (s *State) Messages() []Message {
	return s.messages
}

// Snapshot returns a defensive copy of the log for persistence or
// diagnostics.
func (s *State) Snapshot() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

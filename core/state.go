package core

// State is the conversation shared between the coordinator and its workers.
// It is handed off, never shared: every operation returns a new State and
// leaves the receiver untouched.
type State struct {
	Messages []Message `json:"messages"`
}

// NewState creates a state holding msgs.
func NewState(msgs ...Message) State {
	return State{Messages: append([]Message{}, msgs...)}
}

// Len returns the number of messages.
func (s State) Len() int { return len(s.Messages) }

// Last returns the most recent message.
func (s State) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return nil, false
	}

	return s.Messages[len(s.Messages)-1], true
}

// Append returns a new state with msgs added at the end.
func (s State) Append(msgs ...Message) State {
	out := make([]Message, 0, len(s.Messages)+len(msgs))
	out = append(out, s.Messages...)
	out = append(out, msgs...)

	return State{Messages: out}
}

// Merge returns a new state with msgs merged in by ID. A message whose ID is
// already present replaces the existing entry at its position, every other
// message is appended in order.
func (s State) Merge(msgs []Message) State {
	out := make([]Message, 0, len(s.Messages)+len(msgs))
	out = append(out, s.Messages...)

	index := make(map[string]int, len(out))
	for i, m := range out {
		index[m.MessageID()] = i
	}

	for _, m := range msgs {
		if i, ok := index[m.MessageID()]; ok {
			out[i] = m
			continue
		}

		index[m.MessageID()] = len(out)
		out = append(out, m)
	}

	return State{Messages: out}
}

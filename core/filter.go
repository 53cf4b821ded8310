package core

// FilterToolResults returns the messages of msgs that are not tool results,
// in their original relative order. It never mutates msgs and is idempotent.
// An empty input yields an empty, non-nil slice.
func FilterToolResults(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs))

	for _, m := range msgs {
		if m.Kind() == KindToolResult {
			continue
		}

		out = append(out, m)
	}

	return out
}

// CountToolResults returns how many tool results msgs holds.
func CountToolResults(msgs []Message) int {
	n := 0

	for _, m := range msgs {
		if m.Kind() == KindToolResult {
			n++
		}
	}

	return n
}

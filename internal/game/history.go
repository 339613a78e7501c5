package game

// DefaultHistoryWindow is how many recent turns an agent may look back on.
const DefaultHistoryWindow = 5

// Entry records one action taken by an actor. It never carries what a peek
// revealed.
type Entry struct {
	ActorID string `json:"actor"`
	Action  Action `json:"action"`
}

// History is the append-only log of actions in a game.
type History struct {
	entries []Entry
}

// Append records an action.
func (h *History) Append(actorID string, a Action) {
	h.entries = append(h.entries, Entry{ActorID: actorID, Action: a})
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of every recorded entry.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Recent returns a copy of the last n entries, oldest first.
func (h *History) Recent(n int) []Entry {
	return Window(h.entries, n)
}

// Window returns a copy of the last n entries of entries.
func Window(entries []Entry, n int) []Entry {
	if n <= 0 {
		return nil
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

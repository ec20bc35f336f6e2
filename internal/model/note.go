// Package model defines the data structures used throughout the application.
// Invariants are enforced by internal/service, not by these types.
package model

import "time"

// Note is the single persisted entity: a short titled text with tags and pin state.
//
// The `json:"..."` tags define the stored record shape. The field names match the
// records older versions of the app wrote; service's codec also reads their
// numeric ids and locale timestamps, and rewrites them in this form on the next save:
//
//	{"id":"cv37rs3pp9olc6atsptg","title":"Groceries","content":"Milk, eggs",
//	 "tags":["home"],"createdAt":"...","updatedAt":"...","isPinned":false}
//
// INVARIANTS (kept by service.NoteStore, not by this struct):
//   - Title and Content are never both blank after trimming whitespace
//   - Tags holds no duplicates and is never nil once stored
//   - UpdatedAt is never before CreatedAt
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsPinned  bool      `json:"isPinned"`
}

// Clone returns a copy of the note that shares no memory with the original.
//
// WHY?
// A slice header copied by value still points at the same backing array.
// Handing out a plain struct copy would let callers append to or overwrite
// Tags inside the store's own collection.
func (n Note) Clone() Note {
	out := n
	out.Tags = append(make([]string, 0, len(n.Tags)), n.Tags...)
	return out
}

// Draft is the transient edit buffer of a create or edit session.
// It is never persisted.
//
// TargetID is empty while creating a new note and holds the edited note's ID otherwise.
type Draft struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	TargetID string   `json:"targetId,omitempty"`
}

// Theme is the user's display preference. It has no relationship to notes
// and is stored under its own key.
type Theme struct {
	Dark bool `json:"dark"`
}

// Name returns "dark" or "light".
func (t Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

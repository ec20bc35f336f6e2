package service

import (
	"slices"
	"strings"

	"github.com/sakif/notekeeper/internal/model"
)

// Project computes the visible note list: the notes matching query, pinned
// first, newest first within each group.
//
// FILTER:
// A note matches when its title OR its content contains query, ignoring case.
// An empty query matches every note.
//
// SORT:
// slices.SortStableFunc keeps notes with equal keys (same pin state and the
// same CreatedAt) in the order they had in notes.
//
// Project is pure: it never touches its input and returns copies, so callers
// can recompute it on every render.
func Project(notes []model.Note, query string) []model.Note {
	q := strings.ToLower(query)

	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if matches(n, q) {
			out = append(out, n.Clone())
		}
	}

	slices.SortStableFunc(out, func(a, b model.Note) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out
}

// matches expects lowerQuery to be lower-cased already.
func matches(n model.Note, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(n.Content), lowerQuery)
}

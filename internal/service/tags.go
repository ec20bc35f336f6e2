package service

import (
	"slices"
	"strings"
)

// TagAdd returns tags with newTag appended.
//
// newTag is trimmed first. Blank tags and tags already present (exact,
// case-sensitive match) leave the sequence unchanged. The input slice is
// never modified; the result is always a fresh, non-nil slice.
func TagAdd(tags []string, newTag string) []string {
	out := cloneTags(tags)

	tag := strings.TrimSpace(newTag)
	if tag == "" || slices.Contains(out, tag) {
		return out
	}
	return append(out, tag)
}

// TagRemove returns tags without the first element equal to tag.
// Removing an absent tag returns an unchanged copy.
func TagRemove(tags []string, tag string) []string {
	out := cloneTags(tags)

	i := slices.Index(out, tag)
	if i < 0 {
		return out
	}
	return slices.Delete(out, i, i+1)
}

// normalizeTags folds tags through TagAdd so the result is trimmed and duplicate-free.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = TagAdd(out, t)
	}
	return out
}

func cloneTags(tags []string) []string {
	return append(make([]string, 0, len(tags)+1), tags...)
}

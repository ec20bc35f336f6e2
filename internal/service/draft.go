package service

import "github.com/sakif/notekeeper/internal/model"

// DraftEditor holds the staging buffer of an in-progress create or edit.
//
// STATE MACHINE:
//
//	         BeginCreate / BeginEdit
//	Idle ─────────────────────────────▶ Editing
//	 ▲                                     │
//	 └──────────── Cancel / Commit ◀───────┘
//
// BeginCreate and BeginEdit are also allowed while Editing; they discard the
// current buffer and start over. Nothing here touches the NoteStore: Engine
// decides what a commit does with the returned draft.
type DraftEditor struct {
	draft   model.Draft
	editing bool
}

// NewDraftEditor returns an editor in the Idle state.
func NewDraftEditor() *DraftEditor {
	d := &DraftEditor{}
	d.reset()
	return d
}

// BeginCreate starts a session for a new note with empty fields.
func (d *DraftEditor) BeginCreate() {
	d.reset()
	d.editing = true
}

// BeginEdit starts a session for an existing note, copying its fields.
func (d *DraftEditor) BeginEdit(n model.Note) {
	d.draft = model.Draft{
		Title:    n.Title,
		Content:  n.Content,
		Tags:     cloneTags(n.Tags),
		TargetID: n.ID,
	}
	d.editing = true
}

// Cancel ends the session and drops the buffer.
func (d *DraftEditor) Cancel() {
	d.reset()
}

// Commit ends the session and hands back what was staged.
// ok is false when no session was open.
func (d *DraftEditor) Commit() (staged model.Draft, ok bool) {
	staged, ok = d.Draft(), d.editing
	d.reset()
	return staged, ok
}

func (d *DraftEditor) SetTitle(title string)     { d.draft.Title = title }
func (d *DraftEditor) SetContent(content string) { d.draft.Content = content }

// AddTag stages tag via TagAdd.
func (d *DraftEditor) AddTag(tag string) {
	d.draft.Tags = TagAdd(d.draft.Tags, tag)
}

// RemoveTag unstages tag via TagRemove.
func (d *DraftEditor) RemoveTag(tag string) {
	d.draft.Tags = TagRemove(d.draft.Tags, tag)
}

// Draft returns a copy of the buffer.
func (d *DraftEditor) Draft() model.Draft {
	out := d.draft
	out.Tags = cloneTags(d.draft.Tags)
	return out
}

// Editing reports whether a session is open.
func (d *DraftEditor) Editing() bool {
	return d.editing
}

func (d *DraftEditor) reset() {
	d.draft = model.Draft{Tags: []string{}}
	d.editing = false
}

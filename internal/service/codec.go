package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// STORED FORMAT:
// The note collection is a JSON array of records, in collection order:
//
//	[{"id":"cv37rs3pp9olc6atsptg","title":"Groceries","content":"Milk, eggs",
//	  "tags":[],"createdAt":"2024-05-01T09:30:00Z","updatedAt":"2024-05-01T09:30:00Z",
//	  "isPinned":false}]
//
// The theme preference is a bare JSON boolean ("true" = dark).

// noteRecord is the decoding view of a stored note. It is more lenient than
// model.Note so that records written by the browser version of the app load:
// those have numeric ids (Date.now()) and US-locale timestamps
// ("5/1/2024, 9:00:00 AM").
type noteRecord struct {
	ID        recordID   `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	CreatedAt recordTime `json:"createdAt"`
	UpdatedAt recordTime `json:"updatedAt"`
	IsPinned  bool       `json:"isPinned"`
}

// legacyTimeLayouts are the Date.toLocaleString() shapes of the en-US locale,
// 12- and 24-hour. They carry no zone and are read as local time.
var legacyTimeLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"1/2/2006, 15:04:05",
}

// recordTime accepts RFC 3339 or a legacy locale timestamp. A value it cannot
// read does not fail the decode: it sets bad, and decodeNotes drops just that
// record. A missing or null timestamp is the zero time.
type recordTime struct {
	t   time.Time
	bad bool
}

func (rt *recordTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		rt.bad = true
		return nil
	}

	t, ok := parseStoredTime(s)
	rt.t, rt.bad = t, !ok
	return nil
}

func parseStoredTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}

	// Newer ICU versions put a narrow no-break space before AM/PM.
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(strings.TrimSpace(s))
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// recordID accepts a JSON string or a JSON number.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("note id must be a string or a number: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

// encodeNotes serializes the collection. Tags are always written as an array,
// never null.
func encodeNotes(notes []model.Note) (string, error) {
	out := make([]model.Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding notes: %w", err)
	}
	return string(data), nil
}

// decodeNotes parses a stored collection.
//
// Input that is not a JSON array of records yields an apperror.ErrCorrupt
// error. Otherwise each record is brought back in line with the note
// invariants on the way in: records without an id, with an id seen earlier or
// with an unreadable timestamp are dropped (and counted), tags are
// de-duplicated, and an UpdatedAt earlier than CreatedAt is raised to
// CreatedAt. One bad record never costs the rest of the collection.
func decodeNotes(raw string) ([]model.Note, int, error) {
	var records []noteRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, apperror.Corrupted(repository.NotesKey, err)
	}

	notes := make([]model.Note, 0, len(records))
	seen := make(map[string]bool, len(records))
	dropped := 0

	for _, r := range records {
		id := string(r.ID)
		if id == "" || seen[id] || r.CreatedAt.bad || r.UpdatedAt.bad {
			dropped++
			continue
		}
		seen[id] = true

		n := model.Note{
			ID:        id,
			Title:     r.Title,
			Content:   r.Content,
			Tags:      normalizeTags(r.Tags),
			CreatedAt: r.CreatedAt.t.UTC(),
			UpdatedAt: r.UpdatedAt.t.UTC(),
			IsPinned:  r.IsPinned,
		}
		if n.UpdatedAt.Before(n.CreatedAt) {
			n.UpdatedAt = n.CreatedAt
		}
		notes = append(notes, n)
	}

	return notes, dropped, nil
}

func encodeTheme(t model.Theme) string {
	return strconv.FormatBool(t.Dark)
}

func decodeTheme(raw string) (model.Theme, error) {
	var dark bool
	if err := json.Unmarshal([]byte(raw), &dark); err != nil {
		return model.Theme{}, apperror.Corrupted(repository.ThemeKey, err)
	}
	return model.Theme{Dark: dark}, nil
}

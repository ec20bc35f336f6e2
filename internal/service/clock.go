package service

import (
	"time"

	"github.com/rs/xid"
)

// Clock supplies "now". Injected so create/update timestamps are deterministic in tests.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time {
	return time.Now()
}

// IDGenerator returns a fresh note ID on every call.
type IDGenerator func() string

// NewXID generates IDs with xid: 20 URL-safe characters, unique across
// processes, and ordered by creation time.
//
//	"cv37rs3pp9olc6atsptg"
func NewXID() string {
	return xid.New().String()
}

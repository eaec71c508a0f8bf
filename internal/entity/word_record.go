package entity

import (
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 layout used whenever a record timestamp is rendered as text.
const TimestampLayout = time.RFC3339Nano

// WordRecord is one captured phrase. Text is the natural key.
type WordRecord struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewWordRecord stamps text with the capture time. Timestamps are kept in UTC at
// microsecond precision so they survive a round trip through every supported backend.
func NewWordRecord(text string, now time.Time) WordRecord {
	return WordRecord{Text: text, Timestamp: NormalizeTimestamp(now)}
}

// NormalizeTimestamp converts t to UTC and truncates it to microseconds.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// ISOTimestamp renders the capture time as ISO-8601.
func (r WordRecord) ISOTimestamp() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}

// Validate rejects records that could never have been produced by a capture.
func (r WordRecord) Validate() error {
	if IsBlankText(r.Text) {
		return ErrInvalidWordText
	}
	if r.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// IsBlankText reports whether text is empty or whitespace only.
func IsBlankText(text string) bool {
	return strings.TrimSpace(text) == ""
}

// AddResult is the non-error outcome of adding text to the store.
type AddResult int

const (
	AddResultAdded AddResult = iota + 1
	AddResultAlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case AddResultAdded:
		return "added"
	case AddResultAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// ByRecency orders records most recent first; equal timestamps fall back to text so
// that pages never shuffle between reads.
func ByRecency(a, b WordRecord) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

package entity

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWordRecordNormalizesTimestamp(t *testing.T) {
	local := time.Date(2025, 6, 1, 8, 0, 0, 123456789, time.FixedZone("UTC+8", 8*3600))
	rec := NewWordRecord("Hello world", local)

	assert.Equal(t, "Hello world", rec.Text)
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.Equal(t, "2025-06-01T00:00:00.123456Z", rec.ISOTimestamp())
	require.NoError(t, rec.Validate())
}

func TestByRecency(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []WordRecord{
		{Text: "old", Timestamp: base},
		{Text: "tie-b", Timestamp: base.Add(time.Hour)},
		{Text: "new", Timestamp: base.Add(2 * time.Hour)},
		{Text: "tie-a", Timestamp: base.Add(time.Hour)},
	}
	slices.SortStableFunc(records, ByRecency)

	texts := make([]string, 0, len(records))
	for _, r := range records {
		texts = append(texts, r.Text)
	}
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old"}, texts)
}

func TestAddResultString(t *testing.T) {
	assert.Equal(t, "added", AddResultAdded.String())
	assert.Equal(t, "already_exists", AddResultAlreadyExists.String())
	assert.Equal(t, "unknown", AddResult(0).String())
}

package filterexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listParams struct {
	Text       *string
	TextPrefix *string
	Texts      []string
	Since      *time.Time
	Until      *time.Time
}

type rawFilter string

func (f rawFilter) GetFilter() string { return string(f) }

var testSchema = Schema{
	Fields: map[string]FilterField{
		"text": {
			Kind: KindString,
			Ops: map[Op]string{
				OpEQ: "Text",
				OpSW: "TextPrefix",
				OpIN: "Texts",
			},
		},
		"timestamp": {
			Kind: KindTimestamp,
			Ops: map[Op]string{
				OpGTE: "Since",
				OpLTE: "Until",
			},
		},
	},
}

func TestBindConjunction(t *testing.T) {
	var params listParams
	filter := rawFilter("text.startsWith('be') && timestamp >= timestamp('2025-01-01T00:00:00Z') && timestamp <= timestamp('2025-02-01T12:30:00+02:00')")

	require.NoError(t, Bind(filter, &params, testSchema))

	require.NotNil(t, params.TextPrefix)
	assert.Equal(t, "be", *params.TextPrefix)
	require.NotNil(t, params.Since)
	assert.True(t, params.Since.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, params.Until)
	assert.True(t, params.Until.Equal(time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)))
	assert.Nil(t, params.Text)
	assert.Nil(t, params.Texts)
}

func TestBindEqualityAndIn(t *testing.T) {
	var params listParams
	require.NoError(t, Bind(rawFilter(`text == "Hello world"`), &params, testSchema))
	require.NotNil(t, params.Text)
	assert.Equal(t, "Hello world", *params.Text)

	params = listParams{}
	require.NoError(t, Bind(rawFilter(`text in ['a', 'b c']`), &params, testSchema))
	assert.Equal(t, []string{"a", "b c"}, params.Texts)
}

func TestBindEmptyFilterIsNoop(t *testing.T) {
	var params listParams
	require.NoError(t, Bind(rawFilter("   "), &params, testSchema))
	assert.Equal(t, listParams{}, params)
}

func TestBindRejectsUnsupportedFilters(t *testing.T) {
	cases := map[string]string{
		"syntax":           "text ==",
		"unknown field":    "lemma == 'x'",
		"or":               "text == 'a' || text == 'b'",
		"negation":         "!(text == 'a')",
		"operator":         "text >= 'a'",
		"number literal":   "text == 1",
		"bad timestamp":    "timestamp >= timestamp('yesterday')",
		"string for time":  "timestamp >= '2025-01-01'",
		"empty in list":    "text in []",
		"field comparison": "text == timestamp",
	}
	for name, filter := range cases {
		t.Run(name, func(t *testing.T) {
			var params listParams
			assert.Error(t, Bind(rawFilter(filter), &params, testSchema))
		})
	}
}

func TestParseKeepsSourceOrder(t *testing.T) {
	preds, err := Parse("text == 'a' && text.startsWith('b')", testSchema)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, Predicate{Field: "text", Op: OpEQ, Value: "a"}, preds[0])
	assert.Equal(t, Predicate{Field: "text", Op: OpSW, Value: "b"}, preds[1])
}

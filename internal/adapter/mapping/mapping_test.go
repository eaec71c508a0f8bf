package mapping

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

func TestToConnectError(t *testing.T) {
	cases := []struct {
		err  error
		want connect.Code
	}{
		{entity.ErrInvalidWordText, connect.CodeInvalidArgument},
		{fmt.Errorf("list: %w", entity.ErrInvalidFilter), connect.CodeInvalidArgument},
		{entity.ErrInvalidPageSize, connect.CodeInvalidArgument},
		{entity.NewStorageError("insert", errors.New("disk I/O error")), connect.CodeUnavailable},
		{context.DeadlineExceeded, connect.CodeDeadlineExceeded},
		{context.Canceled, connect.CodeCanceled},
		{errors.New("boom"), connect.CodeInternal},
		{connect.NewError(connect.CodeNotFound, errors.New("x")), connect.CodeNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, connect.CodeOf(ToConnectError(tc.err)), tc.err.Error())
	}
	assert.NoError(t, ToConnectError(nil))
}

func TestToPbWords(t *testing.T) {
	ts := time.Date(2025, 5, 1, 9, 30, 0, 250000000, time.UTC)
	words := ToPbWords([]entity.WordRecord{entity.NewWordRecord("Hello", ts)})
	if assert.Len(t, words, 1) {
		assert.Equal(t, "Hello", words[0].Text)
		assert.Equal(t, "2025-05-01T09:30:00.25Z", words[0].Timestamp)
	}
	assert.Empty(t, ToPbWords(nil))
}

func TestToPbCollectResult(t *testing.T) {
	assert.Equal(t, "added", ToPbCollectResult(usecase.CaptureResult{Text: "a", Outcome: usecase.CaptureOutcomeSaved}).Result)
	assert.Equal(t, "already_exists", ToPbCollectResult(usecase.CaptureResult{Text: "a", Outcome: usecase.CaptureOutcomeDuplicate}).Result)
	assert.Equal(t, "not_english", ToPbCollectResult(usecase.CaptureResult{Text: "你好", Outcome: usecase.CaptureOutcomeNotEnglish}).Result)
}

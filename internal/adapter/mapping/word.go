package mapping

import (
	"github.com/samber/lo"

	wordpickerv1 "github.com/eslsoft/wordpicker/api/wordpicker/v1"
	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

func ToPbWord(in entity.WordRecord) *wordpickerv1.Word {
	return &wordpickerv1.Word{
		Text:      in.Text,
		Timestamp: in.ISOTimestamp(),
	}
}

func ToPbWords(in []entity.WordRecord) []*wordpickerv1.Word {
	return lo.Map(in, func(rec entity.WordRecord, _ int) *wordpickerv1.Word {
		return ToPbWord(rec)
	})
}

// ToPbCollectResult renders a capture outcome. Saved and duplicate map onto
// the store's added/already_exists vocabulary.
func ToPbCollectResult(in usecase.CaptureResult) *wordpickerv1.CollectWordResponse {
	result := in.Outcome.String()
	switch in.Outcome {
	case usecase.CaptureOutcomeSaved:
		result = entity.AddResultAdded.String()
	case usecase.CaptureOutcomeDuplicate:
		result = entity.AddResultAlreadyExists.String()
	}
	return &wordpickerv1.CollectWordResponse{Result: result, Text: in.Text}
}

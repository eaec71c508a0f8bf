package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/pkg/textfilter"
)

// Confirmer asks the user whether a selection should be saved.
type Confirmer interface {
	Confirm(ctx context.Context, text string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(ctx context.Context, text string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, text string) (bool, error) {
	return f(ctx, text)
}

// CaptureOutcome tells the caller what happened to a selection.
type CaptureOutcome int

const (
	CaptureOutcomeEmpty CaptureOutcome = iota + 1
	CaptureOutcomeNotEnglish
	CaptureOutcomeDeclined
	CaptureOutcomeSaved
	CaptureOutcomeDuplicate
)

func (o CaptureOutcome) String() string {
	switch o {
	case CaptureOutcomeEmpty:
		return "empty"
	case CaptureOutcomeNotEnglish:
		return "not_english"
	case CaptureOutcomeDeclined:
		return "declined"
	case CaptureOutcomeSaved:
		return "saved"
	case CaptureOutcomeDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// CaptureResult is the normalized selection and its outcome.
type CaptureResult struct {
	Text    string
	Outcome CaptureOutcome
}

// CaptureUsecase turns a raw selection into a stored word.
type CaptureUsecase interface {
	// Capture trims the selection, checks it is English-like text, asks confirm
	// when it is non-nil, and stores it.
	Capture(ctx context.Context, selection string, confirm Confirmer) (CaptureResult, error)
}

func NewCaptureUsecase(store WordStore, logger *logrus.Logger) CaptureUsecase {
	return &captureUsecase{store: store, logger: logger.WithField("component", "capture")}
}

type captureUsecase struct {
	store  WordStore
	logger logrus.FieldLogger
}

func (c *captureUsecase) Capture(ctx context.Context, selection string, confirm Confirmer) (CaptureResult, error) {
	text := textfilter.Normalize(selection)
	if text == "" {
		return CaptureResult{Outcome: CaptureOutcomeEmpty}, nil
	}
	result := CaptureResult{Text: text}
	if !textfilter.IsEligible(text) {
		c.logger.WithField("text", text).Debug("selection is not english text")
		result.Outcome = CaptureOutcomeNotEnglish
		return result, nil
	}

	if confirm != nil {
		ok, err := confirm.Confirm(ctx, text)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Outcome = CaptureOutcomeDeclined
			return result, nil
		}
	}

	added, err := c.store.Add(ctx, text)
	if err != nil {
		return result, err
	}
	if added == entity.AddResultAlreadyExists {
		result.Outcome = CaptureOutcomeDuplicate
	} else {
		result.Outcome = CaptureOutcomeSaved
	}
	return result, nil
}

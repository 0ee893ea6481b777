package tools

import (
	"context"
	"strings"
	"time"

	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/imagesource"
	"github.com/soochol/viscribe/internal/viscribe"
)

const (
	GetCreditsName     = "GetCredits"
	SubmitFeedbackName = "SubmitFeedback"

	minRating = 1
	maxRating = 5
)

func creditsOperation() Operation[struct{}] {
	return Operation[struct{}]{
		Name:        GetCreditsName,
		Description: "Get the remaining credits and total credits used for the Viscribe account.",
		Dispatch: func(ctx context.Context, c Client, _ []imagesource.Image, _ struct{}) (map[string]any, error) {
			resp, err := c.GetCredits(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"remaining_credits":  resp.RemainingCredits,
				"total_credits_used": resp.TotalCreditsUsed,
			}, nil
		},
	}
}

type feedbackParams struct {
	requestID string
	rating    int
	text      string
}

func feedbackOperation() Operation[feedbackParams] {
	return Operation[feedbackParams]{
		Name:        SubmitFeedbackName,
		Description: "Submit a 1 to 5 rating, with optional text, for a previous Viscribe request.",
		Params: []Param{
			{Name: "request_id", Type: TypeString, Description: "The request_id returned by a previous operation.", Required: true},
			{Name: "rating", Type: TypeInteger, Description: "Rating from 1 (worst) to 5 (best).", Required: true},
			{Name: "feedback_text", Type: TypeString, Description: "Optional feedback text."},
		},
		Prepare: prepareFeedback,
		Dispatch: func(ctx context.Context, c Client, _ []imagesource.Image, p feedbackParams) (map[string]any, error) {
			resp, err := c.SubmitFeedback(ctx, &viscribe.FeedbackRequest{
				RequestID:    p.requestID,
				Rating:       p.rating,
				FeedbackText: p.text,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"feedback_id":        resp.FeedbackID,
				"request_id":         resp.RequestID,
				"message":            resp.Message,
				"feedback_timestamp": resp.FeedbackTimestamp.UTC().Format(time.RFC3339),
			}, nil
		},
	}
}

func prepareFeedback(args Args) (feedbackParams, error) {
	id := strings.TrimSpace(args.str("request_id"))
	if id == "" {
		return feedbackParams{}, apperrors.NewValidationError("request_id is required", nil)
	}
	rating, _ := args.integer("rating")
	if rating < minRating || rating > maxRating {
		return feedbackParams{}, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}
	return feedbackParams{
		requestID: id,
		rating:    rating,
		text:      args.str("feedback_text"),
	}, nil
}

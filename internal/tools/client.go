package tools

import (
	"context"

	"github.com/soochol/viscribe/internal/viscribe"
)

// Client is the remote-service surface the image tools dispatch to.
// *viscribe.Client implements it; tests use stubs.
type Client interface {
	DescribeImage(ctx context.Context, req *viscribe.DescribeImageRequest) (*viscribe.DescribeImageResponse, error)
	AskImage(ctx context.Context, req *viscribe.AskImageRequest) (*viscribe.AskImageResponse, error)
	ClassifyImage(ctx context.Context, req *viscribe.ClassifyImageRequest) (*viscribe.ClassifyImageResponse, error)
	ExtractImage(ctx context.Context, req *viscribe.ExtractImageRequest) (*viscribe.ExtractImageResponse, error)
	CompareImages(ctx context.Context, req *viscribe.CompareImagesRequest) (*viscribe.CompareImagesResponse, error)
	GetCredits(ctx context.Context) (*viscribe.CreditsResponse, error)
	SubmitFeedback(ctx context.Context, req *viscribe.FeedbackRequest) (*viscribe.FeedbackResponse, error)
}

var _ Client = (*viscribe.Client)(nil)

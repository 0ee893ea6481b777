package tools

import (
	"context"

	"github.com/soochol/viscribe/internal/imagesource"
	"github.com/soochol/viscribe/internal/viscribe"
)

const (
	CompareImagesName = "CompareImages"

	DefaultCompareInstruction = "Describe the similarities and differences between these two images."
)

func compareOperation() Operation[string] {
	return Operation[string]{
		Name: CompareImagesName,
		Description: "Compare two images and describe their similarities and differences. " +
			"For each image provide exactly one of its url, base64, or path fields.",
		Images: []imagesource.Slot{
			{Prefix: "image1", Label: "the first image"},
			{Prefix: "image2", Label: "the second image"},
		},
		Params: []Param{
			{
				Name:        "instruction",
				Type:        TypeString,
				Description: "Instructions for the comparison.",
				Default:     DefaultCompareInstruction,
			},
		},
		Prepare: func(args Args) (string, error) {
			if !args.has("instruction") {
				return DefaultCompareInstruction, nil
			}
			return args.str("instruction"), nil
		},
		Dispatch: func(ctx context.Context, c Client, images []imagesource.Image, instruction string) (map[string]any, error) {
			resp, err := c.CompareImages(ctx, &viscribe.CompareImagesRequest{
				Image1URL:    images[0].URL,
				Image1Base64: images[0].Base64,
				Image2URL:    images[1].URL,
				Image2Base64: images[1].Base64,
				Instruction:  instruction,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"request_id":        resp.RequestID,
				"credits_used":      resp.CreditsUsed,
				"comparison_result": resp.ComparisonResult,
			}, nil
		},
	}
}

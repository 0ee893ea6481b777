package tools

import (
	"context"

	"github.com/soochol/viscribe/internal/imagesource"
	"github.com/soochol/viscribe/internal/viscribe"
)

const (
	DescribeImageName = "DescribeImage"
	AskImageName      = "AskImage"
)

type describeParams struct {
	instruction  string
	generateTags bool
}

func describeOperation() Operation[describeParams] {
	return Operation[describeParams]{
		Name: DescribeImageName,
		Description: "Generate a detailed natural language description of an image, " +
			"optionally with tags. Provide exactly one of image_url, image_base64, or image_path.",
		Images: singleImage,
		Params: []Param{
			{Name: "instruction", Type: TypeString, Description: "Additional instructions for the description."},
			{Name: "generate_tags", Type: TypeBoolean, Description: "Whether to generate tags for the image.", Default: true},
		},
		Prepare: func(args Args) (describeParams, error) {
			return describeParams{
				instruction:  args.str("instruction"),
				generateTags: args.boolean("generate_tags", true),
			}, nil
		},
		Dispatch: func(ctx context.Context, c Client, images []imagesource.Image, p describeParams) (map[string]any, error) {
			resp, err := c.DescribeImage(ctx, &viscribe.DescribeImageRequest{
				ImageURL:     images[0].URL,
				ImageBase64:  images[0].Base64,
				Instruction:  p.instruction,
				GenerateTags: p.generateTags,
			})
			if err != nil {
				return nil, err
			}
			tags := resp.Tags
			if tags == nil {
				tags = []string{}
			}
			return map[string]any{
				"request_id":        resp.RequestID,
				"credits_used":      resp.CreditsUsed,
				"image_description": resp.ImageDescription,
				"tags":              tags,
			}, nil
		},
	}
}

func askOperation() Operation[string] {
	return Operation[string]{
		Name: AskImageName,
		Description: "Ask a question about an image and get an answer. " +
			"Provide exactly one of image_url, image_base64, or image_path.",
		Images: singleImage,
		Params: []Param{
			{Name: "question", Type: TypeString, Description: "The question to ask about the image.", Required: true},
		},
		Prepare: func(args Args) (string, error) {
			return args.str("question"), nil
		},
		Dispatch: func(ctx context.Context, c Client, images []imagesource.Image, question string) (map[string]any, error) {
			resp, err := c.AskImage(ctx, &viscribe.AskImageRequest{
				ImageURL:    images[0].URL,
				ImageBase64: images[0].Base64,
				Question:    question,
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"request_id":   resp.RequestID,
				"credits_used": resp.CreditsUsed,
				"answer":       resp.Answer,
			}, nil
		},
	}
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/imagesource"
	"github.com/soochol/viscribe/internal/viscribe"
)

const ClassifyImageName = "ClassifyImage"

type classifyParams struct {
	classes      []string
	descriptions map[string]string
	instruction  string
	multiLabel   bool
}

func classifyOperation() Operation[classifyParams] {
	return Operation[classifyParams]{
		Name: ClassifyImageName,
		Description: "Classify an image into one or more of the given classes. " +
			"Provide exactly one of image_url, image_base64, or image_path.",
		Images: singleImage,
		Params: []Param{
			{
				Name:        "classes",
				Type:        TypeJSON,
				Description: `JSON array of class names, e.g. ["cat", "dog", "bird"].`,
				Required:    true,
			},
			{
				Name:        "class_descriptions",
				Type:        TypeJSON,
				Description: `JSON object mapping class names to descriptions, e.g. {"cat": "A small domesticated feline"}.`,
			},
			{Name: "instruction", Type: TypeString, Description: "Additional instructions for classification."},
			{Name: "multi_label", Type: TypeBoolean, Description: "Whether more than one class may apply.", Default: false},
		},
		Prepare: prepareClassify,
		Dispatch: func(ctx context.Context, c Client, images []imagesource.Image, p classifyParams) (map[string]any, error) {
			resp, err := c.ClassifyImage(ctx, &viscribe.ClassifyImageRequest{
				ImageURL:          images[0].URL,
				ImageBase64:       images[0].Base64,
				Classes:           p.classes,
				ClassDescriptions: p.descriptions,
				Instruction:       p.instruction,
				MultiLabel:        p.multiLabel,
			})
			if err != nil {
				return nil, err
			}
			classification := resp.Classification
			if classification == nil {
				classification = []string{}
			}
			return map[string]any{
				"request_id":     resp.RequestID,
				"credits_used":   resp.CreditsUsed,
				"classification": classification,
			}, nil
		},
	}
}

func prepareClassify(args Args) (classifyParams, error) {
	classes, err := parseClasses(args["classes"])
	if err != nil {
		return classifyParams{}, err
	}
	p := classifyParams{
		classes:     classes,
		instruction: args.str("instruction"),
		multiLabel:  args.boolean("multi_label", false),
	}
	if args.has("class_descriptions") {
		if p.descriptions, err = parseClassDescriptions(args["class_descriptions"]); err != nil {
			return classifyParams{}, err
		}
	}
	return p, nil
}

func parseClasses(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, apperrors.NewValidationError("classes must be a JSON array of class names", nil)
	}
	if len(list) == 0 {
		return nil, apperrors.NewValidationError("classes must contain at least one class", nil)
	}
	classes := make([]string, 0, len(list))
	for i, item := range list {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("classes[%d] must be a non-empty string", i), nil)
		}
		classes = append(classes, name)
	}
	return classes, nil
}

func parseClassDescriptions(v any) (map[string]string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewValidationError("class_descriptions must be a JSON object", nil)
	}
	descriptions := make(map[string]string, len(obj))
	for class, d := range obj {
		s, ok := d.(string)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("class_descriptions[%q] must be a string", class), nil)
		}
		descriptions[class] = s
	}
	return descriptions, nil
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/imagesource"
	"github.com/soochol/viscribe/internal/viscribe"
)

const ExtractImageName = "ExtractImage"

// Field types accepted by the extract endpoint.
var extractFieldTypes = map[string]bool{
	"text":         true,
	"number":       true,
	"array_text":   true,
	"array_number": true,
}

type extractParams struct {
	fields      []viscribe.ExtractField
	schema      map[string]any
	instruction string
}

func extractOperation() Operation[extractParams] {
	return Operation[extractParams]{
		Name: ExtractImageName,
		Description: "Extract structured data from an image using either simple fields or an advanced JSON schema. " +
			"Provide exactly one of image_url, image_base64, or image_path, and exactly one of fields or advanced_schema.",
		Images: singleImage,
		Params: []Param{
			{
				Name: "fields",
				Type: TypeJSON,
				Description: `JSON array of field definitions, each with name, type (text, number, array_text, array_number) ` +
					`and an optional description, e.g. [{"name": "total", "type": "number"}].`,
			},
			{
				Name:        "advanced_schema",
				Type:        TypeJSON,
				Description: `JSON Schema object describing the data to extract. Must have type "object" and properties.`,
			},
			{Name: "instruction", Type: TypeString, Description: "Additional instructions for extraction."},
		},
		Prepare: prepareExtract,
		Dispatch: func(ctx context.Context, c Client, images []imagesource.Image, p extractParams) (map[string]any, error) {
			resp, err := c.ExtractImage(ctx, &viscribe.ExtractImageRequest{
				ImageURL:       images[0].URL,
				ImageBase64:    images[0].Base64,
				Fields:         p.fields,
				AdvancedSchema: p.schema,
				Instruction:    p.instruction,
			})
			if err != nil {
				return nil, err
			}
			data := resp.ExtractedData
			if data == nil {
				data = map[string]any{}
			}
			return map[string]any{
				"request_id":     resp.RequestID,
				"credits_used":   resp.CreditsUsed,
				"extracted_data": data,
			}, nil
		},
	}
}

func prepareExtract(args Args) (extractParams, error) {
	_, err := imagesource.ExactlyOne(
		imagesource.Choice{Name: "fields", Set: args.has("fields")},
		imagesource.Choice{Name: "advanced_schema", Set: args.has("advanced_schema")},
	)
	if err != nil {
		return extractParams{}, asInvalidInput(err)
	}

	p := extractParams{instruction: args.str("instruction")}
	if args.has("fields") {
		p.fields, err = parseExtractFields(args["fields"])
	} else {
		p.schema, err = parseAdvancedSchema(args["advanced_schema"])
	}
	if err != nil {
		return extractParams{}, err
	}
	return p, nil
}

// asInvalidInput reclassifies an exclusivity violation between two
// operation parameters, keeping message and rule.
func asInvalidInput(err error) error {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		return err
	}
	return apperrors.NewInvalidInputError(appErr.Message, nil).WithDetails(appErr.Details)
}

func parseExtractFields(v any) ([]viscribe.ExtractField, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, apperrors.NewValidationError("fields must be a non-empty JSON array of field definitions", nil)
	}
	fields := make([]viscribe.ExtractField, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("fields[%d] must be an object", i), nil)
		}
		name, _ := obj["name"].(string)
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("fields[%d].name is required", i), nil)
		}
		typ, _ := obj["type"].(string)
		if !extractFieldTypes[typ] {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("fields[%d].type must be one of text, number, array_text, or array_number", i), nil)
		}
		desc, _ := obj["description"].(string)
		fields = append(fields, viscribe.ExtractField{Name: name, Type: typ, Description: desc})
	}
	return fields, nil
}

func parseAdvancedSchema(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewValidationError("advanced_schema must be a JSON object", nil)
	}
	if typ, present := obj["type"]; present && typ != "object" {
		return nil, apperrors.NewValidationError(`advanced_schema must have type "object"`, nil)
	}
	return obj, nil
}

package viscribe

import (
	"fmt"
	"strings"
	"time"
)

type DescribeImageRequest struct {
	ImageURL     string `json:"image_url,omitempty"`
	ImageBase64  string `json:"image_base64,omitempty"`
	Instruction  string `json:"instruction,omitempty"`
	GenerateTags bool   `json:"generate_tags"`
}

type DescribeImageResponse struct {
	RequestID        string   `json:"request_id"`
	CreditsUsed      int      `json:"credits_used"`
	ImageDescription string   `json:"image_description"`
	Tags             []string `json:"tags"`
}

type AskImageRequest struct {
	ImageURL    string `json:"image_url,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Question    string `json:"question"`
}

type AskImageResponse struct {
	RequestID   string `json:"request_id"`
	CreditsUsed int    `json:"credits_used"`
	Answer      string `json:"answer"`
}

type ClassifyImageRequest struct {
	ImageURL          string            `json:"image_url,omitempty"`
	ImageBase64       string            `json:"image_base64,omitempty"`
	Classes           []string          `json:"classes"`
	ClassDescriptions map[string]string `json:"class_descriptions,omitempty"`
	Instruction       string            `json:"instruction,omitempty"`
	MultiLabel        bool              `json:"multi_label"`
}

type ClassifyImageResponse struct {
	RequestID      string   `json:"request_id"`
	CreditsUsed    int      `json:"credits_used"`
	Classification []string `json:"classification"`
}

// ExtractField is one entry of a simple extraction field list.
type ExtractField struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // text, number, array_text or array_number
	Description string `json:"description,omitempty"`
}

// ExtractImageRequest carries either Fields or AdvancedSchema, never both.
type ExtractImageRequest struct {
	ImageURL       string         `json:"image_url,omitempty"`
	ImageBase64    string         `json:"image_base64,omitempty"`
	Fields         []ExtractField `json:"fields,omitempty"`
	AdvancedSchema map[string]any `json:"advanced_schema,omitempty"`
	Instruction    string         `json:"instruction,omitempty"`
}

type ExtractImageResponse struct {
	RequestID     string         `json:"request_id"`
	CreditsUsed   int            `json:"credits_used"`
	ExtractedData map[string]any `json:"extracted_data"`
}

type CompareImagesRequest struct {
	Image1URL    string `json:"image1_url,omitempty"`
	Image1Base64 string `json:"image1_base64,omitempty"`
	Image2URL    string `json:"image2_url,omitempty"`
	Image2Base64 string `json:"image2_base64,omitempty"`
	Instruction  string `json:"instruction,omitempty"`
}

type CompareImagesResponse struct {
	RequestID        string `json:"request_id"`
	CreditsUsed      int    `json:"credits_used"`
	ComparisonResult string `json:"comparison_result"`
}

type CreditsResponse struct {
	RemainingCredits int `json:"remaining_credits"`
	TotalCreditsUsed int `json:"total_credits_used"`
}

type FeedbackRequest struct {
	RequestID    string `json:"request_id"`
	Rating       int    `json:"rating"`
	FeedbackText string `json:"feedback_text,omitempty"`
}

type FeedbackResponse struct {
	FeedbackID        string    `json:"feedback_id"`
	RequestID         string    `json:"request_id"`
	Message           string    `json:"message"`
	FeedbackTimestamp Timestamp `json:"feedback_timestamp"`
}

// Timestamp accepts RFC 3339 as well as the zone-less ISO 8601 form the
// API emits for some records; zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("parse timestamp %q: %w", s, lastErr)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

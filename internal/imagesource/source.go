// Package imagesource resolves the three ways a caller may point at an
// image (remote URL, inline base64, local path) into what the Viscribe
// API accepts (URL or base64).
package imagesource

import (
	"fmt"
	"strings"

	"github.com/soochol/viscribe/internal/apperrors"
)

// Rules reported in AppError.Details when an exclusive group is violated.
const (
	RuleNoneProvided      = "none provided"
	RuleMultipleProvided  = "more than one provided"
	RuleLocalPathDisabled = "local path not accepted"
)

// Choice is one named member of a mutually exclusive group of optional fields.
type Choice struct {
	Name string
	Set  bool
}

// ExactlyOne returns the index of the single populated choice. Zero or
// several populated choices is a validation error; there is no precedence.
func ExactlyOne(choices ...Choice) (int, error) {
	picked := -1
	count := 0
	for i, c := range choices {
		if c.Set {
			picked = i
			count++
		}
	}
	switch count {
	case 1:
		return picked, nil
	case 0:
		return -1, apperrors.NewValidationError("provide exactly one of "+joinNames(choices), nil).
			WithDetails(RuleNoneProvided)
	default:
		return -1, apperrors.NewValidationError("provide only one of "+joinNames(choices), nil).
			WithDetails(RuleMultipleProvided)
	}
}

// joinNames renders "a, b, or c".
func joinNames(choices []Choice) string {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Name
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}

// Source is an unresolved image reference. Exactly one field is set.
type Source struct {
	URL    string
	Base64 string
	Path   string
}

// Slot names the argument fields of one image in a tool input. Single
// image tools use the "image" prefix; comparison uses "image1"/"image2".
type Slot struct {
	Prefix string
	// Label is prepended to validation messages when a tool takes more
	// than one image, e.g. "the first image".
	Label string
	// NoPath rejects the *_path field. Set when callers are remote and
	// must not reach this machine's filesystem.
	NoPath bool
}

func (s Slot) URLField() string    { return s.Prefix + "_url" }
func (s Slot) Base64Field() string { return s.Prefix + "_base64" }
func (s Slot) PathField() string   { return s.Prefix + "_path" }

// Fields lists the argument names the slot accepts.
func (s Slot) Fields() []string {
	if s.NoPath {
		return []string{s.URLField(), s.Base64Field()}
	}
	return []string{s.URLField(), s.Base64Field(), s.PathField()}
}

// Select reads the slot's fields from args and enforces that exactly one
// of them is populated.
func (s Slot) Select(args map[string]any) (Source, error) {
	var values [3]string
	fields := [3]string{s.URLField(), s.Base64Field(), s.PathField()}
	for i, f := range fields {
		v, err := optionalString(args, f)
		if err != nil {
			return Source{}, err
		}
		values[i] = strings.TrimSpace(v)
	}

	if s.NoPath && values[2] != "" {
		err := apperrors.NewValidationError(
			fmt.Sprintf("%s is not accepted here; provide %s or %s", fields[2], fields[0], fields[1]), nil).
			WithDetails(RuleLocalPathDisabled)
		if s.Label != "" {
			return Source{}, relabel(err, s.Label)
		}
		return Source{}, err
	}

	choices := make([]Choice, 0, len(fields))
	for i, name := range s.Fields() {
		choices = append(choices, Choice{Name: name, Set: values[i] != ""})
	}
	idx, err := ExactlyOne(choices...)
	if err != nil {
		if s.Label != "" {
			return Source{}, relabel(err, s.Label)
		}
		return Source{}, err
	}

	switch idx {
	case 0:
		return Source{URL: values[0]}, nil
	case 1:
		return Source{Base64: values[1]}, nil
	default:
		return Source{Path: values[2]}, nil
	}
}

func relabel(err error, label string) error {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		return err
	}
	cp := *appErr
	cp.Message = "for " + label + ", " + appErr.Message
	return &cp
}

func optionalString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s must be a string", key), nil)
	}
	return s, nil
}

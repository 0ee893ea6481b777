package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/imagesource"
)

// Operation describes one Viscribe tool declaratively. ImageTool runs
// every operation through the same pipeline: normalize params, select
// one source per image slot, Prepare, resolve sources, Dispatch.
type Operation[P any] struct {
	Name        string
	Description string
	Images      []imagesource.Slot
	Params      []Param

	// Prepare performs operation specific shape checks and returns the
	// parsed parameters. It runs before any file or network I/O.
	Prepare func(args Args) (P, error)

	// Dispatch calls the client and maps the response to the result keys.
	// Client errors are returned unchanged.
	Dispatch func(ctx context.Context, c Client, images []imagesource.Image, p P) (map[string]any, error)
}

// ImageTool adapts an Operation to the Tool contract.
type ImageTool[P any] struct {
	op     Operation[P]
	client Client
}

// Option configures the tools built by NewImageTool, All and
// NewDefaultRegistry.
type Option func(*options)

type options struct {
	noLocalPaths bool
}

// WithoutLocalPaths drops the *_path sources from every image slot. The
// fields disappear from the input schema and are rejected before any
// file access. Use it for surfaces reached over the network.
func WithoutLocalPaths() Option {
	return func(o *options) { o.noLocalPaths = true }
}

func NewImageTool[P any](op Operation[P], client Client, opts ...Option) *ImageTool[P] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.noLocalPaths && len(op.Images) > 0 {
		slots := make([]imagesource.Slot, len(op.Images))
		for i, slot := range op.Images {
			slot.NoPath = true
			slots[i] = slot
		}
		op.Images = slots
	}
	return &ImageTool[P]{op: op, client: client}
}

func (t *ImageTool[P]) Name() string        { return t.op.Name }
func (t *ImageTool[P]) Description() string { return t.op.Description }

func (t *ImageTool[P]) InputSchema() map[string]any {
	props := map[string]any{}
	var required []string

	for _, slot := range t.op.Images {
		for name, prop := range slotProperties(slot) {
			props[name] = prop
		}
	}
	for _, p := range t.op.Params {
		prop := map[string]any{"description": p.Description}
		switch p.Type {
		case TypeJSON:
			prop["type"] = TypeString
		default:
			prop["type"] = p.Type
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func slotProperties(slot imagesource.Slot) map[string]any {
	subject := "the image"
	if slot.Label != "" {
		subject = slot.Label
	}
	rule := fmt.Sprintf("Provide exactly one of %s, %s, or %s.", slot.URLField(), slot.Base64Field(), slot.PathField())
	if slot.NoPath {
		rule = fmt.Sprintf("Provide exactly one of %s or %s.", slot.URLField(), slot.Base64Field())
	}
	props := map[string]any{
		slot.URLField(): map[string]any{
			"type":        TypeString,
			"description": fmt.Sprintf("URL of %s. %s", subject, rule),
		},
		slot.Base64Field(): map[string]any{
			"type":        TypeString,
			"description": fmt.Sprintf("Base64-encoded content of %s. %s", subject, rule),
		},
	}
	if !slot.NoPath {
		props[slot.PathField()] = map[string]any{
			"type":        TypeString,
			"description": fmt.Sprintf("Local file path of %s. %s", subject, rule),
		}
	}
	return props
}

func (t *ImageTool[P]) Execute(ctx context.Context, input any) (any, error) {
	return t.Invoke(ctx, input)
}

// ExecuteAsync yields the same result Execute would, on a channel.
func (t *ImageTool[P]) ExecuteAsync(ctx context.Context, input any) <-chan Outcome {
	return ExecuteAsync(ctx, t, input)
}

// Invoke is Execute with a typed result.
func (t *ImageTool[P]) Invoke(ctx context.Context, input any) (map[string]any, error) {
	raw, err := toArgs(input)
	if err != nil {
		return nil, err
	}
	args, err := normalize(t.op.Params, raw)
	if err != nil {
		return nil, err
	}

	sources := make([]imagesource.Source, len(t.op.Images))
	for i, slot := range t.op.Images {
		if sources[i], err = slot.Select(raw); err != nil {
			return nil, err
		}
	}

	var params P
	if t.op.Prepare != nil {
		if params, err = t.op.Prepare(args); err != nil {
			return nil, err
		}
	}

	if t.client == nil {
		return nil, apperrors.NewInternalError("viscribe client not initialized", nil)
	}

	images, err := resolveAll(sources)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.op.Dispatch(ctx, t.client, images, params)
}

// resolveAll resolves every source. Multiple sources are read
// concurrently; the first failure is returned.
func resolveAll(sources []imagesource.Source) ([]imagesource.Image, error) {
	images := make([]imagesource.Image, len(sources))
	if len(sources) == 1 {
		img, err := imagesource.Resolve(sources[0])
		if err != nil {
			return nil, err
		}
		images[0] = img
		return images, nil
	}

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			img, err := imagesource.Resolve(src)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// All returns every Viscribe tool bound to client.
func All(client Client, opts ...Option) []Tool {
	return []Tool{
		NewImageTool(describeOperation(), client, opts...),
		NewImageTool(askOperation(), client, opts...),
		NewImageTool(classifyOperation(), client, opts...),
		NewImageTool(extractOperation(), client, opts...),
		NewImageTool(compareOperation(), client, opts...),
		NewImageTool(creditsOperation(), client, opts...),
		NewImageTool(feedbackOperation(), client, opts...),
	}
}

var singleImage = []imagesource.Slot{{Prefix: "image"}}

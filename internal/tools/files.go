package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// List enumerates a virtual filesystem namespace.
func (k *Kit) List(ctx *ai.ToolContext, input ListInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	items, err := k.router.List(ctx.Context, input.Path, input.Query, input.Limit)
	if err != nil {
		return opResult(err), nil
	}
	return successResult(
		fmt.Sprintf("%d item(s) in %s", len(items), input.Path),
		map[string]any{"items": items}), nil
}

// Open opens a virtual path in its owning application.
func (k *Kit) Open(ctx *ai.ToolContext, input OpenInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	res, err := k.router.Open(ctx.Context, input.Path)
	if err != nil {
		return opResult(err), nil
	}
	return successResult(res.Message, map[string]any{"open": res}), nil
}

// Read returns the content behind a virtual path.
func (k *Kit) Read(ctx *ai.ToolContext, input ReadInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	res, err := k.router.Read(ctx.Context, input.Path)
	if err != nil {
		return opResult(err), nil
	}
	return successResult(
		fmt.Sprintf("Read %s", input.Path),
		map[string]any{"read": res}), nil
}

// Write creates or updates a markdown document.
func (k *Kit) Write(ctx *ai.ToolContext, input WriteInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	res, err := k.router.Write(ctx.Context, input.Path, input.Content, input.Mode)
	if err != nil {
		return opResult(err), nil
	}
	return successResult(res.Message, map[string]any{"write": res}), nil
}

// Edit replaces one exact occurrence of a string in a document or applet.
func (k *Kit) Edit(ctx *ai.ToolContext, input EditInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	res, err := k.router.Edit(ctx.Context, input.Path, input.OldString, input.NewString)
	if err != nil {
		return opResult(err), nil
	}
	return successResult(res.Message, map[string]any{"edit": res}), nil
}

package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// defaultSearchResults is used when the model omits maxResults.
const defaultSearchResults = 5

// SearchSongs queries the music service.
func (k *Kit) SearchSongs(ctx *ai.ToolContext, input SearchSongsInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	maxResults := input.MaxResults
	if maxResults == 0 {
		maxResults = defaultSearchResults
	}

	tracks, err := k.music.Search(ctx.Context, input.Query, maxResults)
	if err != nil {
		return errorResult(ErrCodeUpstream,
			fmt.Sprintf("song search failed: %v", err)), nil
	}
	if len(tracks) == 0 {
		return successResult(
			fmt.Sprintf("No songs matched %q", input.Query),
			map[string]any{"tracks": []any{}}), nil
	}
	return successResult(
		fmt.Sprintf("Found %d song(s) for %q", len(tracks), input.Query),
		map[string]any{"tracks": tracks}), nil
}

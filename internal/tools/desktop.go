package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/syamace/syaos/internal/apps"
)

// LaunchApp opens an application window. The Result carries a directive
// the desktop shell executes; the gateway itself holds no window state.
func (k *Kit) LaunchApp(_ *ai.ToolContext, input LaunchAppInput) (Result, error) {
	if err := input.Validate(k.now()); err != nil {
		return validationResult(err), nil
	}

	app, _ := apps.Lookup(input.ID)
	data := map[string]any{"action": "launchApp", "id": input.ID}
	if input.ID == apps.IDInternetExplorer {
		data["url"] = input.URL
		data["year"] = input.Year
		return successResult(
			fmt.Sprintf("Launched %s at %s in %s", app.Name, input.URL, input.Year), data), nil
	}
	return successResult(fmt.Sprintf("Launched %s", app.Name), data), nil
}

// CloseApp closes an application window.
func (k *Kit) CloseApp(_ *ai.ToolContext, input CloseAppInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	app, _ := apps.Lookup(input.ID)
	return successResult(
		fmt.Sprintf("Closed %s", app.Name),
		map[string]any{"action": "closeApp", "id": input.ID}), nil
}

// GenerateHTML renders a model-authored document in a new window.
func (k *Kit) GenerateHTML(_ *ai.ToolContext, input GenerateHTMLInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	data := map[string]any{"action": "generateHtml", "html": input.HTML}
	if input.Title != "" {
		data["title"] = input.Title
	}
	if input.Icon != "" {
		data["icon"] = input.Icon
	}
	title := input.Title
	if title == "" {
		title = "Untitled"
	}
	return successResult(fmt.Sprintf("Rendered %q", title), data), nil
}

// Aquarium triggers the full-screen aquarium.
func (k *Kit) Aquarium(_ *ai.ToolContext, _ AquariumInput) (Result, error) {
	return successResult("The fish are swimming",
		map[string]any{"action": "aquarium"}), nil
}

// UpdateSettings applies the provided preference subset.
func (k *Kit) UpdateSettings(_ *ai.ToolContext, input SettingsInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return validationResult(err), nil
	}
	if input.Empty() {
		return validationResult(fieldErr("settings", "at least one setting must be provided")), nil
	}

	changed := map[string]any{}
	if input.Language != "" {
		changed["language"] = input.Language
	}
	if input.Theme != "" {
		changed["theme"] = input.Theme
	}
	if input.MasterVolume != nil {
		changed["masterVolume"] = *input.MasterVolume
	}
	if input.SpeechEnabled != nil {
		changed["speechEnabled"] = *input.SpeechEnabled
	}
	if input.CheckForUpdates != nil {
		changed["checkForUpdates"] = *input.CheckForUpdates
	}

	return successResult(
		fmt.Sprintf("Updated %d setting(s)", len(changed)),
		map[string]any{"action": "settings", "changes": changed}), nil
}

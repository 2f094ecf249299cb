// Package models contains data types and constants shared across netchat.
package models

// Model identifies a hosted Gemini model by its API name.
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	Model25Flash = Model{
		Name:        "gemini-2.5-flash",
		Description: "Fast, low-latency model",
	}

	Model25FlashLite = Model{
		Name:        "gemini-2.5-flash-lite",
		Description: "Cheapest model, shorter answers",
	}

	Model25Pro = Model{
		Name:        "gemini-2.5-pro",
		Description: "Most capable model, slower",
	}

	// DefaultModel is the model used when neither flag nor config names one
	DefaultModel = Model25Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model25Flash, Model25FlashLite, Model25Pro}
}

// ModelFromName returns a Model by its name.
// Unknown names are passed through so newer models work without a release.
func ModelFromName(name string) Model {
	switch name {
	case "", "fast":
		return Model25Flash
	case "lite":
		return Model25FlashLite
	case "pro":
		return Model25Pro
	}
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name}
}

package api

import (
	"github.com/google/generative-ai-go/genai"

	"github.com/diogo/netchat/internal/models"
)

// BuildRequest returns the turns to send for one round trip: every turn of
// the transcript in order, followed by a user turn holding newUserText.
// The transcript slice is not modified.
func BuildRequest(transcript []models.Turn, newUserText string) []models.Turn {
	request := make([]models.Turn, 0, len(transcript)+1)
	request = append(request, transcript...)
	return append(request, models.UserTurn(newUserText))
}

// toContents maps a request to SDK contents, one text part per turn
func toContents(request []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, len(request))
	for i, turn := range request {
		contents[i] = &genai.Content{
			Role:  turn.Role.String(),
			Parts: []genai.Part{genai.Text(turn.Content)},
		}
	}
	return contents
}

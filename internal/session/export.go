package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format ExportFormat
	Title  string
	Model  string
}

// FormatFromPath picks the export format from a file extension
func FormatFromPath(path string) ExportFormat {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ExportMarkdown renders the transcript as a markdown document
func ExportMarkdown(t *Transcript, opts ExportOptions) string {
	turns := t.Turns()

	title := opts.Title
	if title == "" {
		title = "Chat " + t.ID
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if opts.Model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(opts.Model)
		sb.WriteString("\n")
	}
	sb.WriteString("**Session:** ")
	sb.WriteString(t.ID)
	sb.WriteString("\n")
	sb.WriteString("**Started:** ")
	sb.WriteString(t.StartedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(turns)))
	sb.WriteString("\n\n---\n\n")

	for i, turn := range turns {
		sb.WriteString("## ")
		sb.WriteString(turn.Role.Label())
		sb.WriteString("\n\n")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")

		if i < len(turns)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportTranscript struct {
	ID        string       `json:"id"`
	Title     string       `json:"title,omitempty"`
	Model     string       `json:"model,omitempty"`
	StartedAt time.Time    `json:"started_at"`
	Turns     []exportTurn `json:"turns"`
}

type exportTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ExportJSON renders the transcript as indented JSON
func ExportJSON(t *Transcript, opts ExportOptions) ([]byte, error) {
	turns := t.Turns()

	out := exportTranscript{
		ID:        t.ID,
		Title:     opts.Title,
		Model:     opts.Model,
		StartedAt: t.StartedAt,
		Turns:     make([]exportTurn, len(turns)),
	}
	for i, turn := range turns {
		out.Turns[i] = exportTurn{Role: turn.Role.String(), Content: turn.Content}
	}

	return json.MarshalIndent(out, "", "  ")
}

// WriteFile exports the transcript to path in the format given by opts
// (or inferred from the extension when opts.Format is empty).
func WriteFile(path string, t *Transcript, opts ExportOptions) error {
	if opts.Format == "" {
		opts.Format = FormatFromPath(path)
	}

	var data []byte
	switch opts.Format {
	case ExportFormatJSON:
		b, err := ExportJSON(t, opts)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = b
	case ExportFormatMarkdown:
		data = []byte(ExportMarkdown(t, opts))
	default:
		return fmt.Errorf("unsupported export format: %s", opts.Format)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Package prompt holds the system instruction that keeps the assistant on a single topic.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultTopic is the subject the assistant is restricted to
const DefaultTopic = "Network and Server Troubleshooting"

// Instruction is the immutable directive sent out-of-band with every request
type Instruction struct {
	topic string
	text  string
}

// Topic returns the subject the instruction restricts answers to
func (i Instruction) Topic() string { return i.topic }

// Text returns the full instruction text
func (i Instruction) Text() string { return i.text }

// String implements fmt.Stringer
func (i Instruction) String() string { return i.text }


// OffTopicResponse is the canned reply for questions entirely outside the topic
func OffTopicResponse(topic string) string {
	return fmt.Sprintf("This chat is strictly about %s. Please ask %s-related questions.", topic, topic)
}

// MetaConversationResponse is the canned reply for questions about the restriction itself
func MetaConversationResponse(topic string) string {
	return fmt.Sprintf("This chat is designed to focus solely on %s. Please stay on topic.", topic)
}

// Welcome is the line shown above an empty transcript
func Welcome(topic string) string {
	return fmt.Sprintf("I am an AI specialized and strictly focused on %s. Ask me anything technical about the topic!", topic)
}

// Placeholder is the hint shown in an empty input box
func Placeholder(topic string) string {
	return fmt.Sprintf("Ask your technical question about %s...", topic)
}

var instructionTmpl = template.Must(template.New("instruction").Parse(`
You are an expert AI assistant strictly focused on "{{.Topic}}".
Your core purpose is to provide fact-based, technical information only related to this topic.

**Strict Topic Enforcement Rules:**
1.  **Allowed Content:** Only provide facts, research, case studies, history, challenges, advancements, policies, laws, scientific research, technologies, or tools directly related to **{{.Topic}}**.
2.  **Response Format:**
    * Start the response with an informative title related to the query's topic (e.g., "Diagnosing Server Performance Issues").
    * Use structured, fact-based content with bullet points and headings for readability.
3.  **Off-Topic Handling (CRITICAL):**
    * If a user asks a question that is *entirely* off-topic, or if they insist on an off-topic discussion, you **MUST** respond with: "{{.OffTopic}}"
    * If a user asks about *why* they can't ask about other topics (a meta-conversation), you **MUST** respond with: "{{.Meta}}"
4.  **Mixed Queries:** If a question is partially related to **{{.Topic}}** but includes unrelated subjects (e.g., "How do I troubleshoot DNS and what is the best vacation spot?"), you **MUST** focus *only* on the **{{.Topic}}** aspect and completely ignore the unrelated part.
5.  **Forbidden Content:** Absolutely NO unrelated topics, other subjects, personal opinions, speculation, entertainment, fictional, or hypothetical discussions.
6.  **Insistence Rule:** If an entirely off-topic question is asked multiple times, ignore it entirely after the first rejection.
`))

// New renders the instruction for topic. An empty topic falls back to DefaultTopic.
func New(topic string) Instruction {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}

	var sb strings.Builder
	// The template is fixed and its data is plain strings; Execute cannot fail here.
	_ = instructionTmpl.Execute(&sb, struct {
		Topic, OffTopic, Meta string
	}{
		Topic:    topic,
		OffTopic: OffTopicResponse(topic),
		Meta:     MetaConversationResponse(topic),
	})

	return Instruction{topic: topic, text: sb.String()}
}

// Default returns the instruction for DefaultTopic
func Default() Instruction {
	return New(DefaultTopic)
}

package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// SystemPrompt renders the dataset into the model's system instruction.
// The model answers grounded queries from this text and falls back to
// general conversation for everything else.
func SystemPrompt(b Base) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the onboard AI interface for the %s, %s.\n", b.ProductName, b.Version)
	sb.WriteString(b.Description)
	sb.WriteString("\n\nCurrent system status:\n")
	for _, s := range b.Stats {
		fmt.Fprintf(&sb, "- %s: %g%s (full mark %g)\n", s.Name, s.Value, s.Unit, s.FullMark)
	}

	sb.WriteString("\nShip features:\n")
	names := make([]string, 0, len(b.Features))
	for name := range b.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %s\n", name, b.Features[name])
	}

	sb.WriteString("\nTroubleshooting guide:\n")
	for _, t := range b.Troubleshooting {
		fmt.Fprintf(&sb, "- Problem: %s Solution: %s\n", t.Problem, t.Solution)
	}

	sb.WriteString("\nFrequently asked questions:\n")
	for _, q := range b.FAQ {
		fmt.Fprintf(&sb, "- Q: %s A: %s\n", q.Question, q.Answer)
	}

	sb.WriteString("\nAnswer status and troubleshooting questions from the data above. For general conversation, respond naturally and concisely.")
	return sb.String()
}

// Greeting renders the initial assistant message seeded into every new
// conversation.
func Greeting(b Base) string {
	return fmt.Sprintf("Greetings! I am the AI interface for the %s. "+
		"I can provide status reports, troubleshoot ship systems, or just chat about the universe. "+
		"How can I assist you today?", b.ProductName)
}

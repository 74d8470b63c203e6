package prompt

import (
	"strconv"
	"strings"

	"github.com/profpick/backend/models"
	"github.com/profpick/backend/services/retrieval"
)

// resultsHeader is the literal line that introduces the rendered match block
const resultsHeader = "Returned results:"

// noMatchesLine replaces the match entries when the index returned nothing
const noMatchesLine = "No matching professors found."

// RenderMatches serializes a match set into the context block appended to the
// user's question. Matches are rendered in the order given; an empty set
// yields the header plus a "no matches" line rather than an empty block.
func RenderMatches(matches []retrieval.Match) string {
	var b strings.Builder
	b.WriteString(resultsHeader)

	if len(matches) == 0 {
		b.WriteString("\n")
		b.WriteString(noMatchesLine)
		return b.String()
	}

	for _, m := range matches {
		b.WriteString("\n\nProfessor: ")
		b.WriteString(m.ID)
		b.WriteString("\nSubject: ")
		b.WriteString(m.Metadata.Subject)
		b.WriteString("\nStars: ")
		b.WriteString(strconv.FormatFloat(m.Metadata.Stars, 'g', -1, 64))
		if m.Metadata.Review != "" {
			b.WriteString("\nReview: ")
			b.WriteString(m.Metadata.Review)
		}
	}

	return b.String()
}

// Assemble builds the generation request from the static instruction, the
// conversation so far, and the retrieved matches. The returned message list
// holds exactly one system message (the instruction), the prior history, and
// a synthesized final user message: the original last message with the
// rendered match block appended. The flattened form serializes those messages
// as "role: content" lines and is what flat-text generation interfaces
// consume. Assembly is pure: identical inputs yield identical output.
func Assemble(instruction string, conversation []models.Message, lastContent string, matches []retrieval.Match) ([]models.Message, string) {
	history := conversation
	if len(history) > 0 {
		history = history[:len(history)-1]
	}

	synthesized := models.Message{
		Role:    models.RoleUser,
		Content: lastContent + "\n" + RenderMatches(matches),
	}

	assembled := make([]models.Message, 0, len(history)+2)
	assembled = append(assembled, models.Message{Role: models.RoleSystem, Content: instruction})
	assembled = append(assembled, history...)
	assembled = append(assembled, synthesized)

	lines := make([]string, len(assembled))
	for i, msg := range assembled {
		lines[i] = msg.Role + ": " + msg.Content
	}

	return assembled, strings.Join(lines, "\n")
}

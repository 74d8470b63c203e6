package prompt

import (
	"strings"
	"testing"

	"github.com/profpick/backend/models"
	"github.com/profpick/backend/services/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []retrieval.Match {
	return []retrieval.Match{
		{
			ID:    "Dr. Alice Chen",
			Score: 0.92,
			Metadata: retrieval.MatchMetadata{
				Subject: "Computer Science",
				Stars:   4.5,
				Review:  "Clear lectures, fair exams.",
			},
		},
		{
			ID:    "Dr. Bob Marsh",
			Score: 0.87,
			Metadata: retrieval.MatchMetadata{
				Subject: "Mathematics",
				Stars:   3,
				Review:  "Tough grader but helpful.",
			},
		},
	}
}

func TestRenderMatches(t *testing.T) {
	t.Run("renders matches in order", func(t *testing.T) {
		rendered := RenderMatches(sampleMatches())

		assert.True(t, strings.HasPrefix(rendered, "Returned results:"))

		aliceIdx := strings.Index(rendered, "Dr. Alice Chen")
		bobIdx := strings.Index(rendered, "Dr. Bob Marsh")
		require.NotEqual(t, -1, aliceIdx)
		require.NotEqual(t, -1, bobIdx)
		assert.Less(t, aliceIdx, bobIdx)

		assert.Contains(t, rendered, "Subject: Computer Science")
		assert.Contains(t, rendered, "Stars: 4.5")
		assert.Contains(t, rendered, "Stars: 3")
		assert.Contains(t, rendered, "Review: Clear lectures, fair exams.")
	})

	t.Run("empty match set renders no-matches line", func(t *testing.T) {
		rendered := RenderMatches(nil)

		assert.Equal(t, "Returned results:\nNo matching professors found.", rendered)
	})

	t.Run("omits review line when review is empty", func(t *testing.T) {
		matches := []retrieval.Match{
			{ID: "Dr. X", Metadata: retrieval.MatchMetadata{Subject: "Physics", Stars: 4}},
		}

		rendered := RenderMatches(matches)
		assert.NotContains(t, rendered, "Review:")
	})
}

func TestAssemble(t *testing.T) {
	conversation := []models.Message{
		{Role: models.RoleAssistant, Content: "Hi! How can I help?"},
		{Role: models.RoleUser, Content: "Who teaches CS well?"},
	}

	t.Run("instruction appears exactly once", func(t *testing.T) {
		assembled, flat := Assemble(Instruction, conversation, "Who teaches CS well?", sampleMatches())

		systemCount := 0
		for _, msg := range assembled {
			if msg.Role == models.RoleSystem {
				systemCount++
				assert.Equal(t, Instruction, msg.Content)
			}
		}
		assert.Equal(t, 1, systemCount)
		assert.Equal(t, 1, strings.Count(flat, Instruction))
	})

	t.Run("final message synthesizes last content plus rendered matches", func(t *testing.T) {
		matches := sampleMatches()
		assembled, _ := Assemble(Instruction, conversation, "Who teaches CS well?", matches)

		last := assembled[len(assembled)-1]
		assert.Equal(t, models.RoleUser, last.Role)
		assert.Equal(t, "Who teaches CS well?\n"+RenderMatches(matches), last.Content)
	})

	t.Run("history keeps everything but the last message", func(t *testing.T) {
		assembled, _ := Assemble(Instruction, conversation, "Who teaches CS well?", nil)

		// system + 1 history message + synthesized user message
		require.Len(t, assembled, 3)
		assert.Equal(t, "Hi! How can I help?", assembled[1].Content)
	})

	t.Run("empty match set still assembles a complete prompt", func(t *testing.T) {
		_, flat := Assemble(Instruction, conversation, "Who teaches CS well?", nil)

		assert.Contains(t, flat, "No matching professors found.")
		assert.Contains(t, flat, Instruction)
	})

	t.Run("assembly is deterministic", func(t *testing.T) {
		matches := sampleMatches()

		_, flat1 := Assemble(Instruction, conversation, "Who teaches CS well?", matches)
		_, flat2 := Assemble(Instruction, conversation, "Who teaches CS well?", matches)

		assert.Equal(t, flat1, flat2)
	})

	t.Run("flat prompt joins role-prefixed lines", func(t *testing.T) {
		conv := []models.Message{{Role: models.RoleUser, Content: "hello"}}
		_, flat := Assemble("be brief", conv, "hello", nil)

		assert.Equal(t, "system: be brief\nuser: hello\nReturned results:\nNo matching professors found.", flat)
	})
}

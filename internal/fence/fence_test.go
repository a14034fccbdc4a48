package fence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "no fence is only trimmed",
			raw:  "  Add feature\n\nBody text.\n ",
			want: "Add feature\n\nBody text.",
		},
		{
			name: "single word first line without fence is kept",
			raw:  "Refactor\n\nSplit the parser.",
			want: "Refactor\n\nSplit the parser.",
		},
		{
			name: "bare fence",
			raw:  "```\nAdd feature\n\nBody.\n```",
			want: "Add feature\n\nBody.",
		},
		{
			name: "fence with language tag",
			raw:  "```text\nAdd feature\n\nBody.\n```",
			want: "Add feature\n\nBody.",
		},
		{
			name: "fence with CRLF after marker",
			raw:  "```\r\nAdd feature\r\n```",
			want: "Add feature",
		},
		{
			name: "subject on the marker line is not a tag",
			raw:  "```Add feature flag\nBody.\n```",
			want: "Add feature flag\nBody.",
		},
		{
			name: "long first token is not a tag",
			raw:  "```averyveryverylongtoken\nBody.```",
			want: "averyveryverylongtoken\nBody.",
		},
		{
			name: "opening fence only",
			raw:  "```\nAdd feature",
			want: "Add feature",
		},
		{
			name: "trailing marker without opening is kept",
			raw:  "Add feature\n```",
			want: "Add feature\n```",
		},
		{
			name: "surrounding whitespace around the fence",
			raw:  "\n\n  ```git\nFix typo\n```  \n",
			want: "Fix typo",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
		{
			name: "marker only",
			raw:  "```",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Strip(got), "Strip must be idempotent")
		})
	}
}

func TestStripNestedFenceOnePerPass(t *testing.T) {
	once := Strip("```\n```inner```\n```")
	assert.Equal(t, "```inner```", once)
	assert.Equal(t, "inner", Strip(once))
}

func TestExtractBlock(t *testing.T) {
	t.Run("single block inside prose", func(t *testing.T) {
		raw := "Here is a commit message for your changes:\n\n```\nAdd cache layer\n\nSpeeds up lookups.\n```\n\nLet me know if you need changes."
		got, ok := ExtractBlock(raw)
		assert.True(t, ok)
		assert.Equal(t, "Add cache layer\n\nSpeeds up lookups.", got)
	})

	t.Run("text starting with a fence is left to Strip", func(t *testing.T) {
		_, ok := ExtractBlock("```\nAdd cache layer\n```")
		assert.False(t, ok)
	})

	t.Run("no block", func(t *testing.T) {
		_, ok := ExtractBlock("Add cache layer\n\nSpeeds up lookups.")
		assert.False(t, ok)
	})

	t.Run("several blocks are ambiguous", func(t *testing.T) {
		raw := "Option 1:\n\n```\nAdd cache\n```\n\nOption 2:\n\n```\nAdd caching layer\n```\n"
		_, ok := ExtractBlock(raw)
		assert.False(t, ok)
	})
}

func TestCodeBlocksLang(t *testing.T) {
	blocks, err := CodeBlocks([]byte("intro\n\n```text\nhello\n```\n"))
	assert.NoError(t, err)
	if assert.Len(t, blocks, 1) {
		assert.Equal(t, "text", blocks[0].Lang)
		assert.Equal(t, "hello\n", blocks[0].Content)
	}
}

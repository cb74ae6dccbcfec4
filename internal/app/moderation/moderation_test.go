package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	p := NewPipeline(nil, nil)

	t.Run("strips markup characters", func(t *testing.T) {
		assert.Equal(t, "scriptalert(1)/script", p.Sanitize(`<script>alert(1)</script>`, 500))
		// stripping removes the runes only; surrounding spaces stay put
		assert.Equal(t, "Tom  Jerry", p.Sanitize(`Tom & "Jerry"`, 500))
	})

	t.Run("truncates by runes", func(t *testing.T) {
		assert.Equal(t, "abcde", p.Sanitize("abcdefgh", 5))
		assert.Equal(t, "héllo", p.Sanitize("héllo world", 5))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "alice", p.Sanitize("   alice   ", 30))
	})

	t.Run("whitespace-only input becomes empty", func(t *testing.T) {
		assert.Equal(t, "", p.Sanitize("   \t  ", 30))
		assert.Equal(t, "", p.Sanitize(`<>"'&`, 30))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			`<b>bold</b>`,
			"  spaced out  ",
			"abc def ghi jkl",
			strings.Repeat("x", 100) + " tail",
			"plain",
		}
		for _, in := range inputs {
			once := p.Sanitize(in, 10)
			assert.Equal(t, once, p.Sanitize(once, 10), "input %q", in)
		}
	})
}

func TestProfanityFilter(t *testing.T) {
	t.Run("word boundary matching", func(t *testing.T) {
		p := NewPipeline(nil, nil)

		assert.True(t, p.IsProfane("what the hell"))
		assert.True(t, p.IsProfane("HELL no"))
		// substring inside a larger word does not match
		assert.False(t, p.IsProfane("hello there"))
		assert.False(t, p.IsProfane("shellfish"))
	})

	t.Run("clean masks matched words only", func(t *testing.T) {
		p := NewPipeline(nil, nil)

		assert.Equal(t, "what the ****", p.Clean("what the hell"))
		assert.Equal(t, "hello there", p.Clean("hello there"))
		assert.Equal(t, "**** and ****", p.Clean("HELL and damn"))
	})

	t.Run("overrides applied at construction", func(t *testing.T) {
		p := NewPipeline([]string{"kill"}, []string{"hell"})

		assert.True(t, p.IsProfane("i will kill it"))
		assert.Equal(t, "i will **** it", p.Clean("i will kill it"))

		assert.False(t, p.IsProfane("what the hell"))
		assert.Equal(t, "what the hell", p.Clean("what the hell"))
	})

	t.Run("empty vocabulary passes everything through", func(t *testing.T) {
		p := NewPipeline(nil, defaultVocabulary)

		assert.False(t, p.IsProfane("damn"))
		assert.Equal(t, "damn", p.Clean("damn"))
	})
}

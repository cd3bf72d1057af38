package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Plain(t *testing.T) {
	r := &Renderer{Style: "notty", Width: 80}

	out := r.Render("# Actions\n\n| Action | Strategy |\n|---|---|\n| FileAddToStream | batch |\n")
	assert.Contains(t, out, "Actions")
	assert.Contains(t, out, "FileAddToStream")
}

func TestRender_UnknownStyleFallsBack(t *testing.T) {
	r := &Renderer{Style: "no-such-style"}

	content := "**bold**"
	assert.Equal(t, content, r.Render(content))
}

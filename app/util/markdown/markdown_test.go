package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	out, err := r.Render("**bold** and [link](https://example.com)\n\n- a\n- b")
	require.NoError(t, err)
	require.Contains(t, out, "<strong>bold</strong>")
	require.Contains(t, out, `<a href="https://example.com">link</a>`)
	require.Contains(t, out, "<li>a</li>")
}

func TestRender_Strikethrough(t *testing.T) {
	out, err := New().Render("~~R8999~~ **R5399**")
	require.NoError(t, err)
	require.Contains(t, out, "<del>R8999</del>")
}

func TestRender_DropsRawHTML(t *testing.T) {
	out, err := New().Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	require.NotContains(t, out, "<script>")
}

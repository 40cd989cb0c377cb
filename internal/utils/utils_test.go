package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

func TestParseID(t *testing.T) {
	assert.Equal(t, uint(42), ParseID("42"))
	assert.Equal(t, uint(0), ParseID("-1"))
	assert.Equal(t, uint(0), ParseID("abc"))
	assert.Equal(t, uint(0), ParseID(""))
}

func TestRenderDescriptionSanitizes(t *testing.T) {
	out := string(RenderDescription("Smoke in **lab 3**\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>lab 3</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRenderDescriptionKeepsLineBreaks(t *testing.T) {
	out := string(RenderDescription("first line\nsecond line"))
	assert.True(t, strings.Contains(out, "<br />") || strings.Contains(out, "<br/>"), out)
}

func TestEnhanceHTMLContent(t *testing.T) {
	out := string(EnhanceHTMLContent(`<p><a href="https://example.org">map</a><img src="/media/a.png"></p>`))
	assert.Contains(t, out, `rel="noopener noreferrer"`)
	assert.Contains(t, out, `loading="lazy"`)
	assert.Equal(t, "", string(EnhanceHTMLContent("")))
}

package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyCode(t *testing.T) {
	subject, text, html, err := Render(TemplateVerifyCode, map[string]any{
		"Name":      "a@x.com",
		"Code":      "123456",
		"ExpiresIn": "15m0s",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "123456")
	assert.Contains(t, html, "123456")
	assert.Contains(t, html, "a@x.com")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}

package styles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/ydmenu/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expectedStyles := []string{
		"Title", "Info", "Success", "Warning", "Error",
		"Bold", "Italic", "Muted", "Link", "Badge", "Body",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			_, exists := styles.StyleRegistry[styleName]
			assert.True(t, exists, "Style %s should exist in registry", styleName)
		})
	}
}

func TestGetStyle(t *testing.T) {
	assert.True(t, styles.GetStyle("Bold").GetBold())
	assert.True(t, styles.GetStyle("Italic").GetItalic())
	assert.False(t, styles.GetStyle("DoesNotExist").GetBold())
}

func TestForSeverity(t *testing.T) {
	assert.True(t, styles.ForSeverity("error").GetBold())
	assert.True(t, styles.ForSeverity("warn").GetBold())
	assert.False(t, styles.ForSeverity("info").GetBold())
}

func TestLoadStyles(t *testing.T) {
	t.Cleanup(func() {
		data, err := os.ReadFile("styles.yaml")
		require.NoError(t, err)
		require.NoError(t, styles.LoadStylesFromData(data))
	})

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  Bold:\n    italic: true\n"), 0644))

	require.NoError(t, styles.LoadStyles(path))
	assert.True(t, styles.GetStyle("Bold").GetItalic())

	assert.Error(t, styles.LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, styles.LoadStylesFromData([]byte("colors: {}\n")))
	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [unclosed")))
}

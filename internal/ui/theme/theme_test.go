package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaint(t *testing.T) {
	SetColor(false)
	assert.Equal(t, "plain", Paint(Fail, "plain"))

	SetColor(true)
	defer SetColor(false)
	out := Paint(Fail, "styled")
	assert.Contains(t, out, "styled")
	assert.NotEqual(t, "styled", out)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, Fail, Level("error"))
	assert.Equal(t, Warn, Level("warn"))
	assert.Equal(t, Hint, Level("info"))
}

func TestDetectColorNonTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	require.NoError(t, err)
	defer devNull.Close()
	assert.False(t, detectColor(devNull), "/dev/null is not a terminal")

	file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer file.Close()
	assert.False(t, detectColor(file))

	assert.False(t, detectColor(nil))
}

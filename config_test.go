package cdl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(test *testing.T, name, content string) string {
	test.Helper()
	path := filepath.Join(test.TempDir(), name)
	require.NoError(test, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(test *testing.T) {
	conf := DefaultConfig()
	require.NoError(test, conf.Validate())
	assert.Equal(test, Permissive, conf.NumberMode())
	assert.Equal(test, 2, conf.ContextLines)
}

func TestLoadConfigYAML(test *testing.T) {
	path := writeConfig(test, "cdl.yaml", "numbers: strict\ncontext_lines: 5\nverbose: true\n")
	conf, err := LoadConfig(path)
	require.NoError(test, err)
	assert.Equal(test, Strict, conf.NumberMode())
	assert.Equal(test, 5, conf.ContextLines)
	assert.True(test, conf.Verbose)
	// unset keys keep their defaults
	assert.Equal(test, "auto", conf.Color)

	opts := conf.Options(nil)
	assert.Equal(test, Strict, opts.Numbers)
	assert.Nil(test, opts.Logger)
}

func TestLoadConfigJSON(test *testing.T) {
	path := writeConfig(test, "cdl.json", `{"numbers": "warn", "color": "never"}`)
	conf, err := LoadConfig(path)
	require.NoError(test, err)
	assert.Equal(test, Warn, conf.NumberMode())
	assert.Equal(test, "never", conf.Color)
	assert.Equal(test, 2, conf.ContextLines)
}

func TestLoadConfigInvalid(test *testing.T) {
	cases := map[string]string{
		"bad-mode.yaml":  "numbers: lenient\n",
		"bad-lines.yaml": "context_lines: 99\n",
		"bad-color.json": `{"color": "sometimes"}`,
		"bad-syntax.json": `{"numbers": `,
	}
	for name, content := range cases {
		_, err := LoadConfig(writeConfig(test, name, content))
		assert.Error(test, err, name)
	}
	_, err := LoadConfig(filepath.Join(test.TempDir(), "missing.yaml"))
	assert.Error(test, err)
}

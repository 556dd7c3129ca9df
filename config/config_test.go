package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
disabled: [exchange-operands, pick-out-string]
relevance:
  inverse-if: 10
indent: "\t"
verify: true
compat:
  conditional_return_else_branch: true
`))
	require.NoError(t, err)
	assert.True(t, cfg.IsDisabled("exchange-operands"))
	assert.False(t, cfg.IsDisabled("inverse-if"))
	r, ok := cfg.RelevanceOf("inverse-if")
	assert.True(t, ok)
	assert.Equal(t, 10, r)
	assert.Equal(t, "\t", cfg.Indent)
	assert.True(t, cfg.Verify)
	assert.True(t, cfg.EagerValidation, "unset keys keep their defaults")
	assert.True(t, cfg.Compat.ConditionalReturnElseBranch)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("disabled: {"))
	assert.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "main", "java")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("verify: true\n"), 0o644))

	cfg, err := Find(nested)
	require.NoError(t, err)
	assert.True(t, cfg.Verify)
}

func TestFindWithoutFile(t *testing.T) {
	cfg, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.Verify)
	assert.Equal(t, "    ", cfg.Indent)
}

func TestNilConfig(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.IsDisabled("inverse-if"))
	_, ok := cfg.RelevanceOf("inverse-if")
	assert.False(t, ok)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Disabled = []string{"join-or-if"}
	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

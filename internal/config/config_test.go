package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autodocstring/internal/docstring"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		cfg, err := Load(afero.NewMemMapFs(), "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("YAML overrides defaults", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, DefaultFile, []byte(`
style: Numpy
optional_tag: ""
sort_exceptions: false
start_with_newline: numpy, sphinx
cache_ttl: 30s
default_qstyle: "'''"
`), 0o644))

		cfg, err := Load(fs, "")
		require.NoError(t, err)
		assert.Equal(t, "numpy", cfg.Style)
		assert.Equal(t, "", cfg.OptionalTag)
		assert.False(t, cfg.SortExceptions)
		assert.True(t, cfg.SortClassAttributes)
		assert.Equal(t, []string{"numpy", "sphinx"}, cfg.StartWithNewline.Styles)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
		assert.Equal(t, "'''", cfg.DefaultQStyle)
	})

	t.Run("Environment overrides YAML", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "cfg.yaml", []byte("style: google\n"), 0o644))
		t.Setenv("AUTODOCSTRING_STYLE", "sphinx")
		t.Setenv("AUTODOCSTRING_PRESERVE_ORIGINAL", "true")

		cfg, err := Load(fs, "cfg.yaml")
		require.NoError(t, err)
		assert.Equal(t, "sphinx", cfg.Style)
		assert.True(t, cfg.PreserveOriginalOnRewrite)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "nope.yaml")
		assert.Error(t, err)
	})

	t.Run("Validation", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("style: epytext\ndefault_qstyle: '`'\n"), 0o644))

		_, err := Load(fs, "bad.yaml")
		require.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "Style")
		assert.Contains(t, err.Error(), "DefaultQStyle")
	})
}

func TestStyleSet(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want StyleSet
	}{
		{"bool", "start_with_newline: true", StyleSet{All: true}},
		{"empty string", `start_with_newline: ""`, StyleSet{}},
		{"list", "start_with_newline: [Google, numpy]", StyleSet{Styles: []string{"google", "numpy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "c.yaml", []byte(tt.yaml), 0o644))
			cfg, err := Load(fs, "c.yaml")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.StartWithNewline)
		})
	}

	assert.True(t, StyleSet{All: true}.Has("sphinx"))
	assert.True(t, StyleSet{Styles: []string{"numpy"}}.Has("NUMPY"))
	assert.False(t, StyleSet{}.Has("google"))
}

func TestDocStyle(t *testing.T) {
	tests := []struct {
		style string
		want  docstring.Style
		auto  bool
	}{
		{"google", docstring.Google, false},
		{"sphinx", docstring.Sphinx, false},
		{"auto", docstring.Google, true},
		{"auto_numpy", docstring.Numpy, true},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			cfg := Default()
			cfg.Style = tt.style
			style, auto, err := cfg.DocStyle()
			require.NoError(t, err)
			assert.Equal(t, tt.want, style)
			assert.Equal(t, tt.auto, auto)
		})
	}

	cfg := Default()
	cfg.Style = "epytext"
	_, _, err := cfg.DocStyle()
	assert.ErrorIs(t, err, docstring.ErrUnknownStyle)
}

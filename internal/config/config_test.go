package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "html", c.ChartFormat)
	assert.Equal(t, "charts", c.OutputDir)
	assert.Equal(t, 10, c.TopReviewsChart)
	assert.Equal(t, 50, c.TopReviewsList)
	assert.Equal(t, 50, c.TopEducation)
	assert.Equal(t, int64(1000000), c.MillionThreshold)
	assert.Equal(t, "Education", c.EducationGenre)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	c.TopDevelopers = 25
	c.EducationGenre = "Games"
	require.NoError(t, Save(c, ""))
	_, err = os.Stat(filepath.Join(home, ".appscope", "config.yaml"))
	require.NoError(t, err, "config file not written")

	t.Setenv("APPSCOPE_EDUCATION_GENRE", "Health & Fitness")
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, got.TopDevelopers)
	assert.Equal(t, "Health & Fitness", got.EducationGenre)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chart_format: none\ncrosstab_top: 3\n"), 0o644))
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", c.ChartFormat)
	assert.Equal(t, 3, c.CrossTabTop)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger("debug", "json"))
	assert.NoError(t, InitLogger("info", "console"))
	assert.Error(t, InitLogger("loud", "console"))
}

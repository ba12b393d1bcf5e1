package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSequence writes the given relative-path -> HCL content map under a
// fresh temp dir and returns its path.
func writeSequence(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return tmpDir
}

func TestLoadSequence_Basic(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := writeSequence(t, map[string]string{
		"main.hcl": `
			settings {
				tool            = "searchnets"
				stop_on_failure = true
			}

			run "train" "alexnet" {
				config = "configs/alexnet.ini"
			}

			run "test" "alexnet" {
				config  = "configs/alexnet.ini"
				enabled = true
			}
		`,
	})

	// --- Act ---
	seq, err := LoadSequence(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.NotNil(t, seq.Settings)
	assert.NotNil(t, seq.Settings.Tool)
	assert.NotNil(t, seq.Settings.StopOnFailure)
	assert.Nil(t, seq.Settings.Workdir)

	require.Len(t, seq.Runs, 2)
	assert.Equal(t, "train", seq.Runs[0].Subcommand)
	assert.Equal(t, "alexnet", seq.Runs[0].Name)
	assert.NotNil(t, seq.Runs[0].Config)
	assert.Nil(t, seq.Runs[0].Enabled)
	assert.Equal(t, "test", seq.Runs[1].Subcommand)
	assert.NotNil(t, seq.Runs[1].Enabled)
}

func TestLoadSequence_OrderAcrossFiles(t *testing.T) {
	t.Parallel()

	// Files load in lexical order, blocks in declaration order within a
	// file; the combined order is the execution order.
	dir := writeSequence(t, map[string]string{
		"20-second.hcl": `
			run "train" "c" { config = "c.ini" }
		`,
		"10-first.hcl": `
			run "train" "a" { config = "a.ini" }
			run "test" "b" { config = "b.ini" }
		`,
	})

	seq, err := LoadSequence(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, seq.Runs, 3)
	assert.Equal(t, "a", seq.Runs[0].Name)
	assert.Equal(t, "b", seq.Runs[1].Name)
	assert.Equal(t, "c", seq.Runs[2].Name)
}

func TestLoadSequence_Locals(t *testing.T) {
	t.Parallel()

	dir := writeSequence(t, map[string]string{
		"main.hcl": `
			locals {
				configs = "configs"
				other   = "x"
			}

			run "train" "a" { config = "${local.configs}/a.ini" }
		`,
	})

	seq, err := LoadSequence(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, seq.Locals, 2)
	names := []string{seq.Locals[0].Name, seq.Locals[1].Name}
	assert.ElementsMatch(t, []string{"configs", "other"}, names)
}

func TestLoadSequence_InvalidSubcommand(t *testing.T) {
	t.Parallel()

	dir := writeSequence(t, map[string]string{
		"main.hcl": `
			run "evaluate" "a" { config = "a.ini" }
		`,
	})

	_, err := LoadSequence(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid run subcommand")
}

func TestLoadSequence_MissingConfig(t *testing.T) {
	t.Parallel()

	dir := writeSequence(t, map[string]string{
		"main.hcl": `
			run "train" "a" {}
		`,
	})

	_, err := LoadSequence(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestLoadSequence_DuplicateSettings(t *testing.T) {
	t.Parallel()

	dir := writeSequence(t, map[string]string{
		"a.hcl": `settings {}`,
		"b.hcl": `settings {}`,
	})

	_, err := LoadSequence(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate settings block")
}

func TestLoadSequence_MalformedHCL(t *testing.T) {
	t.Parallel()

	dir := writeSequence(t, map[string]string{
		"main.hcl": `run "train" "a" {`,
	})

	_, err := LoadSequence(context.Background(), dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadSequence_EmptyDir(t *testing.T) {
	t.Parallel()

	seq, err := LoadSequence(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, seq.Runs)
	assert.Nil(t, seq.Settings)
}

func TestValidSubcommand(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidSubcommand("train"))
	assert.True(t, ValidSubcommand("test"))
	assert.False(t, ValidSubcommand("evaluate"))
	assert.False(t, ValidSubcommand(""))
}

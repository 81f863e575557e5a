package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterManifest = `tag: counter-x
package: counter
state: {countX: 0}
fields:
  - {attr: count-x, prop: countX}
  - {attr: disabled}
  - {attr: onfoo, prop: onfoo, event: Foo}
methods: [increment]
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		_ = generateCmd.Flags().Set("dry-run", "false")
		_ = cleanCmd.Flags().Set("dry-run", "false")
	})

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeManifest(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "counter.wcmp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(counterManifest), 0644))
	return dir, path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wcmp version ")
}

func TestGenerateAndCleanCommands(t *testing.T) {
	dir, path := writeManifest(t)
	generated := filepath.Join(dir, "counter_wc.go")

	out, err := execute(t, "generate", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "generating "+generated)
	assert.NoFileExists(t, generated)

	_, err = execute(t, "generate", dir)
	require.NoError(t, err)
	code, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(code), "func (c *CounterX) SetCountX(v any) error {")

	out, err = execute(t, "clean", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removing "+generated)
	assert.NoFileExists(t, generated)
}

func TestInspect(t *testing.T) {
	_, path := writeManifest(t)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "<counter-x> CounterX")
	assert.Contains(t, out, "mode: shadow")
	assert.Contains(t, out, "CountX/SetCountX")
	assert.Contains(t, out, "handler for Foo")
	assert.Contains(t, out, "(attribute only)")
	assert.Contains(t, out, "Increment()")
}

func TestInspectRejectsInvalidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wcmp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tag: nohyphen\n"), 0644))

	_, err := execute(t, "inspect", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain a hyphen")
}

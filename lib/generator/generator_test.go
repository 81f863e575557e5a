package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/wcmp"
)

func TestRenderGolden(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		pkg      string
	}{
		{name: "counter", manifest: "testdata/counter.wcmp.yaml", pkg: "counter"},
		{name: "toggle", manifest: "testdata/toggle.wcmp.yaml", pkg: "widgets"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := wcmp.ReadManifest(tt.manifest)
			require.NoError(t, err)

			code, err := Render(m, tt.pkg)
			require.NoError(t, err)

			g.Assert(t, tt.name, code)
		})
	}
}

func TestGoName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"count-x", "CountX"},
		{"countX", "CountX"},
		{"on_foo", "OnFoo"},
		{"toggle-button", "ToggleButton"},
		{"item2", "Item2"},
		{"2fast", "Fast"},
		{"--", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, goName(tt.in))
		})
	}
}

func TestDescribe(t *testing.T) {
	m, err := wcmp.ReadManifest("testdata/counter.wcmp.yaml")
	require.NoError(t, err)

	w, err := Describe(m, "counter")
	require.NoError(t, err)

	assert.Equal(t, "CounterX", w.Type)
	assert.Equal(t, []string{"count-x", "hidden", "onfoo"}, w.Observed)
	require.Len(t, w.Properties, 3)
	assert.Equal(t, "Foo", w.Properties[2].Event)
	assert.Equal(t, []Method{{Name: "increment", GoName: "Increment"}, {Name: "reset", GoName: "Reset"}}, w.Methods)
}

func TestDescribeRejectsCollisions(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{
			name: "shadows Instance.Get",
			manifest: `
tag: shadow-get
fields:
  - {prop: get}
`,
		},
		{
			name: "setter collides with property",
			manifest: `
tag: setter-clash
fields:
  - {prop: x}
  - {prop: setX}
`,
		},
		{
			name: "method collides with getter",
			manifest: `
tag: method-clash
fields:
  - {prop: count-x}
methods: [countX]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := wcmp.LoadManifest(strings.NewReader(tt.manifest))
			require.NoError(t, err)

			_, err = Describe(m, "p")
			require.Error(t, err)
			assert.True(t, wcmp.IsConfigError(err))
		})
	}
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	src, err := os.ReadFile("testdata/counter.wcmp.yaml")
	require.NoError(t, err)
	manifest := filepath.Join(dir, "counter.wcmp.yaml")
	require.NoError(t, os.WriteFile(manifest, src, 0644))

	out := filepath.Join(dir, "counter_wc.go")

	t.Run("dry run writes nothing", func(t *testing.T) {
		var log bytes.Buffer
		g := New(Options{DryRun: true, Out: &log})
		require.NoError(t, g.Generate(dir))

		assert.Contains(t, log.String(), "generating "+out)
		assert.NoFileExists(t, out)
	})

	t.Run("generate", func(t *testing.T) {
		var log bytes.Buffer
		g := New(Options{Out: &log})
		require.NoError(t, g.Generate(dir))

		got, err := os.ReadFile(out)
		require.NoError(t, err)
		want, err := os.ReadFile("testdata/golden/counter.golden")
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	})

	t.Run("clean", func(t *testing.T) {
		var log bytes.Buffer
		g := New(Options{Out: &log})
		require.NoError(t, g.Clean(dir))

		assert.Contains(t, log.String(), "removing "+out)
		assert.NoFileExists(t, out)
		assert.FileExists(t, manifest)
	})
}

func TestFindManifests(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("tag: a-b\n"), 0644))
	}
	write("a.wcmp.yaml")
	write("sub/b.wcmp.yaml")
	write("testdata/skipped.wcmp.yaml")
	write(".hidden/skipped.wcmp.yaml")
	write("sub/notes.yaml")

	g := New(Options{Out: &bytes.Buffer{}})

	files, err := g.findManifests([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.wcmp.yaml"),
		filepath.Join(root, "sub", "b.wcmp.yaml"),
	}, files)

	files, err = g.findManifests([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.wcmp.yaml")}, files)
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "widgets", packageName("widgets"))
	assert.Equal(t, "mywidgets", packageName("my-widgets"))
	assert.Equal(t, "v2", packageName("v2"))
	assert.Equal(t, "main", packageName("..."))
}

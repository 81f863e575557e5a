// Package generator produces typed Go wrappers for components described
// by *.wcmp.yaml manifests.
package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm/wcmp"
)

// ManifestSuffix marks manifest files.
const ManifestSuffix = ".wcmp.yaml"

// GeneratedSuffix marks generated files.
const GeneratedSuffix = "_wc.go"

// Options configures the generator.
type Options struct {
	DryRun bool
	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer
}

// Generator generates wrapper code.
type Generator struct {
	opts Options
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Generator{opts: opts}
}

// Generate generates a wrapper next to every manifest matched by
// patterns. A pattern is a manifest file, a directory, or a directory
// followed by "/..." to include subdirectories.
func (g *Generator) Generate(patterns ...string) error {
	manifests, err := g.findManifests(patterns)
	if err != nil {
		return err
	}

	for _, path := range manifests {
		if err := g.generateManifest(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	return nil
}

// Clean removes generated files from the directories matched by
// patterns.
func (g *Generator) Clean(patterns ...string) error {
	dirs, err := g.findDirs(patterns)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := g.cleanDir(dir); err != nil {
			return fmt.Errorf("%s: %w", dir, err)
		}
	}

	return nil
}

// findDirs resolves patterns to directories.
func (g *Generator) findDirs(patterns []string) ([]string, error) {
	var dirs []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			if strings.HasSuffix(pattern, ManifestSuffix) {
				pattern = filepath.Dir(pattern)
			}
			dirs = append(dirs, pattern)
			continue
		}

		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip hidden directories, vendor and test fixtures
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}

// findManifests resolves patterns to manifest files, sorted.
func (g *Generator) findManifests(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, ManifestSuffix) {
			files = append(files, pattern)
			continue
		}
		dirs, err := g.findDirs([]string{pattern})
		if err != nil {
			return nil, err
		}
		for _, dir := range dirs {
			matches, err := filepath.Glob(filepath.Join(dir, "*"+ManifestSuffix))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}

	sort.Strings(files)
	return files, nil
}

// generateManifest writes the wrapper for one manifest.
func (g *Generator) generateManifest(path string) error {
	m, err := wcmp.ReadManifest(path)
	if err != nil {
		return err
	}

	pkg := m.Package
	if pkg == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return err
		}
		pkg = packageName(filepath.Base(abs))
	}

	outputFile := OutputPath(path)
	fmt.Fprintf(g.opts.Out, "generating %s\n", outputFile)

	if g.opts.DryRun {
		return nil
	}

	code, err := Render(m, pkg)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0644)
}

// cleanDir removes generated files from a directory.
func (g *Generator) cleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), GeneratedSuffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fmt.Fprintf(g.opts.Out, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// OutputPath returns the generated file path for a manifest:
// counter.wcmp.yaml becomes counter_wc.go.
func OutputPath(manifest string) string {
	return strings.TrimSuffix(manifest, ManifestSuffix) + GeneratedSuffix
}

// packageName derives a package name from a directory name.
func packageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "main"
	}
	return b.String()
}

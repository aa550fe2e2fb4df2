package index_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/domain/repository"
	"github.com/clightning4j/reckless/pkg/index"
)

func TestBuilder_Index(t *testing.T) {
	t.Run("empty root yields an empty collection", func(t *testing.T) {
		plugins, err := index.NewBuilder().Index(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plugins) != 0 {
			t.Errorf("expected no plugins, got %d", len(plugins))
		}
	})

	t.Run("all-hidden root yields an empty collection", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, ".git"))
		mustMkdir(t, filepath.Join(root, ".ci"))

		plugins, err := index.NewBuilder().Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plugins) != 0 {
			t.Errorf("expected no plugins, got %d", len(plugins))
		}
	})

	t.Run("indexes one plugin per non-hidden directory", func(t *testing.T) {
		// Root with alpha/go.mod, an empty beta, a hidden directory, and a
		// stray top-level file.
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "alpha"))
		mustWriteFile(t, filepath.Join(root, "alpha", "go.mod"), "module alpha\n")
		mustMkdir(t, filepath.Join(root, "beta"))
		mustMkdir(t, filepath.Join(root, ".hidden"))
		mustWriteFile(t, filepath.Join(root, ".hidden", "go.mod"), "module hidden\n")
		mustWriteFile(t, filepath.Join(root, "README.md"), "docs\n")

		plugins, err := index.NewBuilder().Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plugins) != 2 {
			t.Fatalf("expected 2 plugins, got %d", len(plugins))
		}

		if plugins[0].Name != "alpha" || plugins[0].Lang != plugin.LangGo {
			t.Errorf("expected alpha/go first, got %s/%s", plugins[0].Name, plugins[0].Lang)
		}
		if plugins[0].Path != filepath.Join(root, "alpha") {
			t.Errorf("unexpected path: %s", plugins[0].Path)
		}
		if plugins[0].HasConf() {
			t.Error("alpha should have no configuration")
		}
		if plugins[1].Name != "beta" || plugins[1].Lang != plugin.LangUnknown {
			t.Errorf("expected beta/unknown second, got %s/%s", plugins[1].Name, plugins[1].Lang)
		}
	})

	t.Run("attaches the plugin configuration when present", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "summary")
		mustMkdir(t, dir)
		mustWriteFile(t, filepath.Join(dir, "requirements.txt"), "")
		mustWriteFile(t, filepath.Join(dir, "reckless.yaml"), "plugin:\n  name: summary\n  lang: python\n")

		plugins, err := index.NewBuilder().Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plugins) != 1 {
			t.Fatalf("expected 1 plugin, got %d", len(plugins))
		}
		if !plugins[0].HasConf() {
			t.Fatal("expected configuration to be attached")
		}
		if plugins[0].Conf.Plugin.Name != "summary" {
			t.Errorf("unexpected configured name: %s", plugins[0].Conf.Plugin.Name)
		}
	})

	t.Run("detected language wins over the declared one by default", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "p")
		mustMkdir(t, dir)
		mustWriteFile(t, filepath.Join(dir, "go.mod"), "module p\n")
		mustWriteFile(t, filepath.Join(dir, "reckless.yaml"), "plugin:\n  lang: rust\n")

		plugins, err := index.NewBuilder().Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plugins[0].Lang != plugin.LangGo {
			t.Errorf("expected detected go, got %v", plugins[0].Lang)
		}
	})

	t.Run("declared language wins with WithPreferConfLang", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "p")
		mustMkdir(t, dir)
		mustWriteFile(t, filepath.Join(dir, "go.mod"), "module p\n")
		mustWriteFile(t, filepath.Join(dir, "reckless.yaml"), "plugin:\n  lang: rust\n")

		plugins, err := index.NewBuilder(index.WithPreferConfLang()).Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plugins[0].Lang != plugin.LangRust {
			t.Errorf("expected declared rust, got %v", plugins[0].Lang)
		}
	})

	t.Run("an unrecognized declared language falls back to detection", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "p")
		mustMkdir(t, dir)
		mustWriteFile(t, filepath.Join(dir, "go.mod"), "module p\n")
		mustWriteFile(t, filepath.Join(dir, "reckless.yaml"), "plugin:\n  lang: cobol\n")

		plugins, err := index.NewBuilder(index.WithPreferConfLang()).Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plugins[0].Lang != plugin.LangGo {
			t.Errorf("expected detected go, got %v", plugins[0].Lang)
		}
	})

	t.Run("a broken configuration aborts the whole pass", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "alpha"))
		mustWriteFile(t, filepath.Join(root, "alpha", "go.mod"), "module alpha\n")
		broken := filepath.Join(root, "beta")
		mustMkdir(t, broken)
		mustWriteFile(t, filepath.Join(broken, "reckless.yaml"), "plugin: [unclosed")

		plugins, err := index.NewBuilder().Index(root)
		if err == nil {
			t.Fatal("expected an error")
		}
		if plugins != nil {
			t.Errorf("expected no partial collection, got %d plugins", len(plugins))
		}

		var confErr *repository.ConfParseError
		if !errors.As(err, &confErr) {
			t.Fatalf("expected ConfParseError, got %T", err)
		}
	})

	t.Run("indexing twice yields structurally identical collections", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "alpha"))
		mustWriteFile(t, filepath.Join(root, "alpha", "go.mod"), "module alpha\n")
		mustMkdir(t, filepath.Join(root, "beta"))
		mustWriteFile(t, filepath.Join(root, "beta", "reckless.yml"), "plugin:\n  name: beta\n")

		b := index.NewBuilder()
		first, err := b.Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := b.Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("expected identical collections, got %+v vs %+v", first, second)
		}
		if &first[0] == &second[0] {
			t.Error("expected independently allocated collections")
		}
	})

	t.Run("duplicate plugin names are preserved", func(t *testing.T) {
		// Two directories can derive the same display name only through
		// the configuration; directory names are unique on disk, so
		// multiplicity is exercised at the lookup level instead. Here the
		// collection simply keeps every directory.
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "clone-a"))
		mustMkdir(t, filepath.Join(root, "clone-b"))

		plugins, err := index.NewBuilder().Index(root)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(plugins) != 2 {
			t.Errorf("expected both directories indexed, got %d", len(plugins))
		}
	})
}

package github

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func buildTarball(t *testing.T, files map[string]string) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	tw := tar.NewWriter(gz)

	for name, content := range files {
		hdr := &tar.Header{
			Name: name,
			Mode: 0600,
			Size: int64(len(content)),
		}
		if content == "" && name[len(name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
			hdr.Size = 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag != tar.TypeDir {
			if _, err := tw.Write([]byte(content)); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestUntar(t *testing.T) {
	t.Run("extracts files and directories", func(t *testing.T) {
		dest := t.TempDir()
		tarball := buildTarball(t, map[string]string{
			"repo-abc123/":                        "",
			"repo-abc123/helpme/requirements.txt": "requests\n",
		})

		if err := untar(tarball, dest); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dest, "repo-abc123", "helpme", "requirements.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "requests\n" {
			t.Errorf("unexpected file content: %q", data)
		}
	})

	t.Run("rejects entries escaping the destination", func(t *testing.T) {
		dest := t.TempDir()
		tarball := buildTarball(t, map[string]string{
			"../escape.txt": "nope",
		})

		if err := untar(tarball, dest); err == nil {
			t.Fatal("expected an error")
		}
		if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt")); err == nil {
			t.Error("escaping entry must not be written")
		}
	})

	t.Run("rejects a stream that is not gzip", func(t *testing.T) {
		if err := untar(bytes.NewBufferString("plain text"), t.TempDir()); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestArchiveAcquirer_Extract(t *testing.T) {
	t.Run("moves the single top-level directory onto the target", func(t *testing.T) {
		parent := t.TempDir()
		target := filepath.Join(parent, "plugins")
		tarball := buildTarball(t, map[string]string{
			"lightningd-plugins-abc123/helpme/requirements.txt": "",
		})

		a := NewArchiveAcquirer("", nil)
		if err := a.extract(tarball, target); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(target, "helpme", "requirements.txt")); err != nil {
			t.Errorf("expected extracted tree at target: %v", err)
		}

		// No staging leftovers.
		entries, err := os.ReadDir(parent)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Name() != "plugins" {
			t.Errorf("expected only the target directory, got %v", entries)
		}
	})

	t.Run("rejects archives with multiple top-level entries", func(t *testing.T) {
		parent := t.TempDir()
		tarball := buildTarball(t, map[string]string{
			"one/a.txt": "a",
			"two/b.txt": "b",
		})

		a := NewArchiveAcquirer("", nil)
		if err := a.extract(tarball, filepath.Join(parent, "plugins")); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestSplitOwnerRepo(t *testing.T) {
	cases := []struct {
		url       string
		owner     string
		repo      string
		expectErr bool
	}{
		{"https://github.com/lightningd/plugins", "lightningd", "plugins", false},
		{"https://github.com/lightningd/plugins.git", "lightningd", "plugins", false},
		{"https://github.com/lightningd/plugins/", "lightningd", "plugins", false},
		{"git@github.com:lightningd/plugins.git", "lightningd", "plugins", false},
		{"https://github.com/lightningd", "", "", true},
		{"https://github.com/a/b/c", "", "", true},
		{"", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			owner, repo, err := SplitOwnerRepo(tc.url)
			if tc.expectErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tc.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tc.owner || repo != tc.repo {
				t.Errorf("SplitOwnerRepo(%q) = %s/%s, want %s/%s", tc.url, owner, repo, tc.owner, tc.repo)
			}
		})
	}
}

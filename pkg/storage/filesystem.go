// Package storage persists the tool's own state: the set of registered
// remotes and the local paths their contents were fetched into. Plugin
// indices themselves are never persisted; they are rebuilt by indexing.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"
)

const RecklessDir = ".reckless"
const RemotesFile = "remotes.yaml"
const ReposDir = "repos"

// Remote is a registered plugin repository.
type Remote struct {
	// Name is the key the user refers to the repository by.
	Name string `yaml:"name"`
	// URL is the remote location of the repository.
	URL string `yaml:"url"`
	// Path is the local directory the contents were fetched into.
	Path string `yaml:"path"`
}

// Remotes is the persisted collection of registered repositories.
type Remotes struct {
	Remotes []Remote `yaml:"remotes"`
}

// Get returns the remote with the given name, or nil.
func (r *Remotes) Get(name string) *Remote {
	for i := range r.Remotes {
		if r.Remotes[i].Name == name {
			return &r.Remotes[i]
		}
	}
	return nil
}

// FilesystemStore reads and writes tool state under <root>/.reckless.
type FilesystemStore struct {
	root        string
	retryConfig retry.Config
}

// NewFilesystemStore creates a store rooted at the given directory.
func NewFilesystemStore(root string) *FilesystemStore {
	return &FilesystemStore{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the store's root directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// RepoPath returns the local directory a remote's contents belong in.
func (s *FilesystemStore) RepoPath(name string) string {
	return filepath.Join(s.root, RecklessDir, ReposDir, name)
}

// ResolvePath ensures the filename stays within the .reckless directory and
// prevents traversal.
func (s *FilesystemStore) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(s.root, RecklessDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}
	return cleanPath, nil
}

// Initialize creates the .reckless directory tree.
func (s *FilesystemStore) Initialize() error {
	path := filepath.Join(s.root, RecklessDir, ReposDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .reckless directory: %w", err)
	}
	return nil
}

// IsInitialized reports whether the store directory exists.
func (s *FilesystemStore) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(s.root, RecklessDir))
	return err == nil
}

// SaveRemotes writes the remotes collection.
func (s *FilesystemStore) SaveRemotes(r *Remotes) error {
	path, err := s.ResolvePath(RemotesFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal remotes: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadRemotes reads the remotes collection. A missing file yields an empty
// collection rather than an error.
func (s *FilesystemStore) LoadRemotes() (*Remotes, error) {
	retryer := retry.New[*Remotes](s.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*Remotes, error) {
		path, err := s.ResolvePath(RemotesFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &Remotes{}, nil
			}
			return nil, fmt.Errorf("failed to read remotes file: %w", err)
		}

		var r Remotes
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal remotes: %w", err)
		}
		return &r, nil
	})
}

// AddRemote registers a remote. Names are unique; re-registering an
// existing name is an error.
func (s *FilesystemStore) AddRemote(remote Remote) error {
	remotes, err := s.LoadRemotes()
	if err != nil {
		return err
	}
	if remotes.Get(remote.Name) != nil {
		return fmt.Errorf("remote %q already registered", remote.Name)
	}

	remotes.Remotes = append(remotes.Remotes, remote)
	return s.SaveRemotes(remotes)
}

// RemoveRemote unregisters a remote by name and reports whether it existed.
func (s *FilesystemStore) RemoveRemote(name string) (bool, error) {
	remotes, err := s.LoadRemotes()
	if err != nil {
		return false, err
	}

	kept := remotes.Remotes[:0]
	removed := false
	for _, r := range remotes.Remotes {
		if r.Name == name {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false, nil
	}

	remotes.Remotes = kept
	return true, s.SaveRemotes(remotes)
}

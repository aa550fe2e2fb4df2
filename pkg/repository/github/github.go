// Package github implements the GitHub-backed repository variant. It
// acquires repository contents by downloading the archive through the
// GitHub API and shares the indexing core with every other variant.
package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/domain/repository"
	"github.com/clightning4j/reckless/pkg/index"
)

// Repository is a GitHub-backed plugin repository. It owns its plugin
// collection exclusively; acquisition and indexing run sequentially inside
// Init, and no plugin becomes visible before Init returns.
type Repository struct {
	name      string
	url       string
	localPath string
	token     string

	plugins  []plugin.Plugin
	fsm      *repository.StateMachine
	builder  *index.Builder
	acquirer repository.Acquirer
	logger   *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithAcquirer replaces the default archive-download acquirer.
func WithAcquirer(a repository.Acquirer) Option {
	return func(r *Repository) {
		r.acquirer = a
	}
}

// WithBuilder replaces the default index builder.
func WithBuilder(b *index.Builder) Option {
	return func(r *Repository) {
		r.builder = b
	}
}

// WithToken authenticates API requests with a bearer token.
func WithToken(token string) Option {
	return func(r *Repository) {
		r.token = token
	}
}

// WithLogger sets the logger used for acquisition and indexing traces.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// New creates a repository with a name and a url. The contents are fetched
// into localPath on Init.
func New(name, url, localPath string, opts ...Option) (*Repository, error) {
	fsm, err := repository.NewStateMachine(name)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		name:      name,
		url:       url,
		localPath: localPath,
		fsm:       fsm,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.builder == nil {
		r.builder = index.NewBuilder(index.WithLogger(r.logger))
	}
	if r.acquirer == nil {
		r.acquirer = NewArchiveAcquirer(r.token, r.logger)
	}
	r.logger.Debug("creating repository", "name", name, "url", url)
	return r, nil
}

// Name returns the repository name used as index key by the caller.
func (r *Repository) Name() string {
	return r.name
}

// URL returns the remote location the repository was configured with.
func (r *Repository) URL() string {
	return r.url
}

// LocalPath returns the directory the repository contents live in after a
// successful Init.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Init acquires the repository contents at the configured URL into the
// configured local path, then indexes every plugin it contains. The
// operation is all-or-nothing: on any acquisition, filesystem, or
// configuration error no plugin list is installed and a previously indexed
// collection is left untouched.
func (r *Repository) Init(ctx context.Context) error {
	r.logger.Debug("initializing repository",
		"name", r.name,
		"url", r.url,
		"path", r.localPath)

	if err := r.acquirer.Acquire(ctx, r.url, r.localPath); err != nil {
		return &repository.AcquisitionError{URL: r.url, Err: err}
	}

	plugins, err := r.builder.Index(r.localPath)
	if err != nil {
		return err
	}

	r.plugins = plugins
	r.fsm.MarkIndexed()
	return nil
}

// IsIndexed reports whether Init has succeeded on this instance.
func (r *Repository) IsIndexed() bool {
	return r.fsm.IsIndexed()
}

// List returns a copy of the indexed plugin collection in enumeration
// order. Before a successful Init the collection is empty.
func (r *Repository) List() []plugin.Plugin {
	out := make([]plugin.Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// GetPluginByName scans the collection in insertion order and returns the
// first plugin whose name matches exactly. Absence is reported through
// repository.ErrPluginNotFound, not treated as a failure.
func (r *Repository) GetPluginByName(name string) (*plugin.Plugin, error) {
	for i := range r.plugins {
		if r.plugins[i].Name == name {
			found := r.plugins[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrPluginNotFound, name)
}

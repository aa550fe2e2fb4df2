// Package local implements the repository variant for a source tree that is
// already on disk. Acquisition is a path check; the indexing core is the
// same one the GitHub-backed variant uses.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/domain/repository"
	"github.com/clightning4j/reckless/pkg/index"
)

// Repository is a plugin repository backed by a local directory.
type Repository struct {
	name      string
	localPath string

	plugins []plugin.Plugin
	fsm     *repository.StateMachine
	builder *index.Builder
	logger  *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithBuilder replaces the default index builder.
func WithBuilder(b *index.Builder) Option {
	return func(r *Repository) {
		r.builder = b
	}
}

// WithLogger sets the logger used for indexing traces.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// New creates a repository over an existing local directory.
func New(name, localPath string, opts ...Option) (*Repository, error) {
	fsm, err := repository.NewStateMachine(name)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		name:      name,
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
	return r, nil
}

// Name returns the repository name used as index key by the caller.
func (r *Repository) Name() string {
	return r.name
}

// URL returns the local path; a local repository has no remote location.
func (r *Repository) URL() string {
	return r.localPath
}

// LocalPath returns the directory the repository contents live in.
func (r *Repository) LocalPath() string {
	return r.localPath
}

// Init verifies the local path exists and indexes the plugins it contains.
// All-or-nothing: on any error no plugin list is installed.
func (r *Repository) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(r.localPath)
	if err != nil {
		return &repository.AcquisitionError{URL: r.localPath, Err: err}
	}
	if !info.IsDir() {
		return &repository.AcquisitionError{
			URL: r.localPath,
			Err: fmt.Errorf("not a directory: %s", r.localPath),
		}
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
// repository.ErrPluginNotFound.
func (r *Repository) GetPluginByName(name string) (*plugin.Plugin, error) {
	for i := range r.plugins {
		if r.plugins[i].Name == name {
			found := r.plugins[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrPluginNotFound, name)
}

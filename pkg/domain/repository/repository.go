// Package repository defines the polymorphic repository capability: a named
// source of installable plugins that can be acquired onto local disk and
// indexed. The GitHub-backed implementation is one variant; only the
// acquisition step differs per variant, the indexing core is shared.
package repository

import (
	"context"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
)

// Repository is a source of plugins that downstream tooling consumes by
// name. Implementations own their plugin collection exclusively; no
// concurrent mutation happens, and re-entrant Init calls on the same
// instance are the caller's responsibility to avoid.
type Repository interface {
	// Name returns the repository name used as index key by the caller.
	Name() string
	// URL returns the remote location the repository was configured with.
	URL() string
	// Init acquires the repository contents into the configured local path
	// and indexes the plugins it contains. It either fully succeeds or
	// leaves the repository without a usable plugin list.
	Init(ctx context.Context) error
	// List returns a copy of the indexed plugin collection, in enumeration
	// order. On a never-initialized repository it returns an empty slice.
	List() []plugin.Plugin
	// GetPluginByName returns the first indexed plugin whose name matches
	// exactly, or ErrPluginNotFound.
	GetPluginByName(name string) (*plugin.Plugin, error)
}

// Acquirer fetches repository contents from a remote location into a local
// path. It is the only step that differs between repository variants.
type Acquirer interface {
	Acquire(ctx context.Context, url, localPath string) error
}

package index

import (
	"log/slog"
	"path/filepath"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
)

// Builder orchestrates the indexing pipeline over a repository root: one
// Plugin record per non-hidden immediate child directory, in enumeration
// order. Directories are processed strictly one at a time.
type Builder struct {
	loader *ConfLoader
	logger *slog.Logger

	// preferConfLang makes a configuration's declared language win over the
	// detected one. Off by default: detection wins, the configuration's own
	// lang field is advisory.
	preferConfLang bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithConfParser replaces the default YAML configuration parser.
func WithConfParser(parser ConfParser) Option {
	return func(b *Builder) {
		b.loader = NewConfLoader(parser)
	}
}

// WithPreferConfLang makes the configuration's declared language, when
// present and recognized, take precedence over the detected one.
func WithPreferConfLang() Option {
	return func(b *Builder) {
		b.preferConfLang = true
	}
}

// WithLogger sets the logger used for indexing traces.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an index builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		loader: NewConfLoader(nil),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Index produces the full ordered plugin collection for the repository
// root. Any filesystem or configuration error aborts the whole pass; no
// partial collection is ever returned. An empty or all-hidden root yields
// an empty collection.
func (b *Builder) Index(root string) ([]plugin.Plugin, error) {
	entries, err := Walk(root)
	if err != nil {
		return nil, err
	}

	plugins := []plugin.Plugin{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		det, err := Detect(dir)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("possible plugin language",
			"plugin", det.Name,
			"lang", det.Lang)

		conf, err := b.loader.Load(dir)
		if err != nil {
			return nil, err
		}

		lang := det.Lang
		if b.preferConfLang && conf != nil {
			if declared := conf.DeclaredLang(); declared != plugin.LangUnknown {
				lang = declared
			}
		}

		b.logger.Debug("new plugin", "name", det.Name, "path", det.Path)
		plugins = append(plugins, plugin.Plugin{
			Name: det.Name,
			Path: det.Path,
			Lang: lang,
			Conf: conf,
		})
	}
	return plugins, nil
}

package index

import (
	"os"
	"path/filepath"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/domain/repository"
)

// ConfFiles are the configuration filenames probed in each plugin
// directory, in this exact order. When more than one exists, the last
// existing file in the list wins.
var ConfFiles = []string{"reckless.yaml", "reckless.yml"}

// ConfParser parses configuration text into a Conf value. It is injected so
// the indexing core stays independent of the configuration grammar.
type ConfParser func(data []byte) (*plugin.Conf, error)

// ConfLoader discovers and parses the optional per-plugin configuration.
type ConfLoader struct {
	parser ConfParser
}

// NewConfLoader creates a loader backed by the given parser. A nil parser
// falls back to the YAML-backed default.
func NewConfLoader(parser ConfParser) *ConfLoader {
	if parser == nil {
		parser = plugin.ParseConf
	}
	return &ConfLoader{parser: parser}
}

// Load probes the candidate configuration filenames inside dir. Absence of
// every candidate is not an error and yields a nil Conf. A candidate that
// exists but cannot be read or parsed aborts the indexing pass.
func (l *ConfLoader) Load(dir string) (*plugin.Conf, error) {
	var conf *plugin.Conf
	for _, name := range ConfFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &repository.FilesystemError{Path: path, Err: err}
		}

		parsed, err := l.parser(data)
		if err != nil {
			return nil, &repository.ConfParseError{Path: path, Err: err}
		}
		conf = parsed
	}
	return conf, nil
}

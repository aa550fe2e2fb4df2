// Package plugin holds the domain model for discoverable plugins: the
// Plugin record produced by indexing, the language enumeration, and the
// declarative configuration that may sit next to a plugin's sources.
package plugin

// Lang identifies the implementation language of a plugin.
type Lang string

const (
	LangPython     Lang = "python"
	LangGo         Lang = "go"
	LangRust       Lang = "rust"
	LangDart       Lang = "dart"
	LangJavaScript Lang = "javascript"
	LangTypeScript Lang = "typescript"
	LangUnknown    Lang = "unknown"
)

// markers maps a marker filename to the language its presence implies.
// Lookups are exact filename matches.
var markers = map[string]Lang{
	"requirements.txt": LangPython,
	"go.mod":           LangGo,
	"cargo.toml":       LangRust,
	"pubspec.yaml":     LangDart,
	"package.json":     LangJavaScript,
	"tsconfig.json":    LangTypeScript,
}

// MarkerLang returns the language implied by a marker filename and whether
// the filename is a known marker at all.
func MarkerLang(filename string) (Lang, bool) {
	lang, ok := markers[filename]
	return lang, ok
}

// Plugin is one discoverable unit of installable functionality, backed by a
// directory inside a repository.
type Plugin struct {
	// Name is derived from the plugin's directory name.
	Name string
	// Path is the filesystem location of the plugin directory.
	Path string
	// Lang is the heuristically inferred implementation language.
	Lang Lang
	// Conf is the parsed configuration override, nil when the plugin ships
	// none.
	Conf *Conf
}

// HasConf reports whether a configuration file was found for the plugin.
func (p *Plugin) HasConf() bool {
	return p.Conf != nil
}

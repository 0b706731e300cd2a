package config

// DefaultConfigPath is where the input configuration is looked up when no
// path is given, relative to the working directory.
const DefaultConfigPath = "src/JSON/filePath.json"

// Output formats understood by the file sink.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config is the input configuration: the list of Java files to process.
// It is read from a JSON object; keys other than those below are ignored.
type Config struct {
	// FilePaths lists the source files to process, in order. Duplicates are processed again.
	FilePaths []string `json:"filePaths" mapstructure:"filePaths"`

	// Exclude holds glob patterns; matching file paths are skipped.
	Exclude []string `json:"exclude,omitempty" mapstructure:"exclude"`

	// Source is the path the configuration was read from.
	Source string `json:"-" mapstructure:"-"`
}

// Settings controls where and how results are written.
// Priority: command-line flags → JAVAMETA_* environment → defaults.
type Settings struct {
	ConfigPath      string         `mapstructure:"config"`            // input configuration file
	Output          OutputSettings `mapstructure:"output"`            // output record settings
	ContinueOnError bool           `mapstructure:"continue_on_error"` // skip failing files instead of aborting
	LogFile         string         `mapstructure:"log_file"`          // optional rotating log file
}

// OutputSettings configures the output sinks.
type OutputSettings struct {
	Path   string `mapstructure:"path"`   // output record location
	Format string `mapstructure:"format"` // "json" or "yaml"
	SQLite string `mapstructure:"sqlite"` // optional SQLite database receiving the records
}

// DefaultSettings returns settings matching the tool's historical behavior:
// read src/JSON/filePath.json, write output.json, abort on the first error.
func DefaultSettings() *Settings {
	return &Settings{
		ConfigPath: DefaultConfigPath,
		Output: OutputSettings{
			Path:   "output.json",
			Format: FormatJSON,
		},
		ContinueOnError: false,
	}
}

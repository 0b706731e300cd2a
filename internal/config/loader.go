package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JAVAMETA_OUTPUT_PATH.
const EnvPrefix = "JAVAMETA"

const (
	keyFilePaths = "filePaths"
	keyExclude   = "exclude"
)

// Load reads the input configuration from path, or DefaultConfigPath when path is empty.
// Every failure wraps ErrConfiguration.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrConfigUnreadable, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnreadable, err)
	}

	// Keys are matched case-sensitively, so the document is decoded directly
	// rather than through viper, which folds key case.
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigMalformed, path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: expected a JSON object", ErrConfigMalformed, path)
	}

	rawPaths := doc[keyFilePaths]
	if rawPaths == nil {
		return nil, fmt.Errorf("%w: %q not set in %s", ErrMissingFilePaths, keyFilePaths, path)
	}

	filePaths, err := stringList(rawPaths)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFilePaths, keyFilePaths, err)
	}

	exclude, err := stringList(doc[keyExclude])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidExclude, keyExclude, err)
	}

	cfg := &Config{
		FilePaths: filePaths,
		Exclude:   exclude,
		Source:    path,
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// stringList converts a decoded JSON value into a list of strings.
// A nil value yields an empty list.
func stringList(raw any) ([]string, error) {
	if raw == nil {
		return []string{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of strings, got %T", raw)
	}

	values := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d: expected a string, got %T", i, item)
		}
		values = append(values, s)
	}
	return values, nil
}

// LoadSettings resolves tool settings from v. Flags bound to v by the caller
// take precedence over JAVAMETA_* environment variables, which take precedence
// over DefaultSettings.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., JAVAMETA_OUTPUT_FORMAT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("config")
	v.BindEnv("output.path")
	v.BindEnv("output.format")
	v.BindEnv("output.sqlite")
	v.BindEnv("continue_on_error")
	v.BindEnv("log_file")

	setDefaults(v)

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal settings: %v", ErrConfiguration, err)
	}

	settings.Output.Format = strings.ToLower(strings.TrimSpace(settings.Output.Format))

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := DefaultSettings()

	v.SetDefault("config", defaults.ConfigPath)
	v.SetDefault("output.path", defaults.Output.Path)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.sqlite", defaults.Output.SQLite)
	v.SetDefault("continue_on_error", defaults.ContinueOnError)
	v.SetDefault("log_file", defaults.LogFile)
}

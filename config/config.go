/*
Package config implements TOML config file handling for the locale bundle builder.

Normally it will be used by simply passing a config file name to the Load function to
obtain a Config struct.
*/
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// FallbackLanguage is the language every other language falls back to. It must always
// be present in the supported-language list.
const FallbackLanguage = "en"

// Config represents the parsed configuration for the bundle builder.
type Config struct {
	App           AppConfig         `toml:"app"`
	Languages     LanguagesConfig   `toml:"languages"`
	ResourceNames map[string]string `toml:"resource_names"`
	Build         BuildConfig       `toml:"build"`
	Audit         AuditConfig       `toml:"audit"`
	Server        ServerConfig      `toml:"server"`
}

// AppConfig locates the application-side inputs: the route table, the per-view default
// string and asset files, and the general-strings English baseline.
type AppConfig struct {
	// Path to the JSON route table the view list is derived from
	Routes string `toml:"routes"`
	// Directory containing one subdirectory per view
	ViewsDir string `toml:"views_dir"`
	// Extension of a view's template file, used to detect misconfigured views
	TemplateExt string `toml:"template_ext"`
	// Path to the default English general-strings JSON file
	GeneralBaseline string `toml:"general_baseline"`
	// JavaScript global each output bundle assigns to
	GlobalName string `toml:"global_name"`
}

// LanguagesConfig lists the supported language codes.
type LanguagesConfig struct {
	Codes []string `toml:"codes"`
	// Codes that are always expected to fall back to English; no log line is emitted
	// for them when a view has no translation file. Carried as opaque data from the
	// upstream build pipeline.
	Quiet []string `toml:"quiet"`
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	// Maximum number of views processed at once
	ViewConcurrency int `toml:"view_concurrency"`
}

// AuditConfig controls build-run auditing.
type AuditConfig struct {
	// Path to the SQLite audit database. Empty disables auditing.
	File string `toml:"file"`
}

// ServerConfig contains preview server configuration.
type ServerConfig struct {
	// Port that the server should run on.
	Port int `toml:"port"`
	// Directory of built bundles to serve.
	Dir string `toml:"dir"`
}

// valid checks if the Config is valid in its current state.
func (c *Config) valid() error {
	if len(c.App.Routes) == 0 {
		return errors.New("config: missing app.routes value")
	}
	if len(c.App.ViewsDir) == 0 {
		return errors.New("config: missing app.views_dir value")
	}
	if len(c.App.GeneralBaseline) == 0 {
		return errors.New("config: missing app.general_baseline value")
	}
	if len(c.App.GlobalName) == 0 {
		return errors.New("config: missing app.global_name value")
	}
	if len(c.Languages.Codes) == 0 {
		return errors.New("config: missing languages.codes value")
	}
	if !c.IsSupported(FallbackLanguage) {
		return fmt.Errorf("config: languages.codes must include the fallback language '%v'", FallbackLanguage)
	}
	codes := append(append([]string{}, c.Languages.Codes...), c.Languages.Quiet...)
	for _, code := range codes {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("config: invalid language code '%v': %v", code, err)
		}
	}
	if c.Build.ViewConcurrency < 1 {
		return errors.New("config: build.view_concurrency must be at least 1")
	}
	if c.Server.Port < 0 {
		return errors.New("config: server.port is invalid")
	}
	return nil
}

// IsSupported reports whether code is in the supported-language list.
func (c *Config) IsSupported(code string) bool {
	for _, l := range c.Languages.Codes {
		if l == code {
			return true
		}
	}
	return false
}

// IsQuiet reports whether fallback for code should go unlogged.
func (c *Config) IsQuiet(code string) bool {
	for _, l := range c.Languages.Quiet {
		if l == code {
			return true
		}
	}
	return false
}

// ResourceName gets the localization-platform resource name for a view.
func (c *Config) ResourceName(view string) string {
	if name, ok := c.ResourceNames[view]; ok {
		return name
	}
	return view
}

// Creates a new Config with some default values.
func newConfig() Config {
	c := Config{
		App: AppConfig{
			Routes:          filepath.FromSlash("./src/routes.json"),
			ViewsDir:        filepath.FromSlash("./src/views"),
			TemplateExt:     ".jsx",
			GeneralBaseline: filepath.FromSlash("./src/l10n.json"),
			GlobalName:      "window._messages",
		},
		Languages: LanguagesConfig{
			Codes: []string{FallbackLanguage},
			Quiet: []string{"es-419", "pt-br"},
		},
		Build: BuildConfig{
			ViewConcurrency: 5,
		},
		Server: ServerConfig{
			Port: 8181,
			Dir:  filepath.FromSlash("./intl"),
		},
	}
	return c
}

// Loads config from a TOML file and checks its validity.
func Load(file string) (Config, error) {
	conf := newConfig()
	_, err := toml.DecodeFile(file, &conf)
	if err != nil {
		return conf, err
	}

	if err = conf.valid(); err != nil {
		return conf, err
	}

	return conf, nil
}

package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	Motd        string `json:"motd"`
	Prompt      string `json:"prompt" validate:"required"`
	HistoryFile string `json:"history_file" validate:"required"`
	SessionLog  string `json:"session_log"`
	Colors      bool   `json:"colors"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Fs returns the filesystem the configuration was loaded from.
func (c *Configuration) Fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// HistoryPath is the location of the history file, relative paths resolve
// against the configuration directory.
func (c *Configuration) HistoryPath() string {
	return c.resolve(c.HistoryFile)
}

// SessionLogPath is the location of the session log, or "" when logging is
// disabled.
func (c *Configuration) SessionLogPath() string {
	if c.SessionLog == "" {
		return ""
	}
	return c.resolve(c.SessionLog)
}

// OpenSessionLog opens the session log for appending.
func (c *Configuration) OpenSessionLog() (afero.File, error) {
	return c.Fs().OpenFile(c.SessionLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.configDir, path)
}

// defaultConfig panics on failure because the embedded configuration should
// never be invalid at runtime.
func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

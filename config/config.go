// Package config loads client settings from a TOML file.
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[device]
//	path = "device.toml"
//
//	[limits]
//	max_frame = 1048576
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/opd-ai/oicq/limits"
	"github.com/sirupsen/logrus"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalid indicates a config value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Config holds client settings.
type Config struct {
	LogLevel   logrus.Level
	LogFormat  string
	DevicePath string
	MaxFrame   int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:   logrus.InfoLevel,
		LogFormat:  FormatText,
		DevicePath: "device.toml",
		MaxFrame:   limits.MaxFrame,
	}
}

type fileConfig struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Device struct {
		Path string `toml:"path"`
	} `toml:"device"`
	Limits struct {
		MaxFrame int `toml:"max_frame"`
	} `toml:"limits"`
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := apply(Default(), raw, meta)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads TOML text over the defaults.
func Parse(text string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return apply(Default(), raw, meta)
}

func apply(cfg Config, raw fileConfig, meta toml.MetaData) (Config, error) {
	if meta.IsDefined("log", "level") {
		level, err := logrus.ParseLevel(strings.TrimSpace(raw.Log.Level))
		if err != nil {
			return Config{}, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("log", "format") {
		format := strings.ToLower(strings.TrimSpace(raw.Log.Format))
		if format != FormatText && format != FormatJSON {
			return Config{}, fmt.Errorf("%w: log.format %q", ErrInvalid, raw.Log.Format)
		}
		cfg.LogFormat = format
	}

	if meta.IsDefined("device", "path") {
		if p := strings.TrimSpace(raw.Device.Path); p != "" {
			cfg.DevicePath = p
		}
	}

	if meta.IsDefined("limits", "max_frame") {
		if raw.Limits.MaxFrame <= 0 || raw.Limits.MaxFrame > limits.MaxFrame {
			return Config{}, fmt.Errorf("%w: limits.max_frame %d not in 1..%d", ErrInvalid, raw.Limits.MaxFrame, limits.MaxFrame)
		}
		cfg.MaxFrame = raw.Limits.MaxFrame
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "config.apply",
			"keys":     fmt.Sprint(undecoded),
		}).Warn("Ignoring unknown config keys")
	}
	return cfg, nil
}

// ConfigureLogger applies the log settings to logger.
func (c Config) ConfigureLogger(logger *logrus.Logger) {
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == FormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// NewLogger returns a logger configured from c writing to out.
func (c Config) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	c.ConfigureLogger(logger)
	return logger
}

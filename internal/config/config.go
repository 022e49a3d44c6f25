/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	applog "goannotate/internal/log"
	"goannotate/internal/shape"
	"goannotate/internal/vector"
)

// ToolsConfig holds the style new shapes are created with.
type ToolsConfig struct {
	Default    string  `yaml:"default"` // tool selected at startup, e.g. "pointer"
	LineWidth  float64 `yaml:"line_width"`
	LineStyle  string  `yaml:"line_style"` // "solid" | "dashed"
	Color      string  `yaml:"color"`      // #RRGGBB or #RRGGBBAA
	FontFamily string  `yaml:"font_family"`
	FontSize   float64 `yaml:"font_size"`
}

type UndoConfig struct {
	MaxDepth     int `yaml:"max_depth"`
	MaxSnapshots int `yaml:"max_snapshots"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// MinMarquee is the size at or below which a marquee drag counts as a click.
	MinMarquee          float64 `yaml:"min_marquee"`
	PolylineMinDistance float64 `yaml:"polyline_min_distance"`
}

type StorageConfig struct {
	Database      string `yaml:"database"` // autosave/revision database; empty = next to the config file
	KeepRevisions int    `yaml:"keep_revisions"`
	Backups       int    `yaml:"backups"` // rotated document backups kept on save
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Tools         ToolsConfig   `yaml:"tools"`
	Undo          UndoConfig    `yaml:"undo"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Tools:         ToolsConfig{Default: "pointer", LineWidth: 2, LineStyle: "solid", Color: "#000000", FontFamily: "Calibri", FontSize: 14},
		Undo:          UndoConfig{MaxDepth: 100, MaxSnapshots: 10000},
		Canvas:        CanvasConfig{Width: 1920, Height: 1080, MinMarquee: 2, PolylineMinDistance: 15},
		Storage:       StorageConfig{KeepRevisions: 20, Backups: 3},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// envPrefix is prepended to every override variable, e.g. GOA_LINE_WIDTH.
const envPrefix = "GOA"

// overrides is decoded from the environment. Pointer fields stay nil when the
// variable is unset, so only pinned values replace the file configuration.
type overrides struct {
	Tool          *string  `envconfig:"TOOL"`
	LineWidth     *float64 `envconfig:"LINE_WIDTH"`
	LineStyle     *string  `envconfig:"LINE_STYLE"`
	Color         *string  `envconfig:"COLOR"`
	FontFamily    *string  `envconfig:"FONT_FAMILY"`
	FontSize      *float64 `envconfig:"FONT_SIZE"`
	UndoMaxDepth  *int     `envconfig:"UNDO_MAX_DEPTH"`
	CanvasWidth   *float64 `envconfig:"CANVAS_WIDTH"`
	CanvasHeight  *float64 `envconfig:"CANVAS_HEIGHT"`
	Database      *string  `envconfig:"DB"`
	KeepRevisions *int     `envconfig:"KEEP_REVISIONS"`
	LogLevel      *string  `envconfig:"LOG_LEVEL"`
	LogFormat     *string  `envconfig:"LOG_FORMAT"`
	LogSource     *bool    `envconfig:"LOG_SOURCE"`
	LogFile       *string  `envconfig:"LOG_FILE"`
}

// envKeys maps YAML keys to the variables that can pin them.
var envKeys = map[string]string{
	"tools.default":          "TOOL",
	"tools.line_width":       "LINE_WIDTH",
	"tools.line_style":       "LINE_STYLE",
	"tools.color":            "COLOR",
	"tools.font_family":      "FONT_FAMILY",
	"tools.font_size":        "FONT_SIZE",
	"undo.max_depth":         "UNDO_MAX_DEPTH",
	"canvas.width":           "CANVAS_WIDTH",
	"canvas.height":          "CANVAS_HEIGHT",
	"storage.database":       "DB",
	"storage.keep_revisions": "KEEP_REVISIONS",
	"logging.level":          "LOG_LEVEL",
	"logging.format":         "LOG_FORMAT",
	"logging.source":         "LOG_SOURCE",
	"logging.file":           "LOG_FILE",
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoAnnotate")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoAnnotate")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "goannotate")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file. A missing file yields the defaults;
// a malformed one is reported but the defaults are still returned.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var fileErr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			fileErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fileErr = err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Storage.Database == "" {
		cfg.Storage.Database = filepath.Join(filepath.Dir(path), "revisions.db")
	}
	return cfg, fileErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setString(&dst.Tools.Default, src.Tools.Default, true)
	setFloat(&dst.Tools.LineWidth, src.Tools.LineWidth)
	setString(&dst.Tools.LineStyle, src.Tools.LineStyle, true)
	setString(&dst.Tools.Color, src.Tools.Color, false)
	setString(&dst.Tools.FontFamily, src.Tools.FontFamily, false)
	setFloat(&dst.Tools.FontSize, src.Tools.FontSize)
	if src.Undo.MaxDepth > 0 {
		dst.Undo.MaxDepth = src.Undo.MaxDepth
	}
	if src.Undo.MaxSnapshots > 0 {
		dst.Undo.MaxSnapshots = src.Undo.MaxSnapshots
	}
	setFloat(&dst.Canvas.Width, src.Canvas.Width)
	setFloat(&dst.Canvas.Height, src.Canvas.Height)
	setFloat(&dst.Canvas.MinMarquee, src.Canvas.MinMarquee)
	setFloat(&dst.Canvas.PolylineMinDistance, src.Canvas.PolylineMinDistance)
	setString(&dst.Storage.Database, src.Storage.Database, false)
	if src.Storage.KeepRevisions > 0 {
		dst.Storage.KeepRevisions = src.Storage.KeepRevisions
	}
	if src.Storage.Backups > 0 {
		dst.Storage.Backups = src.Storage.Backups
	}
	// logging
	setString(&dst.Logging.Level, src.Logging.Level, true)
	setString(&dst.Logging.Format, src.Logging.Format, true)
	dst.Logging.Source = src.Logging.Source
	setString(&dst.Logging.File, src.Logging.File, false)
}

func setString(dst *string, v string, lower bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*dst = v
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	var o overrides
	if err := envconfig.Process(envPrefix, &o); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	if o.Tool != nil {
		setString(&cfg.Tools.Default, *o.Tool, true)
	}
	if o.LineWidth != nil {
		cfg.Tools.LineWidth = *o.LineWidth
	}
	if o.LineStyle != nil {
		setString(&cfg.Tools.LineStyle, *o.LineStyle, true)
	}
	if o.Color != nil {
		setString(&cfg.Tools.Color, *o.Color, false)
	}
	if o.FontFamily != nil {
		setString(&cfg.Tools.FontFamily, *o.FontFamily, false)
	}
	if o.FontSize != nil {
		setFloat(&cfg.Tools.FontSize, *o.FontSize)
	}
	if o.UndoMaxDepth != nil {
		cfg.Undo.MaxDepth = *o.UndoMaxDepth
	}
	if o.CanvasWidth != nil {
		setFloat(&cfg.Canvas.Width, *o.CanvasWidth)
	}
	if o.CanvasHeight != nil {
		setFloat(&cfg.Canvas.Height, *o.CanvasHeight)
	}
	if o.Database != nil {
		setString(&cfg.Storage.Database, *o.Database, false)
	}
	if o.KeepRevisions != nil {
		cfg.Storage.KeepRevisions = *o.KeepRevisions
	}
	// logging overrides
	if o.LogLevel != nil {
		setString(&cfg.Logging.Level, *o.LogLevel, true)
	}
	if o.LogFormat != nil {
		setString(&cfg.Logging.Format, *o.LogFormat, true)
	}
	if o.LogSource != nil {
		cfg.Logging.Source = *o.LogSource
	}
	if o.LogFile != nil {
		setString(&cfg.Logging.File, *o.LogFile, false)
	}
	return nil
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok {
		return "", false
	}
	name = envPrefix + "_" + name
	if os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}

// Style converts the tool defaults into a shape style at the given rendering scale.
func (t ToolsConfig) Style(scale float64) (shape.Style, error) {
	ls, err := vector.ParseLineStyle(t.LineStyle)
	if err != nil {
		return shape.Style{}, err
	}
	c, err := vector.ParseColor(t.Color)
	if err != nil {
		return shape.Style{}, err
	}
	if t.LineWidth < 0 {
		return shape.Style{}, fmt.Errorf("line width %v must not be negative", t.LineWidth)
	}
	if scale <= 0 {
		scale = 1
	}
	return shape.Style{LineWidth: t.LineWidth, LineStyle: ls, Color: c, Scale: scale}, nil
}

func (t ToolsConfig) Font() shape.Font {
	return shape.Font{Family: t.FontFamily, Size: t.FontSize}
}

// Options converts the logging section for log.Init.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

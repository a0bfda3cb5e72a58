/*
Package config manages TOML config for wordpop.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/wordpop/internal/utils"
	"github.com/bastiangx/wordpop/pkg/buffer"
	"github.com/bastiangx/wordpop/pkg/completion"
	"github.com/bastiangx/wordpop/pkg/markdown"
	"github.com/bastiangx/wordpop/pkg/menu"
	"github.com/bastiangx/wordpop/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
)

// Config holds the entire config structure
type Config struct {
	Menu   MenuConfig   `toml:"menu"`
	Docs   DocsConfig   `toml:"docs"`
	Theme  ThemeConfig  `toml:"theme"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// MenuConfig sizes the candidate list.
type MenuConfig struct {
	MaxRows     int `toml:"max_rows"`
	MinWidth    int `toml:"min_width"`
	HistorySize int `toml:"history_size"`
}

// DocsConfig controls the documentation panel.
type DocsConfig struct {
	SideMinWidth     int    `toml:"side_min_width"`
	StackedMaxHeight int    `toml:"stacked_max_height"`
	ReservedRows     int    `toml:"reserved_rows"`
	LanguagePrefix   string `toml:"language_prefix"`
	Style            string `toml:"style"`
	Wrap             int    `toml:"wrap"`
}

// ThemeConfig holds popup colours as names or #rrggbb. Empty means terminal default.
type ThemeConfig struct {
	MenuFg     string `toml:"menu_fg"`
	MenuBg     string `toml:"menu_bg"`
	SelectedFg string `toml:"selected_fg"`
	SelectedBg string `toml:"selected_bg"`
	KindFg     string `toml:"kind_fg"`
	PopupBg    string `toml:"popup_bg"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	// ReloadInterval is the number of requests between config file checks when Watch is off.
	ReloadInterval int    `toml:"reload_interval"`
	Watch          bool   `toml:"watch"`
	Encoding       string `toml:"encoding"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordpop")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordpop")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordpop/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	layout := completion.DefaultLayout()
	return &Config{
		Menu: MenuConfig{
			MaxRows:     10,
			MinWidth:    12,
			HistorySize: 256,
		},
		Docs: DocsConfig{
			SideMinWidth:     layout.SideMinWidth,
			StackedMaxHeight: layout.StackedMaxHeight,
			ReservedRows:     layout.ReservedRows,
			LanguagePrefix:   "source.",
			Style:            "dark",
			Wrap:             80,
		},
		Server: ServerConfig{
			ReloadInterval: 100,
			Watch:          true,
			Encoding:       "utf-16",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their defaults,
// and a file that fails to decode as a whole is salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse recovers every well typed key from a file the struct decoder rejected.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "menu"); ok {
		extractMenuConfig(section, &config.Menu)
	}
	if section, ok := utils.ExtractSection(tempConfig, "docs"); ok {
		extractDocsConfig(section, &config.Docs)
	}
	if section, ok := utils.ExtractSection(tempConfig, "theme"); ok {
		extractThemeConfig(section, &config.Theme)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	return config, nil
}

func extractMenuConfig(data map[string]any, m *MenuConfig) {
	if val, ok := utils.ExtractInt64(data, "max_rows"); ok {
		m.MaxRows = val
	}
	if val, ok := utils.ExtractInt64(data, "min_width"); ok {
		m.MinWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "history_size"); ok {
		m.HistorySize = val
	}
}

func extractDocsConfig(data map[string]any, d *DocsConfig) {
	if val, ok := utils.ExtractInt64(data, "side_min_width"); ok {
		d.SideMinWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "stacked_max_height"); ok {
		d.StackedMaxHeight = val
	}
	if val, ok := utils.ExtractInt64(data, "reserved_rows"); ok {
		d.ReservedRows = val
	}
	if val, ok := utils.ExtractString(data, "language_prefix"); ok {
		d.LanguagePrefix = val
	}
	if val, ok := utils.ExtractString(data, "style"); ok {
		d.Style = val
	}
	if val, ok := utils.ExtractInt64(data, "wrap"); ok {
		d.Wrap = val
	}
}

func extractThemeConfig(data map[string]any, t *ThemeConfig) {
	for key, dst := range map[string]*string{
		"menu_fg":     &t.MenuFg,
		"menu_bg":     &t.MenuBg,
		"selected_fg": &t.SelectedFg,
		"selected_bg": &t.SelectedBg,
		"kind_fg":     &t.KindFg,
		"popup_bg":    &t.PopupBg,
	} {
		if val, ok := utils.ExtractString(data, key); ok {
			*dst = val
		}
	}
}

func extractServerConfig(data map[string]any, s *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "reload_interval"); ok {
		s.ReloadInterval = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		s.Watch = val
	}
	if val, ok := utils.ExtractString(data, "encoding"); ok {
		s.Encoding = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// LogLevel parses [log] level, falling back to warn.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		log.Warnf("Unknown log level %q, using warn", c.Log.Level)
		return log.WarnLevel
	}
	return level
}

// OffsetEncoding parses [server] encoding, falling back to UTF-16.
func (c *Config) OffsetEncoding() buffer.OffsetEncoding {
	enc, err := buffer.ParseEncoding(c.Server.Encoding)
	if err != nil {
		log.Warnf("%v, using utf-16", err)
	}
	return enc
}

// Layout returns the documentation panel thresholds.
func (c *Config) Layout() completion.Layout {
	return completion.Layout{
		SideMinWidth:     c.Docs.SideMinWidth,
		StackedMaxHeight: c.Docs.StackedMaxHeight,
		ReservedRows:     c.Docs.ReservedRows,
	}
}

// Styles builds the menu styles from [theme].
func (c *Config) Styles() menu.Styles {
	normal := style(tcell.StyleDefault, c.Theme.MenuFg, c.Theme.MenuBg)
	styles := menu.DefaultStyles()
	styles.Normal = normal
	if c.Theme.SelectedFg != "" || c.Theme.SelectedBg != "" {
		styles.Selected = style(normal, c.Theme.SelectedFg, c.Theme.SelectedBg)
	} else {
		styles.Selected = normal.Reverse(true)
	}
	styles.Tag = style(normal, c.Theme.KindFg, "")
	if c.Theme.KindFg == "" {
		styles.Tag = normal.Dim(true)
	}
	return styles
}

// PopupStyle is the documentation panel background.
func (c *Config) PopupStyle() tcell.Style {
	return style(tcell.StyleDefault, "", c.Theme.PopupBg)
}

// Renderer is the glamour documentation renderer for [docs].
func (c *Config) Renderer() markdown.Renderer {
	r := markdown.NewGlamour(c.Docs.Style)
	r.Wrap = c.Docs.Wrap
	return r
}

// SessionOptions assembles completion options from the config. history may be nil.
func (c *Config) SessionOptions(history *suggest.History) completion.Options {
	return completion.Options{
		Ranker:         suggest.NewFuzzyRanker(history),
		History:        history,
		Renderer:       c.Renderer(),
		Layout:         c.Layout(),
		MaxRows:        c.Menu.MaxRows,
		MinWidth:       c.Menu.MinWidth,
		Styles:         c.Styles(),
		PopupStyle:     c.PopupStyle(),
		LanguagePrefix: c.Docs.LanguagePrefix,
	}
}

func style(base tcell.Style, fg, bg string) tcell.Style {
	if fg != "" {
		base = base.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		base = base.Background(tcell.GetColor(bg))
	}
	return base
}

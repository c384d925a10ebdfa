package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth    int  `toml:"tab-width"`
	LineNumbers bool `toml:"line-numbers"`
	DebugLog    bool `toml:"debug-log"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
	LineNumberForeground string `toml:"line-number-foreground"`
	SyntaxKeyword        string `toml:"syntax-keyword"`
	SyntaxString         string `toml:"syntax-string"`
	SyntaxComment        string `toml:"syntax-comment"`
	SyntaxType           string `toml:"syntax-type"`
	SyntaxFunction       string `toml:"syntax-function"`
	SyntaxNumber         string `toml:"syntax-number"`
	SyntaxConstant       string `toml:"syntax-constant"`
	SyntaxProperty       string `toml:"syntax-property"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:    4,
			LineNumbers: true,
		},
		Theme: Theme{
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
			LineNumberForeground: "#3E4B59",
			SyntaxKeyword:        "#FFA759",
			SyntaxString:         "#BAE67E",
			SyntaxComment:        "#5C6773",
			SyntaxType:           "#5CCFE6",
			SyntaxFunction:       "#FFD173",
			SyntaxNumber:         "#D4BFFF",
			SyntaxConstant:       "#FFDD8E",
			SyntaxProperty:       "#E6B673",
		},
		Keymap: map[string]string{
			"backspace": "backspace",
			"del":       "delete_char",
			"enter":     "newline",
			"tab":       "insert_tab",
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "line_end",
			"ctrl+home": "file_start",
			"ctrl+end":  "file_end",
			"ctrl+s":    "save",
			"ctrl+q":    "quit",
			"esc":       "quit",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if md.IsDefined("editor", "line-numbers") {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.DebugLog {
		cfg.Editor.DebugLog = true
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	// Inline theme values win over the named theme file.
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxProperty, src.SyntaxProperty)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Both flat files and files wrapped in
// a [theme] table are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("PTEDIT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ptedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ptedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

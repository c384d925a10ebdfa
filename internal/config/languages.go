package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// DefaultLanguages covers the grammars bundled with the syntax package.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}},
		{Name: "toml", FileTypes: []string{"toml"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".profile"}},
	}}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == baseLower || (ext != "" && ftLower == ext) {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && ext != "" && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// LoadLanguages reads languages.toml, falling back to DefaultLanguages
// when the file does not exist.
func LoadLanguages() (Languages, error) {
	path, err := LanguagesPath()
	if err != nil {
		return Languages{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultLanguages(), nil
		}
		return Languages{}, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Languages{}, err
	}
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when CONFIG_PATH is unset and the file exists.
const DefaultPath = "./config.yaml"

// Load reads the YAML file named by CONFIG_PATH, or DefaultPath when present,
// with environment variables taking precedence and env-default tags filling
// the rest. Without a file only the environment is used.
//
// Besides Validate, Load checks the filesystem: languages.table_dir must be
// an existing directory when set.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	if err := cfg.Languages.checkTableDir(); err != nil {
		return nil, fmt.Errorf("config: languages: %w", err)
	}

	return &cfg, nil
}

func (c LanguagesConfig) checkTableDir() error {
	if c.TableDir == "" {
		return nil
	}
	fi, err := os.Stat(c.TableDir)
	if err != nil {
		return fmt.Errorf("table_dir: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("table_dir %s is not a directory", c.TableDir)
	}
	return nil
}

// TablePath returns the override table for code under TableDir, or "" when
// there is none.
func (c LanguagesConfig) TablePath(code string) string {
	if c.TableDir == "" {
		return ""
	}
	path := filepath.Join(c.TableDir, code+".json")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

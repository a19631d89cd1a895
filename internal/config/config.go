// Package config loads the application configuration from a YAML file,
// applying struct-tag defaults and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Blog    BlogConfig    `yaml:"blog"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

type DataConfig struct {
	Dir string `yaml:"dir" default:"./blog_data"`
}

type BlogConfig struct {
	DefaultAuthor string `yaml:"default_author" default:"Anonymous"`
	ListLimit     int    `yaml:"list_limit" default:"10"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir" default:"./export"`
	Format string `yaml:"format" default:"markdown"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment variables (SCRIBE_*) override both.
func Load(path string) (*Config, error) {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		applyEnv(config)
		return config, nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)
	return config, nil
}

// applyEnv overrides config values from the process environment.
func applyEnv(config *Config) {
	if v := os.Getenv("SCRIBE_DATA_DIR"); v != "" {
		config.Data.Dir = v
	}
	if v := os.Getenv("SCRIBE_DEFAULT_AUTHOR"); v != "" {
		config.Blog.DefaultAuthor = v
	}
	if v := os.Getenv("SCRIBE_EXPORT_DIR"); v != "" {
		config.Export.Dir = v
	}
	if v := os.Getenv("SCRIBE_EXPORT_FORMAT"); v != "" {
		config.Export.Format = v
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}

// Package config loads and validates checksums settings.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"

	apperrors "checksums/internal/errors"
	"checksums/internal/pool"
	"checksums/internal/stream"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds every tunable of a checksums run.
type Config struct {
	ChunkSize  int    `toml:"chunk_size" json:"chunk_size" validate:"min=1,max=16777216"`
	MaxWorkers int    `toml:"max_workers" json:"max_workers" validate:"min=-1,ne=0"`
	LogLevel   string `toml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `toml:"log_format" json:"log_format" validate:"oneof=text json"`
	BLAKE3     bool   `toml:"blake3" json:"blake3"`
	Output     string `toml:"output" json:"output" validate:"oneof=text yaml json"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChunkSize:  stream.DefaultChunkSize,
		MaxWorkers: pool.Unbounded,
		LogLevel:   "warn",
		LogFormat:  "text",
		Output:     "text",
	}
}

// Load reads path on top of Default. Files ending in .json or .jsonc are
// parsed as JSON with comments; anything else as TOML.
func Load(path string) (Config, error) {
	cfg := Default()
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w: %w", err, apperrors.ErrConfig)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(content)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w: %w", path, err, apperrors.ErrConfig)
		}
	default:
		dec := toml.NewDecoder(bytes.NewReader(content))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return Config{}, fmt.Errorf("parse config file %s at line %d, column %d: %w: %w", path, row, col, err, apperrors.ErrConfig)
			}
			return Config{}, fmt.Errorf("parse config file %s: %w: %w", path, err, apperrors.ErrConfig)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w: %w", err, apperrors.ErrConfig)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), tagWithParam(fe), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s: %w", strings.Join(msgs, "; "), apperrors.ErrConfig)
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

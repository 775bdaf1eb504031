package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.step.sm/osslcompat/digest"
	"go.step.sm/osslcompat/evp"
	"go.step.sm/osslcompat/internal/utils"
)

// configEnv is the environment variable used when --config is not set.
const configEnv = "OSSLCOMPAT_CONFIG"

// Config holds the defaults used when a flag is not set.
type Config struct {
	// Digest used by digest, bytestokey and enc.
	Digest string `yaml:"digest"`

	// Cipher used by bytestokey and enc.
	Cipher string `yaml:"cipher"`

	// Iterations of the key derivation, 0 uses the default of each
	// command.
	Iterations int `yaml:"iterations"`

	// PBKDF2 makes enc use PBKDF2 instead of EVP_BytesToKey.
	PBKDF2 bool `yaml:"pbkdf2"`
}

// DefaultConfig returns the defaults of `openssl enc` >= 1.1.0.
func DefaultConfig() *Config {
	return &Config{
		Digest: evp.DefaultDigest,
		Cipher: "AES-256-CBC",
	}
}

// LoadConfig reads the YAML file at path. Values missing in the file keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "error parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// loadConfig loads path, or the file in $OSSLCOMPAT_CONFIG, or returns the
// defaults.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// Validate checks that the digest and the cipher are supported.
func (c *Config) Validate() error {
	if !digest.IsSupported(c.Digest) {
		return errors.Errorf("unsupported digest %s", c.Digest)
	}
	if _, err := evp.LookupCipher(c.Cipher); err != nil {
		return err
	}
	if c.Iterations < 0 {
		return errors.Errorf("iterations must be a positive number, got %d", c.Iterations)
	}
	return nil
}

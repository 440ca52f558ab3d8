// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding single config keys,
	// e.g. MARKETLINK_WEBSERVER_PORT.
	EnvPrefix = "MARKETLINK"

	// EnvConfigJSON holds a complete JSON document merged over the file config.
	EnvConfigJSON = "MARKETLINK_CONFIG_JSON"

	redacted = "***"

	defaultShutDownTime = 5
	defaultExpiryTime   = 24 * time.Hour
	defaultStateTTL     = 5 * time.Minute
)

var secretKeys = []string{ //nolint:gochecknoglobals
	"webserver.session.secret",
	"db.password",
	"cache.password",
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	// secrets may live in a .env next to the config, missing file is fine
	if err = godotenv.Load(path + ".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to read .env file")
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys present in main.toml
	for _, key := range secretKeys {
		if err = v.BindEnv(key); err != nil {
			return Config{}, errors.Wrap(err, "failed to bind env")
		}
	}

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config from env")
	}

	return c, nil
}

// DumpConfig config as TOML String. Secrets are redacted.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String. Secrets are redacted.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(redact(*c)); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func redact(c Config) Config {
	if c.Webserver.Session.Secret != "" {
		c.Webserver.Session.Secret = redacted
	}

	if c.DB.Password != "" {
		c.DB.Password = redacted
	}

	if c.Cache.Password != "" {
		c.Cache.Password = redacted
	}

	providers := make(map[string]OIDCAuth, len(c.Auth.Providers))

	for name, p := range c.Auth.Providers {
		if p.ClientSecret != "" {
			p.ClientSecret = redacted
		}

		providers[name] = p
	}

	c.Auth.Providers = providers

	return c
}

// validate minimal config settings and fill in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.Session.Secret == "" {
		return errors.Wrap(ErrEmptySessionSecret, invalidErrMessage)
	}

	if !c.Auth.LocalDB.Enabled && len(c.Auth.EnabledProviders()) == 0 {
		return errors.Wrap(ErrNoLoginMethod, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = "sqlite"
	case "mysql", "postgres", "sqlite":
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Cache.Driver {
	case "":
		c.Cache.Driver = "memory"
	case "memory", "redis":
	default:
		return errors.Wrap(ErrUnknownCacheDriver, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultExpiryTime
	}

	if c.Webserver.Session.Issuer == "" {
		c.Webserver.Session.Issuer = c.Webserver.URL
	}

	if c.Cache.StateTTL == 0 {
		c.Cache.StateTTL = defaultStateTTL
	}

	return nil
}

package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptySessionSecret error if no secret for signing session tokens is configured.
	ErrEmptySessionSecret = errors.New("toml config webserver.session.secret can not be empty")

	// ErrNoLoginMethod error if neither local login nor any identity provider is enabled.
	ErrNoLoginMethod = errors.New("at least one login method must be enabled")

	// ErrUnknownGormEngine error if db.gormengine is not mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be mysql, postgres or sqlite")

	// ErrUnknownCacheDriver error if cache.driver is not memory or redis.
	ErrUnknownCacheDriver = errors.New("toml config cache.driver must be memory or redis")
)

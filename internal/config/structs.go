package config

import (
	"time"

	"github.com/marketlink/marketlink/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of the signed session cookie
	Secret     string        // HMAC secret used to sign session tokens
	Issuer     string        // iss claim of issued session tokens
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Cache     Cache
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the session cookie
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Cache holds the settings of the short-lived key/value cache used for OAuth state.
type Cache struct {
	Driver   string        // memory or redis
	Addr     string        // redis address host:port
	Password string        // redis password
	DB       int           // redis database
	Prefix   string        // key prefix
	StateTTL time.Duration // lifetime of an OAuth state entry
}

// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/marketlink/marketlink/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
//
// mysql uses the go-sql-driver format, postgres a postgres:// URL which both gorm
// and the postgres session storage accept, sqlite the database file name.
func Create(cfg *config.DB) string {
	switch cfg.GormEngine {
	case "postgres":
		return postgres(cfg)
	case "sqlite":
		return cfg.Name
	default:
		return mySQL(cfg)
	}
}

func mySQL(cfg *config.DB) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Name
	c.ParseTime = true

	out := c.FormatDSN()

	if extras := strings.TrimPrefix(cfg.Extras, "?"); extras != "" {
		sep := "?"
		if strings.Contains(out, "?") {
			sep = "&"
		}

		out = out + sep + extras
	}

	return out
}

func postgres(cfg *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: strings.TrimPrefix(cfg.Extras, "?"),
	}

	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	return u.String()
}

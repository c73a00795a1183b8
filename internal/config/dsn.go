package config

import (
	"net/url"
	"strings"
)

const preparedBinaryResultParam = "disable_prepared_binary_result"

// DSN is DBURL as handed to the postgres driver and to golang-migrate.
func (c Config) DSN() string {
	return NormalizeDBURL(c.DBURL, c.DBDisablePreparedBinary)
}

// NormalizeDBURL adds disable_prepared_binary_result=yes to URL-style
// connection strings unless the caller already set the parameter. Poolers in
// transaction mode (Supabase, pgbouncer) need it. Keyword/value DSNs are
// returned untouched.
func NormalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	query := u.Query()
	if query.Has(preparedBinaryResultParam) {
		return raw
	}
	query.Set(preparedBinaryResultParam, "yes")
	u.RawQuery = query.Encode()
	return u.String()
}

// DBName extracts the database name from either a postgres:// URL or a
// keyword/value DSN ("host=... dbname=fpl_data"). It returns "" when absent.
func DBName(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return strings.Trim(u.Path, "/ ")
	}

	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if ok && key == "dbname" {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

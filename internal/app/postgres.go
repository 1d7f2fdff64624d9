package app

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/riskibarqy/fc24pred/internal/config"
)

const (
	maxTracedQueryLength = 512
	preparedBinaryParam  = "disable_prepared_binary_result"
)

var (
	queryWhitespace = regexp.MustCompile(`\s+`)
	queryString     = regexp.MustCompile(`'(?:[^']|'')*'`)
	// Digits not glued to an identifier or a $n placeholder.
	queryNumber = regexp.MustCompile(`(^|[^$\w.])\d+(?:\.\d+)?\b`)
)

// PostgresURL is the connection string used by the API and the migrator.
func PostgresURL(cfg config.Config) string {
	if !cfg.DBDisablePreparedBinary {
		return cfg.DBURL
	}
	return withQueryParam(cfg.DBURL, preparedBinaryParam, "yes")
}

// withQueryParam sets key unless the URL already carries it. Keyword/value
// DSNs are returned untouched.
func withQueryParam(raw, key, value string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(key) != "" {
		return raw
	}
	query.Set(key, value)
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// databaseName reads the database from a URL path or a dbname= keyword.
func databaseName(raw string) string {
	raw = strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// traceableQuery folds a statement into the span text stored by otelsql.
// Inlined literals such as the LIMIT of a recent-form lookup are replaced
// with ? so spans for the same statement group together.
func traceableQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	query = queryWhitespace.ReplaceAllString(query, " ")
	query = queryString.ReplaceAllString(query, "'?'")
	query = queryNumber.ReplaceAllString(query, "${1}?")
	if len(query) <= maxTracedQueryLength {
		return query
	}
	return query[:maxTracedQueryLength] + "..."
}

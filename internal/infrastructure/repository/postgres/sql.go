package postgres

import (
	"strings"
)

// isBindParameterMismatch reports the pq error raised when a pooled connection
// reuses an unnamed statement prepared for a different query shape.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "prepared statement")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		(strings.Contains(msg, "prepared statement") && strings.Contains(msg, "26000"))
}

func isRetryableStatementError(err error) bool {
	return isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)
}

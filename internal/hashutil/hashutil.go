package hashutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// MD5Hex returns a trimmed-input MD5 hash encoded in hex, used for the
// classifier's ai_query_cache key (spec.md §4.3: "keyed by MD5 of
// name|domain"). MD5 is used here only as a short audit-cache key, never
// for anything security-sensitive.
func MD5Hex(input string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(input))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

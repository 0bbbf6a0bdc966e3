package hashutil_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cookieprobe/cookieprobe/internal/hashutil"
)

func TestMD5Hex(t *testing.T) {
	require.Equal(t, 32, len(hashutil.MD5Hex("_ga|example.com")))
	require.Equal(t, hashutil.MD5Hex("_ga|example.com"), hashutil.MD5Hex("_ga|example.com"))
	require.NotEqual(t, hashutil.MD5Hex("_ga|a.com"), hashutil.MD5Hex("_ga|b.com"))
}

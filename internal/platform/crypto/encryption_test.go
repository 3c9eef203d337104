package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	require.True(t, s.Configured())

	sealed, err := s.Seal(`[{"id":"p1","netPay":4400}]`)
	require.NoError(t, err)
	require.True(t, IsSealed(sealed))
	require.NotContains(t, sealed, "netPay")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"p1","netPay":4400}]`, plain)
}

func TestOpenPassesPlainText(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)

	plain, err := s.Open(`[]`)
	require.NoError(t, err)
	require.Equal(t, `[]`, plain)
}

func TestUnconfiguredSealer(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	require.False(t, s.Configured())

	out, err := s.Seal("value")
	require.NoError(t, err)
	require.Equal(t, "value", out)

	_, err = s.Open(SealedPrefix + "AAAA")
	require.Error(t, err)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New(strings.Repeat("a", 10))
	require.Error(t, err)
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal("secret")
	require.NoError(t, err)

	tampered := sealed[:len(sealed)-4] + "AAAA"
	_, err = s.Open(tampered)
	require.Error(t, err)
}

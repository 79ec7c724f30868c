package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/sentinel-id/sentinel/internal/testing/guard"
)

func TestInTestMode(t *testing.T) {
	// the guard import sets SENTINEL_TEST_MODE before any test runs
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())

	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())
}

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger("production"))
	require.NoError(t, InitLogger("development"))
	require.NotNil(t, GetLogger())
}

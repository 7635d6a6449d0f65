package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParametersSetGet(t *testing.T) {
	p := NewParameters()
	p.Set("D_a", 1e-6)

	v, ok := p.Get("D_a")
	require.True(t, ok)
	require.Equal(t, 1e-6, v)

	_, ok = p.Get("missing")
	require.False(t, ok)
}

func TestParametersMustGetPanicsOnMissing(t *testing.T) {
	p := NewParameters()
	require.Panics(t, func() { p.MustGet("nope") })
}

func TestDefaultNotifications(t *testing.T) {
	n := DefaultNotifications()
	require.Equal(t, VerbosityNormal, n.Verbosity)
	require.Equal(t, 1000, n.StatsEvery)
}

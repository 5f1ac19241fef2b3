package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombined_PoolsBothModels(t *testing.T) {
	ens := Ensemble{GFSMembers: []float64{74, 76}, ECMWFMembers: []float64{75}}
	mu, sigma, ok := ens.Combined()
	require.True(t, ok)
	assert.InDelta(t, 75.0, mu, 1e-9)
	assert.InDelta(t, 1.0, sigma, 1e-9) // desviación muestral de {74,76,75}
}

func TestCombined_SingleMemberFallbackStd(t *testing.T) {
	ens := Ensemble{ECMWFMembers: []float64{70}}
	mu, sigma, ok := ens.Combined()
	require.True(t, ok)
	assert.Equal(t, 70.0, mu)
	assert.Equal(t, 2.0, sigma)
}

func TestCombined_EmptyNotOK(t *testing.T) {
	_, _, ok := Ensemble{}.Combined()
	assert.False(t, ok)
}

func TestModelSpread(t *testing.T) {
	ens := Ensemble{GFSMembers: []float64{75, 77}, ECMWFMembers: []float64{74}}
	spread, ok := ens.ModelSpread()
	require.True(t, ok)
	assert.InDelta(t, 2.0, spread, 1e-9) // |76 − 74|
}

func TestModelSpread_MissingModel(t *testing.T) {
	_, ok := Ensemble{GFSMembers: []float64{75}}.ModelSpread()
	assert.False(t, ok)
}

func TestMemberCount(t *testing.T) {
	ens := Ensemble{GFSMembers: []float64{1, 2}, ECMWFMembers: []float64{3}}
	assert.Equal(t, 3, ens.MemberCount())
}

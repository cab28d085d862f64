package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioNames(t *testing.T) {
	names, err := portfolioNames([]string{"data/ira.csv", "data/invest.csv", "legacy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ira", "invest", "legacy"}, names)
}

func TestPortfolioNames_RejectsSameBaseName(t *testing.T) {
	_, err := portfolioNames([]string{"a/portfolio.csv", "b/portfolio.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b/portfolio.csv")
	assert.Contains(t, err.Error(), `"portfolio"`)
}

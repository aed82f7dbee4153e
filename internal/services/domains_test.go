package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainCreate_AndConflict(t *testing.T) {
	env := newTestEnv(t)

	domain, err := env.domains.Create(context.Background(), "Real Estate", "")
	require.NoError(t, err)
	require.Equal(t, "Real Estate analytics and insights", domain.Description)

	_, err = env.domains.Create(context.Background(), "Real Estate", "dup")
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.domains.Create(context.Background(), "   ", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestDomainList_OrdersByUsage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.domains.Create(context.Background(), "Alpha", "")
	require.NoError(t, err)
	busy, err := env.domains.Create(context.Background(), "Busy", "")
	require.NoError(t, err)
	require.NoError(t, env.domainRepo.IncrementUsage(context.Background(), nil, busy.ID))
	require.NoError(t, env.domainRepo.IncrementUsage(context.Background(), nil, busy.ID))

	domains, defaults, err := env.domains.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, env.cfg.Analytics.SupportedDomains, defaults)
	require.Equal(t, "Busy", domains[0].Name)
	for i := 1; i < len(domains); i++ {
		if domains[i-1].UsageCount == domains[i].UsageCount {
			require.LessOrEqual(t, domains[i-1].Name, domains[i].Name)
		} else {
			require.Greater(t, domains[i-1].UsageCount, domains[i].UsageCount)
		}
	}
}

package integration

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbprobe/internal/probe"
	"dbprobe/internal/storage"
	"dbprobe/internal/storage/factory"
)

func TestProbeAgainstServer(t *testing.T) {
	cfg := serverConfig(t)

	var attempts []storage.Config

	p := probe.New(probe.Options{
		Config:    cfg,
		Secondary: probe.DefaultSecondary,
		Open: func(ctx context.Context, c storage.Config) (storage.Inspector, error) {
			attempts = append(attempts, c)
			return factory.Open(ctx, c)
		},
	})

	report, err := p.Run(testContext(t))
	require.NoError(t, err)

	assert.NotEmpty(t, report.Version)
	assert.Equal(t, cfg.Database, report.CurrentDatabase)
	require.NotNil(t, report.Primary)
	assert.True(t, slices.IsSorted(report.Primary.Tables))

	if slices.Contains(report.Databases, probe.DefaultSecondary) {
		require.Len(t, attempts, 2)
		assert.Equal(t, probe.DefaultSecondary, attempts[1].Database)
		require.NotNil(t, report.Secondary)
		assert.True(t, slices.IsSorted(report.Secondary.Tables))
	} else {
		assert.Len(t, attempts, 1)
		assert.Nil(t, report.Secondary)
	}
}

func TestProbeOutputIsStable(t *testing.T) {
	cfg := serverConfig(t)

	render := func() string {
		p := probe.New(probe.Options{Config: cfg, Secondary: probe.DefaultSecondary, Open: factory.Open})
		report, err := p.Run(testContext(t))
		require.NoError(t, err)

		var buf bytes.Buffer
		probe.Render(&buf, report, err)
		return buf.String()
	}

	first := render()
	assert.Equal(t, first, render())
	assert.NotContains(t, first, cfg.Password)
}

func TestProbeWrongDatabase(t *testing.T) {
	cfg := serverConfig(t)
	if !cfg.Networked() {
		t.Skip("database names are file paths for this driver")
	}

	p := probe.New(probe.Options{
		Config: cfg.WithDatabase("dbprobe_no_such_database"),
		Open:   factory.Open,
	})
	_, err := p.Run(testContext(t))
	require.Error(t, err)
	assert.Equal(t, probe.KindOperational, probe.KindOf(err))
	assert.Equal(t, storage.ReasonDatabase, storage.ReasonOf(err))
}

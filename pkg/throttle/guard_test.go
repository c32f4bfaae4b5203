package throttle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veriot/trustgraph/pkg/record"
)

func slowConfig() record.SystemConfig {
	// 2 transactions per hour: the burst is consumed immediately and
	// refills far too slowly to matter within a test run.
	return record.SystemConfig{
		MaximumTransactionInterval: 3600,
		MaximumTransactionRate:     2,
		PunishmentThreshold:        3,
	}
}

func TestAllowWithinBurst(t *testing.T) {
	g := FromConfig(slowConfig())

	assert.True(t, g.Allow("A"))
	assert.True(t, g.Allow("A"))
	assert.False(t, g.Allow("A"))
}

func TestSendersAreMeteredIndependently(t *testing.T) {
	g := FromConfig(slowConfig())

	assert.True(t, g.Allow("A"))
	assert.True(t, g.Allow("A"))
	assert.False(t, g.Allow("A"))

	assert.True(t, g.Allow("B"))
}

func TestRepeatOffenderIsBanned(t *testing.T) {
	g := FromConfig(slowConfig())

	g.Allow("A")
	g.Allow("A")
	for i := 0; i < 3; i++ {
		assert.False(t, g.Allow("A"))
	}
	assert.True(t, g.Banned("A"))
	assert.False(t, g.Allow("A"))

	assert.False(t, g.Banned("B"))
}

func TestZeroThresholdNeverBans(t *testing.T) {
	cfg := slowConfig()
	cfg.PunishmentThreshold = 0
	g := FromConfig(cfg)

	g.Allow("A")
	g.Allow("A")
	for i := 0; i < 10; i++ {
		g.Allow("A")
	}
	assert.False(t, g.Banned("A"))
}

func TestDegenerateConfigStillAdmitsOne(t *testing.T) {
	g := FromConfig(record.SystemConfig{})

	assert.True(t, g.Allow("A"))
}

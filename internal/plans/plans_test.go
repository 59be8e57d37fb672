package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanGenerate(t *testing.T) {
	ok, _ := CanGenerate(PlanFree, 0)
	assert.True(t, ok)

	ok, reason := CanGenerate(PlanFree, 5)
	assert.False(t, ok)
	assert.Contains(t, reason, "monthly limit of 5")

	ok, _ = CanGenerate(PlanStarter, 49)
	assert.True(t, ok)
	ok, _ = CanGenerate(PlanStarter, 50)
	assert.False(t, ok)

	// Pro is unlimited.
	ok, _ = CanGenerate(PlanPro, 1_000_000)
	assert.True(t, ok)
}

func TestRemainingGenerations(t *testing.T) {
	assert.Equal(t, 5, RemainingGenerations(PlanFree, 0))
	assert.Equal(t, 0, RemainingGenerations(PlanFree, 5))
	assert.Equal(t, 0, RemainingGenerations(PlanFree, 9))
	assert.Equal(t, Unlimited, RemainingGenerations(PlanPro, 3))
}

func TestLimits_UnknownPlanFallsBackToFree(t *testing.T) {
	assert.Equal(t, Limits(PlanFree), Limits(PlanType("enterprise")))
	assert.False(t, PlanType("enterprise").Valid())
	assert.True(t, PlanStarter.Valid())
}

func TestExportGating(t *testing.T) {
	assert.False(t, Limits(PlanFree).ExportEnabled)
	assert.True(t, Limits(PlanStarter).ExportEnabled)
	assert.True(t, Limits(PlanPro).ExportEnabled)
}

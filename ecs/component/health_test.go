package component

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeDamageOverkillKillsOnce(t *testing.T) {
	h := NewHealth(1000, 0.5)

	outcome := h.TakeDamage(1500, false)
	require.Equal(t, DamageKilled, outcome)
	assert.Equal(t, 0.0, h.Current)
	assert.True(t, h.Dead)

	deaths := 1
	for i := 0; i < 5; i++ {
		if h.TakeDamage(10, i%2 == 0) == DamageKilled {
			deaths++
		}
	}
	assert.Equal(t, 1, deaths, "death signal must be emitted exactly once")
	assert.Equal(t, 0.0, h.Current)
}

func TestTakeDamageInvulnerability(t *testing.T) {
	tests := []struct {
		name    string
		bypass  bool
		want    DamageOutcome
		current float64
	}{
		{"blocked_while_invulnerable", false, DamageIgnored, 900},
		{"bypass_lands_while_invulnerable", true, DamageApplied, 800},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealth(1000, 0.5)
			require.Equal(t, DamageApplied, h.TakeDamage(100, false))
			require.True(t, h.Invulnerable)

			assert.Equal(t, tc.want, h.TakeDamage(100, tc.bypass))
			assert.Equal(t, tc.current, h.Current)
		})
	}
}

func TestBypassDoesNotOpenWindow(t *testing.T) {
	h := NewHealth(1000, 0.5)
	require.Equal(t, DamageApplied, h.TakeDamage(500, true))
	assert.False(t, h.Invulnerable)
	assert.Equal(t, DamageApplied, h.TakeDamage(100, false))
}

func TestInvulnerabilityWindowIsSingleFlight(t *testing.T) {
	h := NewHealth(1000, 0.5)
	h.TakeDamage(100, false)
	require.False(t, h.TickInvulnerability(0.25))

	// A bypassing hit mid-window neither extends nor restarts it.
	h.TakeDamage(100, true)
	assert.InDelta(t, 0.25, h.IFrameRemaining, 1e-9)
	assert.False(t, h.startInvulnerability())

	assert.True(t, h.TickInvulnerability(0.25))
	assert.False(t, h.Invulnerable)
	assert.Equal(t, DamageApplied, h.TakeDamage(100, false))
}

func TestHealthBoundsHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		h := NewHealth(1000, 0.2)
		deaths := 0
		for step := 0; step < 200; step++ {
			switch rng.Intn(3) {
			case 0:
				if h.TakeDamage(rng.Float64()*400-50, rng.Intn(4) == 0) == DamageKilled {
					deaths++
				}
			case 1:
				h.TickInvulnerability(rng.Float64() * 0.1)
			default:
				wasDead := h.Dead
				if h.TakeDamage(rng.Float64()*50, false) == DamageKilled {
					deaths++
				}
				if wasDead {
					require.True(t, h.Dead, "dead must be monotonic")
				}
			}
			require.GreaterOrEqual(t, h.Current, 0.0)
			require.LessOrEqual(t, h.Current, h.Max)
			if h.Dead {
				require.Equal(t, 0.0, h.Current)
			}
		}
		require.LessOrEqual(t, deaths, 1)
	}
}

func TestResetForNewRound(t *testing.T) {
	h := NewHealth(300, 0.5)
	h.TakeDamage(400, false)
	require.True(t, h.Dead)

	h.ResetForNewRound()
	assert.False(t, h.Dead)
	assert.False(t, h.Invulnerable)
	assert.Equal(t, 300.0, h.Current)
	assert.Equal(t, 1.0, h.Fraction())
}

func TestCooldown(t *testing.T) {
	c := Cooldown{Duration: 0.8}
	require.True(t, c.Ready())
	c.Start()
	assert.False(t, c.Ready())
	c.Tick(0.5)
	assert.False(t, c.Ready())
	c.Tick(0.5)
	assert.True(t, c.Ready())
	assert.Equal(t, 0.0, c.Remaining)
}

func TestAttackProfileGapReportedOnce(t *testing.T) {
	p := &AttackProfile{}
	assert.Nil(t, p.Spec(AttackCrouch))
	assert.True(t, p.MarkGapReported(AttackCrouch))
	assert.False(t, p.MarkGapReported(AttackCrouch))
	assert.True(t, p.MarkGapReported(AttackUltimate))
}

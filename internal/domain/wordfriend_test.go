package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestApplyExperience(t *testing.T) {
	tests := []struct {
		name          string
		level         int
		exp           int
		delta         int
		require       int
		expected      LevelProgress
		expectedError bool
	}{
		{
			name:     "crosses threshold",
			level:    2,
			exp:      80,
			delta:    30,
			require:  100,
			expected: LevelProgress{Level: 3, Exp: 10, LeveledUp: true},
		},
		{
			name:     "stays below threshold",
			level:    2,
			exp:      80,
			delta:    10,
			require:  100,
			expected: LevelProgress{Level: 2, Exp: 90},
		},
		{
			name:     "exactly meets threshold",
			level:    0,
			exp:      50,
			delta:    50,
			require:  100,
			expected: LevelProgress{Level: 1, Exp: 0, LeveledUp: true},
		},
		{
			name:     "large delta advances a single level",
			level:    1,
			exp:      0,
			delta:    350,
			require:  100,
			expected: LevelProgress{Level: 2, Exp: 50, LeveledUp: true},
		},
		{
			name:     "zero delta",
			level:    4,
			exp:      12,
			delta:    0,
			require:  100,
			expected: LevelProgress{Level: 4, Exp: 12},
		},
		{
			name:          "broken requirement",
			level:         1,
			require:       0,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyExperience(tt.level, tt.exp, tt.delta, tt.require)

			if tt.expectedError {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestApplyExperience_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("level advances by at most one", prop.ForAll(
		func(level, exp, delta, require int) bool {
			p, err := ApplyExperience(level, exp, delta, require)
			return err == nil && (p.Level == level || p.Level == level+1)
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 999),
		gen.IntRange(0, 5000),
		gen.IntRange(1, 1000),
	))

	properties.Property("remaining experience stays below the requirement after a level-up", prop.ForAll(
		func(exp, delta, require int) bool {
			p, err := ApplyExperience(3, exp, delta, require)
			if err != nil {
				return false
			}
			if p.LeveledUp {
				return p.Exp < require
			}
			return p.Exp == exp+delta && p.Exp < require
		},
		gen.IntRange(0, 999),
		gen.IntRange(0, 5000),
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t)
}

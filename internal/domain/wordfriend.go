package domain

import "fmt"

// WordFriend is a gamified companion that gains experience and levels up
type WordFriend struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	Exp      int    `json:"exp"`
}

// LevelConfig holds the experience required to reach Level
type LevelConfig struct {
	Level      int `json:"level"`
	ExpRequire int `json:"exp_require"`
}

// LevelProgress is the outcome of adding experience to a word friend
type LevelProgress struct {
	WordFriendID int64 `json:"word_friend_id"`
	Level        int   `json:"level"`
	Exp          int   `json:"exp"`
	LeveledUp    bool  `json:"leveled_up"`
}

// ApplyExperience adds delta to exp and evaluates at most one level-up.
// require is the experience needed to reach level+1. When the total meets
// it, the level advances by one and the remainder (total mod require) is
// kept; a delta large enough to cross several thresholds still advances a
// single level.
func ApplyExperience(level, exp, delta, require int) (LevelProgress, error) {
	if require <= 0 {
		return LevelProgress{}, fmt.Errorf("%w: level %d requires %d experience", ErrInvalidArgument, level+1, require)
	}

	total := exp + delta
	if total >= require {
		return LevelProgress{Level: level + 1, Exp: total % require, LeveledUp: true}, nil
	}
	return LevelProgress{Level: level, Exp: total}, nil
}

package domain

// Achievement is a per-user achievement record.
// Active only ever moves from false to true.
type Achievement struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Active      bool   `json:"is_active"`
}

// Achievement names
const (
	AchievementPerseverance     = "Perseverance"
	AchievementVocabularyMaster = "Vocabulary Master"
	AchievementSpeedMemorizer   = "Speed Memorizer"
	AchievementLimitBreaker     = "Limit Breaker"
)

// LearningStats is the aggregated state achievement rules are evaluated against
type LearningStats struct {
	Streak        int
	MasteredWords int
	MasteredToday int
}

// Metric selects the LearningStats field a rule compares against
type Metric int

const (
	MetricStreak Metric = iota
	MetricMasteredWords
	MetricMasteredToday
)

// AchievementRule unlocks an achievement once its metric reaches Threshold.
type AchievementRule struct {
	Name        string
	Description string
	Icon        string
	Metric      Metric
	Threshold   int
}

// Satisfied reports whether stats meet the rule
func (r AchievementRule) Satisfied(stats LearningStats) bool {
	switch r.Metric {
	case MetricStreak:
		return stats.Streak >= r.Threshold
	case MetricMasteredWords:
		return stats.MasteredWords >= r.Threshold
	case MetricMasteredToday:
		return stats.MasteredToday >= r.Threshold
	}
	return false
}

// AchievementCatalog is the fixed, ordered rule set seeded for every user.
var AchievementCatalog = []AchievementRule{
	{
		Name:        AchievementPerseverance,
		Description: "Study 30 days in a row",
		Icon:        "🔥",
		Metric:      MetricStreak,
		Threshold:   30,
	},
	{
		Name:        AchievementVocabularyMaster,
		Description: "Master 500 words",
		Icon:        "📚",
		Metric:      MetricMasteredWords,
		Threshold:   500,
	},
	{
		Name:        AchievementSpeedMemorizer,
		Description: "Memorize 50 words in a single day",
		Icon:        "⚡",
		Metric:      MetricMasteredToday,
		Threshold:   50,
	},
	{
		Name:        AchievementLimitBreaker,
		Description: "Study 100 days in a row",
		Icon:        "🚀",
		Metric:      MetricStreak,
		Threshold:   100,
	},
}

// SeedAchievements returns the inactive catalog entries for a new user
func SeedAchievements(userID int64) []Achievement {
	out := make([]Achievement, 0, len(AchievementCatalog))
	for _, r := range AchievementCatalog {
		out = append(out, Achievement{
			UserID:      userID,
			Name:        r.Name,
			Description: r.Description,
			Icon:        r.Icon,
		})
	}
	return out
}

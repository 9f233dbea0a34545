package domain

import "time"

// User is a learner identified by an external openid
type User struct {
	UserID                  int64     `json:"user_id"`
	Username                string    `json:"username"`
	Email                   string    `json:"email,omitempty"`
	AvatarURL               string    `json:"avatar_url,omitempty"`
	WechatOpenID            string    `json:"wechat_openid"`
	WechatSessionKey        string    `json:"-"`
	WalletKey               string    `json:"wallet_key"`
	WordPower               int64     `json:"word_power_amount"`
	PreferredClassification string    `json:"preferred_classification"`
	Deleted                 bool      `json:"-"`
	CreatedAt               time.Time `json:"created_at"`
}

// UserUpdate lists the fields a user may change; nil fields are left untouched
type UserUpdate struct {
	Email                   *string `json:"email"`
	AvatarURL               *string `json:"avatar_url"`
	PreferredClassification *string `json:"preferred_classification"`
}

// Empty reports whether the update changes nothing
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.AvatarURL == nil && u.PreferredClassification == nil
}

// UserSummary combines the user's first word friend with learning totals
type UserSummary struct {
	WordFriend       WordFriend `json:"word_friend"`
	NextLevelRequire int        `json:"next_level_require"`
	LearningDays     int        `json:"learning_days"`
	MasteredWords    int        `json:"mastery_word_count"`
	WordPower        int64      `json:"word_power_amount"`
}

// Identity is the result of exchanging a login code with the identity provider
type Identity struct {
	OpenID     string
	SessionKey string
}

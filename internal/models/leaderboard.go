package models

type LeaderboardItem struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username,omitempty"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}

type LeaderboardResponse struct {
	Leaderboard  []*LeaderboardItem `json:"leaderboard"`
	Participants int64              `json:"participants"`
	Me           *LeaderboardItem   `json:"me"`
}

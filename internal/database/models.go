package database

// MatchResult is one finished match as stored in the match_results table.
// Player3/Player4 are empty strings for 2- and 3-seat matches.
type MatchResult struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	RoomCode     string `json:"room_code"`
	Player1      string `json:"player1"`
	Player2      string `json:"player2"`
	Player3      string `json:"player3"`
	Player4      string `json:"player4"`
	Player1Score int    `json:"player1_score"`
	Player2Score int    `json:"player2_score"`
	Player3Score int    `json:"player3_score"`
	Player4Score int    `json:"player4_score"`
	Winner       string `json:"winner"`
	TargetScore  int    `json:"target_score"`
}

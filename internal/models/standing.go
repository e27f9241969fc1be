package models

import "time"

type TeamStanding struct {
	Rank             int        `json:"rank"`
	TeamID           int        `json:"team_id"`
	TeamName         string     `json:"team_name"`
	SlotAScore       int        `json:"slot_a_score"`
	SlotBScore       int        `json:"slot_b_score"`
	TotalScore       int        `json:"total_score"`
	SlotAAttempts    int        `json:"slot_a_attempts"`
	SlotBAttempts    int        `json:"slot_b_attempts"`
	CompletionTime   *time.Time `json:"completion_time"`
	TimeTakenSeconds *int64     `json:"time_taken_seconds"`
	RewardLink       string     `json:"reward_link,omitempty"`
}

package models

import "time"

type Question struct {
	ID          int    `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Difficulty  string `db:"difficulty" json:"difficulty"`
	Description string `db:"description" json:"description"`
	Constraints string `db:"constraints" json:"constraints"`
}

type TestCase struct {
	ID             int    `db:"id" json:"id"`
	QuestionID     int    `db:"question_id" json:"question_id"`
	Input          string `db:"input" json:"input"`
	ExpectedOutput string `db:"expected_output" json:"expected_output"`
}

// RoundAssignment is what a team receives when its round starts.
type RoundAssignment struct {
	SlotAQuestion *Question `json:"slot_a_question"`
	SlotBQuestion *Question `json:"slot_b_question"`
	SlotAScore    int       `json:"slot_a_score"`
	SlotBScore    int       `json:"slot_b_score"`
	SlotAAttempts int       `json:"slot_a_attempts"`
	SlotBAttempts int       `json:"slot_b_attempts"`
}

func (r *RoundAssignment) SetQuestion(slot Slot, q *Question) {
	if slot == SlotA {
		r.SlotAQuestion = q
	} else {
		r.SlotBQuestion = q
	}
}

type AssignedQuestions struct {
	RoundAssignment
	RoundStartTime   *time.Time `json:"round_start_time"`
	CompletionTime   *time.Time `json:"completion_time"`
	TimeTakenSeconds *int64     `json:"time_taken_seconds"`
}

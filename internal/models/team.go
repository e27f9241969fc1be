package models

import (
	"errors"
	"strings"
	"time"
)

type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

var Slots = []Slot{SlotA, SlotB}

// Other returns the slot that is not s.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

type Team struct {
	ID              int        `db:"id" json:"id"`
	TeamName        string     `db:"team_name" json:"team_name"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	SlotAQuestionID *int       `db:"slot_a_question_id" json:"slot_a_question_id"`
	SlotBQuestionID *int       `db:"slot_b_question_id" json:"slot_b_question_id"`
	SlotAScore      int        `db:"slot_a_score" json:"slot_a_score"`
	SlotBScore      int        `db:"slot_b_score" json:"slot_b_score"`
	SlotAAttempts   int        `db:"slot_a_attempts" json:"slot_a_attempts"`
	SlotBAttempts   int        `db:"slot_b_attempts" json:"slot_b_attempts"`
	RoundStartTime  *time.Time `db:"round_start_time" json:"round_start_time"`
	CompletionTime  *time.Time `db:"completion_time" json:"completion_time"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

func (t *Team) QuestionID(slot Slot) *int {
	if slot == SlotA {
		return t.SlotAQuestionID
	}
	return t.SlotBQuestionID
}

func (t *Team) Score(slot Slot) int {
	if slot == SlotA {
		return t.SlotAScore
	}
	return t.SlotBScore
}

func (t *Team) Attempts(slot Slot) int {
	if slot == SlotA {
		return t.SlotAAttempts
	}
	return t.SlotBAttempts
}

func (t *Team) SetQuestionID(slot Slot, questionID int) {
	id := questionID
	if slot == SlotA {
		t.SlotAQuestionID = &id
	} else {
		t.SlotBQuestionID = &id
	}
}

// SetResult stores a slot's latest score and attempt count.
func (t *Team) SetResult(slot Slot, score, attempts int) {
	if slot == SlotA {
		t.SlotAScore, t.SlotAAttempts = score, attempts
	} else {
		t.SlotBScore, t.SlotBAttempts = score, attempts
	}
}

// SlotFor returns the slot holding questionID, if any.
func (t *Team) SlotFor(questionID int) (Slot, bool) {
	for _, slot := range Slots {
		if id := t.QuestionID(slot); id != nil && *id == questionID {
			return slot, true
		}
	}
	return "", false
}

// AllSolved reports whether every assigned slot scores 100. A team with no
// assigned slot is never solved.
func (t *Team) AllSolved() bool {
	assigned := 0
	for _, slot := range Slots {
		if t.QuestionID(slot) == nil {
			continue
		}
		assigned++
		if t.Score(slot) != 100 {
			return false
		}
	}
	return assigned > 0
}

// ElapsedSeconds is completion minus start when completed, now minus start
// while running, and nil before the round starts.
func ElapsedSeconds(start, completion *time.Time, now time.Time) *int64 {
	if start == nil {
		return nil
	}
	end := now
	if completion != nil {
		end = *completion
	}
	secs := int64(end.Sub(*start) / time.Second)
	return &secs
}

type SignupRequest struct {
	TeamName string `json:"team_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *SignupRequest) Validate() error {
	name := strings.TrimSpace(r.TeamName)
	if name == "" {
		return errors.New("team name cannot be empty")
	}
	if len(name) < 3 || len(name) > 50 {
		return errors.New("team name must be between 3 and 50 characters")
	}
	if len(r.Password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

type LoginRequest struct {
	TeamName string `json:"team_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TeamRequest struct {
	TeamID int `json:"team_id" binding:"required"`
}

type TimerResult struct {
	RoundStartTime time.Time `json:"round_start_time"`
}

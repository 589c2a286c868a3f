package models

import (
	"errors"
	"time"
)

var (
	ErrAlreadyVoted     = errors.New("user has already voted in this election")
	ErrAnswerRequired   = errors.New("required question has no answer")
	ErrTooManyAnswers   = errors.New("answer exceeds max selections")
	ErrUnknownQuestion  = errors.New("answer references an unknown question")
	ErrUnknownOption    = errors.New("answer references an unknown option")
	ErrDuplicateOption  = errors.New("answer lists the same option twice")
	ErrEmptySubmission  = errors.New("submission has no answers")
)

// AnswerMap maps question ids to the selected option ids, in the voter's
// chosen order (order carries meaning for ranked_choice ballots).
type AnswerMap map[string][]string

// Vote is a committed, immutable ballot. At most one exists per
// (election_id, user_id); the storage boundary enforces this.
type Vote struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	UserID      int64     `json:"user_id"`
	Answers     AnswerMap `json:"answers"`
	ReceiptCode string    `json:"receipt_code"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// VoteReceipt is what the voter gets back after a successful submission.
type VoteReceipt struct {
	VoteID        string    `json:"vote_id"`
	ElectionID    string    `json:"election_id"`
	ReceiptCode   string    `json:"receipt_code"`
	SubmittedAt   time.Time `json:"submitted_at"`
	LotteryTicket bool      `json:"lottery_ticket"`
}

// ValidateAnswers checks a submission's shape against the election's
// questions: required coverage, selection caps, option membership.
func ValidateAnswers(e *Election, answers AnswerMap) error {
	if len(answers) == 0 {
		return ErrEmptySubmission
	}

	for questionID, optionIDs := range answers {
		q, ok := e.Question(questionID)
		if !ok {
			return ErrUnknownQuestion
		}
		if len(optionIDs) > q.MaxSelections {
			return ErrTooManyAnswers
		}
		seen := make(map[string]struct{}, len(optionIDs))
		for _, optionID := range optionIDs {
			if _, ok := q.Option(optionID); !ok {
				return ErrUnknownOption
			}
			if _, dup := seen[optionID]; dup {
				return ErrDuplicateOption
			}
			seen[optionID] = struct{}{}
		}
	}

	for _, q := range e.Questions {
		if q.Required && len(answers[q.ID]) == 0 {
			return ErrAnswerRequired
		}
	}

	return nil
}

// PaymentStatus mirrors the gateway's verdict on the participation fee.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentRecord is the stored payment fact consumed by eligibility checks.
type PaymentRecord struct {
	ElectionID string        `json:"election_id"`
	UserID     int64         `json:"user_id"`
	Status     PaymentStatus `json:"status"`
}

// VideoProgress is the stored watch fact. Watch percentage is by convention
// monotonically non-decreasing; the store keeps the maximum seen.
type VideoProgress struct {
	ElectionID      string  `json:"election_id"`
	UserID          int64   `json:"user_id"`
	WatchPercentage float64 `json:"watch_percentage"`
}

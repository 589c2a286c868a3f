package models

import (
	"errors"
	"time"
)

var (
	ErrElectionNotEditable = errors.New("election can no longer be edited")
	ErrElectionEnded       = errors.New("election has ended")
	ErrVotingClosed        = errors.New("voting window is not open")
)

// ElectionStatus represents the stored lifecycle status of an election.
type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "draft"
	ElectionStatusPublished ElectionStatus = "published"
	ElectionStatusActive    ElectionStatus = "active"
	ElectionStatusCompleted ElectionStatus = "completed"
	ElectionStatusCancelled ElectionStatus = "cancelled"
)

// Phase is the temporal classification of an election at a given instant.
// It is derived, never stored: draft status always wins over time.
type Phase string

const (
	PhaseDraft    Phase = "draft"
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhaseEnded    Phase = "ended"
)

// PricingType selects exactly one authoritative fee branch.
type PricingType string

const (
	PricingFree     PricingType = "free"
	PricingGeneral  PricingType = "general_fee"
	PricingRegional PricingType = "regional_fee"
)

// PermissionType restricts who may participate.
type PermissionType string

const (
	PermissionPublic          PermissionType = "public"
	PermissionCountrySpecific PermissionType = "country_specific"
	PermissionOrganization    PermissionType = "organization_only"
)

// VotingType selects the ballot semantics.
type VotingType string

const (
	VotingPlurality    VotingType = "plurality"
	VotingRankedChoice VotingType = "ranked_choice"
	VotingApproval     VotingType = "approval"
)

// RegionalPrice is one entry of the regional fee table declared by the
// creator. The first entry doubles as the documented fallback when the
// voter's region matches none.
type RegionalPrice struct {
	RegionCode       string  `json:"region_code"`
	ParticipationFee float64 `json:"participation_fee"`
	Currency         string  `json:"currency"`
}

// QuestionOption is a single selectable answer.
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one ballot question with its ordered options.
type Question struct {
	ID            string           `json:"id"`
	Text          string           `json:"text"`
	Required      bool             `json:"required"`
	MaxSelections int              `json:"max_selections"`
	Options       []QuestionOption `json:"options"`
}

// Option returns the option with the given id, if the question has it.
func (q *Question) Option(optionID string) (*QuestionOption, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// Election is the full creator-configured election document.
type Election struct {
	ID        string         `json:"id"`
	CreatorID int64          `json:"creator_id"`
	Title     string         `json:"title"`
	Status    ElectionStatus `json:"status"`

	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Timezone string    `json:"timezone"`

	PricingType             PricingType     `json:"pricing_type"`
	GeneralFee              float64         `json:"general_fee"`
	ProcessingFeePercentage float64         `json:"processing_fee_percentage"`
	RegionalPrices          []RegionalPrice `json:"regional_prices,omitempty"`

	VideoRequired          bool    `json:"video_required"`
	MinimumWatchPercentage float64 `json:"minimum_watch_percentage"`

	PermissionType   PermissionType `json:"permission_type"`
	AllowedCountries []string       `json:"allowed_countries,omitempty"`

	VotingType VotingType `json:"voting_type"`
	Questions  []Question `json:"questions"`

	Lottery *LotteryConfig `json:"lottery_config,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Question returns the question with the given id.
func (e *Election) Question(questionID string) (*Question, bool) {
	for i := range e.Questions {
		if e.Questions[i].ID == questionID {
			return &e.Questions[i], true
		}
	}
	return nil, false
}

// AllowsCountry reports whether a voter country passes the permission gate.
// Public and organization-gated elections do not restrict by country here;
// organization membership is checked upstream.
func (e *Election) AllowsCountry(country string) bool {
	if e.PermissionType != PermissionCountrySpecific {
		return true
	}
	for _, c := range e.AllowedCountries {
		if c == country {
			return true
		}
	}
	return false
}

// HasLottery reports whether the election is gamified.
func (e *Election) HasLottery() bool {
	return e.Lottery != nil
}

// Validate checks the structural invariants of the configuration. Exactly
// one pricing branch is authoritative; regional_prices is non-empty iff
// pricing_type is regional_fee.
func (e *Election) Validate() error {
	if e.Title == "" {
		return newConfigError("title is required")
	}
	if !e.EndsAt.After(e.StartsAt) {
		return newConfigError("ends_at must be after starts_at")
	}

	switch e.PricingType {
	case PricingFree:
	case PricingGeneral:
		if e.GeneralFee < 0 {
			return newConfigError("general_fee must not be negative")
		}
	case PricingRegional:
		if len(e.RegionalPrices) == 0 {
			return newConfigError("regional pricing requires at least one regional price")
		}
		for _, rp := range e.RegionalPrices {
			if rp.RegionCode == "" {
				return newConfigError("regional price region_code is required")
			}
			if rp.ParticipationFee < 0 {
				return newConfigError("regional participation_fee must not be negative")
			}
		}
	default:
		return newConfigError("unknown pricing_type: " + string(e.PricingType))
	}
	if e.PricingType != PricingRegional && len(e.RegionalPrices) > 0 {
		return newConfigError("regional_prices set but pricing_type is not regional_fee")
	}
	if e.ProcessingFeePercentage < 0 {
		return newConfigError("processing_fee_percentage must not be negative")
	}

	if e.MinimumWatchPercentage < 0 || e.MinimumWatchPercentage > 100 {
		return newConfigError("minimum_watch_percentage must be within 0-100")
	}

	if e.PermissionType == PermissionCountrySpecific && len(e.AllowedCountries) == 0 {
		return newConfigError("country_specific permission requires allowed_countries")
	}

	if len(e.Questions) == 0 {
		return newConfigError("at least one question is required")
	}
	seenQuestions := make(map[string]struct{}, len(e.Questions))
	for _, q := range e.Questions {
		if q.ID == "" || q.Text == "" {
			return newConfigError("question id and text are required")
		}
		if _, dup := seenQuestions[q.ID]; dup {
			return newConfigError("duplicate question id: " + q.ID)
		}
		seenQuestions[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return newConfigError("question " + q.ID + " needs at least two options")
		}
		if q.MaxSelections < 1 {
			return newConfigError("question " + q.ID + " max_selections must be at least 1")
		}
		seenOptions := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return newConfigError("option id is required in question " + q.ID)
			}
			if _, dup := seenOptions[o.ID]; dup {
				return newConfigError("duplicate option id " + o.ID + " in question " + q.ID)
			}
			seenOptions[o.ID] = struct{}{}
		}
	}

	if e.Lottery != nil {
		if err := e.Lottery.Validate(); err != nil {
			return err
		}
	}

	return nil
}

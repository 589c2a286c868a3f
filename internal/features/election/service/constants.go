package service

import "time"

const (
	// StartGraceWindow absorbs clock skew between the client and the voting
	// window open. It applies to the start boundary only, never the end.
	StartGraceWindow = 60 * time.Second

	// Draw sweeper tuning.
	MaxConcurrentDraws    = 10
	DrawProcessingTimeout = 2 * time.Minute
	DrawLockTimeout       = 30 * time.Second

	// Vote and draw commits get one bounded attempt; retries are the
	// caller's job because the engine must not risk duplicate side effects.
	CommitTimeout = 10 * time.Second

	// DefaultCurrency applies to free and general-fee elections; regional
	// prices carry their own currency.
	DefaultCurrency = "USD"
)

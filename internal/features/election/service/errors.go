package service

import "errors"

// Custom errors for election service
var (
	ErrNotFound    = errors.New("election not found")
	ErrNotOwner    = errors.New("you are not the owner of this election")
	ErrNoLottery   = errors.New("election has no lottery configured")
	ErrNotEndedYet = errors.New("election has not ended yet")
)

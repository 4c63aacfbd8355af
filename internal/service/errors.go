package service

import (
	"errors"
)

// Domain validation errors. They surface to the API layer unmodified and
// are translated to HTTP statuses there; messages are user-facing.
var (
	// ErrInvalidCode means the verification code resolves to no document.
	ErrInvalidCode = errors.New("invalid verification code: the document does not exist")

	// ErrAlreadyVerified means the document already carries a verified flag.
	ErrAlreadyVerified = errors.New("this document has already been verified")

	// ErrRewardNotFound means the reward is missing or inactive.
	ErrRewardNotFound = errors.New("the requested reward does not exist or is not available")

	// ErrInsufficientPoints means the profile balance is below the reward
	// threshold. Wrapped instances carry the missing point count.
	ErrInsufficientPoints = errors.New("not enough points to claim this reward")

	// ErrAlreadyClaimed means the (user, reward) pair was claimed before.
	ErrAlreadyClaimed = errors.New("you have already claimed this reward")

	// ErrNotRanked means the user has no leaderboard entry for the period.
	ErrNotRanked = errors.New("no ranking data found for this period")
)

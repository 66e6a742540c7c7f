package service

import "errors"

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")

	// ErrInvalidInput marks a request that failed validation.
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotToday         = errors.New("only today's record can be modified")
	ErrProfileRequired  = errors.New("complete your profile first")
	ErrPlanNotFound     = errors.New("no weekly plan generated yet")
	ErrInvalidDetailKey = errors.New("detail key does not belong to this day's plan")
	ErrNotLoggedIn      = errors.New("not logged in")
)

package services

import "errors"

// Business-outcome errors. Handlers map these onto 4xx responses; anything
// else is a server fault. Messages are what the client sees.
var (
	ErrUserNotFound          = errors.New("User not found")
	ErrUserSuspended         = errors.New("User account is suspended")
	ErrTaskNotFound          = errors.New("Task not found")
	ErrTaskInactive          = errors.New("Task is no longer active")
	ErrAlreadyCompleted      = errors.New("You have already completed this one-time task")
	ErrAlreadyCompletedToday = errors.New("You have already completed this task today")
	ErrJobNotFound           = errors.New("Job not found")
	ErrDuplicateApplication  = errors.New("You have already applied for this job")
	ErrApplicationNotFound   = errors.New("Application not found")
	ErrReferralNotFound      = errors.New("Referral code not found")
	ErrAlreadyReferred       = errors.New("This user has already redeemed a referral")
	ErrSelfReferral          = errors.New("You cannot redeem your own referral code")
)

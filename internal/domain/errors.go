package domain

import "errors"

var (
	// ErrNoActiveCampaign is returned when no campaign configuration is marked active.
	ErrNoActiveCampaign = errors.New("no active campaign")
	// ErrCampaignNotStarted is returned while the campaign is still on day 0.
	ErrCampaignNotStarted = errors.New("campaign not started")
	// ErrInvalidDay indicates a day outside the campaign's range.
	ErrInvalidDay = errors.New("day out of campaign range")
	// ErrInvalidSchedule indicates a rejected start date or duration.
	ErrInvalidSchedule = errors.New("invalid campaign schedule")

	// ErrUserNotFound is returned when the authenticated user id is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuestionNotAssigned means the question is in none of the user's slots.
	ErrQuestionNotAssigned = errors.New("question not assigned to user")
	// ErrQuestionNotYetUnlocked means the question belongs to a future campaign day.
	ErrQuestionNotYetUnlocked = errors.New("question not yet unlocked")
	// ErrAlreadyAnswered is returned when the slot was already answered correctly.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrInvalidChoice is returned for a choice index outside 0..ChoiceCount-1.
	ErrInvalidChoice = errors.New("choice index out of range")
	// ErrQuestionNotFound indicates an assigned question id has no stored question.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrClassNotFound is returned when a (class, school) pair has no students.
	ErrClassNotFound = errors.New("class not found")
)

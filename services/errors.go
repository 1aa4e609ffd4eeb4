package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailNotVerified      = errors.New("email address is not verified")
	ErrInvalidVerification   = errors.New("verification code is invalid")
	ErrCompetitionNotDraft   = errors.New("competition already has a generated draw")
	ErrCompetitionNotStarted = errors.New("competition draw has not been generated yet")
	ErrGroupStageIncomplete  = errors.New("group stage is not complete")
	ErrKnockoutAlreadyBuilt  = errors.New("knockout stage has already been generated")
	ErrNotGroupsFormat       = errors.New("competition format has no group stage")
	ErrParticipantsLocked    = errors.New("participant list is frozen once a draw exists")
	ErrTeamRosterRequired    = errors.New("team must have at least one player")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrMatchConflict     = errors.New("match was already completed or cancelled")

	// Authentication and authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Entity specific lookups
	ErrUserNotFound        = errors.New("user not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrDivisionNotFound    = errors.New("division not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrMatchNotFound       = errors.New("match not found")

	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrInvalidStatusTransition    = errors.New("invalid status transition")
)

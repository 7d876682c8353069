package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrUserDeleted    = errors.New("user account is deleted")

	// Game room errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is full")
	ErrGameNameExists    = errors.New("a game with this name already exists")
	ErrNotInGame         = errors.New("user is not in this game")
	ErrNotCreator        = errors.New("only the game creator can perform this action")
	ErrPasswordRequired  = errors.New("game password required")
	ErrWrongGamePassword = errors.New("incorrect game password")

	// Chat errors
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrUnknownCommand    = errors.New("unknown command")

	// Validation errors; wrap with fmt.Errorf("%w: ...") for detail
	ErrValidation = errors.New("validation failed")
)

package application

import "errors"

// Link errors. The HTTP layer maps each of these to a stable error code.
var (
	ErrMissingCode          = errors.New("link code is empty")
	ErrInvalidCode          = errors.New("link code is invalid, expired or already used")
	ErrAlreadyLinkedDiscord = errors.New("discord account is already linked")
	ErrAlreadyLinkedRoblox  = errors.New("roblox account is already linked to another discord account")
	ErrPlayerNotLinked      = errors.New("player is not linked")
)

// Command queue errors.
var (
	ErrUnknownCommandKind = errors.New("unknown command kind")
	ErrCommandNotFound    = errors.New("command not found")
)

var ErrInvalidRobloxID = errors.New("roblox user id must be positive")

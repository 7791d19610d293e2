package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// NOTE: Error status code must start from 2.
var (
	// ErrUnauthorized is returned when the caller lacks the admin or owner right.
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")
	// ErrNotFound is returned when no record exists for the key.
	ErrNotFound = sdkerrors.Register(ModuleName, 3, "not found")
	// ErrTimingViolation is returned when a lock, cliff or staking duration is not satisfied yet.
	ErrTimingViolation = sdkerrors.Register(ModuleName, 4, "timing violation")
	// ErrLimitExceeded is returned when pool, team or gamer caps are hit.
	ErrLimitExceeded = sdkerrors.Register(ModuleName, 5, "limit exceeded")
	// ErrAlreadySettled is returned when a one-shot settlement already happened.
	ErrAlreadySettled = sdkerrors.Register(ModuleName, 6, "already settled")
	// ErrInvalidConfiguration is returned for bad percentages or bounds.
	ErrInvalidConfiguration = sdkerrors.Register(ModuleName, 7, "invalid configuration")
	// ErrTransferFailed is returned when the token collaborator rejects a transfer.
	ErrTransferFailed = sdkerrors.Register(ModuleName, 8, "transfer failed")
	// ErrInsufficientPayment is returned when a payment is below the required price.
	ErrInsufficientPayment = sdkerrors.Register(ModuleName, 9, "insufficient payment")
	// ErrNothingToClaim is returned when a claim finds nothing due.
	ErrNothingToClaim = sdkerrors.Register(ModuleName, 10, "nothing to claim")
	// ErrUnsupportedCommand is returned for unknown receive hook commands.
	ErrUnsupportedCommand = sdkerrors.Register(ModuleName, 11, "unsupported command")
	// ErrInvalidState is returned when a pool is not in the state an operation requires.
	ErrInvalidState = sdkerrors.Register(ModuleName, 12, "invalid state")
	// ErrAlreadyExists is returned when a unique record would be duplicated.
	ErrAlreadyExists = sdkerrors.Register(ModuleName, 13, "already exists")
	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = sdkerrors.Register(ModuleName, 14, "invalid input")
	// ErrInvalidAuthority is returned when params are updated by someone other than the authority.
	ErrInvalidAuthority = sdkerrors.Register(ModuleName, 15, "invalid authority")
)

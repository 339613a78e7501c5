package game

import "errors"

var (
	// ErrOutOfRange is returned for pile indices outside 0-8.
	ErrOutOfRange = errors.New("pile index out of range")
	// ErrSameIndex is returned when both operands of a swap are the same pile.
	ErrSameIndex = errors.New("cannot swap a pile with itself")
	// ErrDoveBlocked is returned when a dove covers a pile an action needs.
	ErrDoveBlocked = errors.New("pile is covered by a dove")
	// ErrNoDove is returned when a dove move starts on a pile without a dove.
	ErrNoDove = errors.New("no dove on source pile")
	// ErrDoveOccupied is returned when a dove move targets a pile that already has a dove.
	ErrDoveOccupied = errors.New("target pile already has a dove")
	// ErrNotPermutation is returned when rabbits or hats are not a permutation of 1-9.
	ErrNotPermutation = errors.New("numbers are not a permutation of 1-9")
	// ErrUnknownAction is returned for actions with an unknown kind.
	ErrUnknownAction = errors.New("unknown action")
)

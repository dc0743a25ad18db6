package domain

import "errors"

var (
	// ErrNotFound is returned by stores, caches, and blob readers when the
	// requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoStrategy aborts a run that was started without a strategy attached.
	ErrNoStrategy = errors.New("no strategy attached")

	// ErrUndefinedSide aborts a run when an order without a side reaches the
	// matching engine. This is a programming error, never a data condition.
	ErrUndefinedSide = errors.New("order side undefined")

	// ErrUnknownOrderKind aborts a run when an order's kind has no registered
	// matching policy.
	ErrUnknownOrderKind = errors.New("unknown order kind")

	// ErrEmptyBook halts a run on a snapshot with an empty bid or ask side.
	// State accumulated on prior ticks remains valid and queryable.
	ErrEmptyBook = errors.New("snapshot has an empty book side")

	// ErrOversold reports a sell that consumed past the last open lot. It is
	// unreachable while the CanSell gate is honored upstream.
	ErrOversold = errors.New("sell amount exceeds open lots")
)

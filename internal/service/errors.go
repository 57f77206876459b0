package service

import "errors"

var (
	// ErrNotFound covers lookups and toggle removals on missing rows.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a toggle add hits an existing
	// (subject, target) pair.
	ErrAlreadyExists = errors.New("relation already exists")
	// ErrSelfFollow rejects a user following themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrNotAuthor rejects recipe mutations by anyone but the author.
	ErrNotAuthor = errors.New("only the author can modify this recipe")

	ErrNameTooLong         = errors.New("recipe name exceeds 200 characters")
	ErrUnknownTag          = errors.New("unknown tag")
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrNonPositiveAmount   = errors.New("ingredient amount must be positive")
)

package session

import "github.com/pkg/errors"

var (
	// ErrNoSelection is returned by tree operations when no tree is selected.
	ErrNoSelection = errors.New("no tree selected")
	// ErrInvalidValue is returned when the value input is not an integer.
	ErrInvalidValue = errors.New("value is not an integer")
	// ErrNotConfirmed is returned when the user declines a deletion.
	ErrNotConfirmed = errors.New("deletion not confirmed")
)

// User-facing warnings for the validation errors above.
const (
	WarnSelectFirst   = "Please select a tree first"
	WarnInvalidNumber = "Please enter a valid number"
	ConfirmDelete     = "Are you sure you want to delete this tree?"
)

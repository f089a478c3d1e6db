package controller

import "errors"

// Rejections surfaced to the user. None of them change the tree.
var (
	ErrEmptyLabel  = errors.New("please enter text for the node")
	ErrNoSelection = errors.New("please select a node first")
	ErrDeleteRoot  = errors.New("cannot delete the root node")
	ErrEmptyMap    = errors.New("no mind map to export")
	ErrNoRoot      = errors.New("create a root node first")
	// ErrInvalidLabel is wrapped by every *LabelError.
	ErrInvalidLabel = errors.New("invalid label")
)

// LabelError reports which label rule rejected the input.
type LabelError struct {
	Rule    string // "min_length", "max_length" or "pattern"
	Message string
}

func (e *LabelError) Error() string {
	return e.Message
}

func (e *LabelError) Unwrap() error {
	return ErrInvalidLabel
}

package control

import "errors"

var (
	// ErrUnknownControl indicates a control name the lab does not declare.
	ErrUnknownControl = errors.New("control: unknown control")

	// ErrInvalidSpec indicates a spec with an empty name or an empty domain.
	ErrInvalidSpec = errors.New("control: invalid spec")

	// ErrParse indicates a textual value that does not fit the control's kind.
	ErrParse = errors.New("control: cannot parse value")
)

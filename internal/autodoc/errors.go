package autodoc

import "errors"

var (
	// ErrUnterminatedDocstring is returned when an existing docstring literal
	// has no closing quotes. The source is left untouched.
	ErrUnterminatedDocstring = errors.New("unterminated docstring")
	// ErrDeclarationsShifted is returned when re-scanning a source after an
	// edit no longer finds the declaration that was selected.
	ErrDeclarationsShifted = errors.New("declarations changed while documenting")
)

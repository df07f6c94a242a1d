package extractor

import "errors"

// ErrMalformedDeclaration is returned when header text does not parse as a
// function or class declaration.
var ErrMalformedDeclaration = errors.New("malformed declaration")

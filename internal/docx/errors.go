package docx

import "errors"

// Sentinel errors for DOCX building.
var (
	ErrAlreadyFinalized = errors.New("document already finalized")
	ErrImageRead        = errors.New("failed to read image")
	ErrImageDecode      = errors.New("failed to decode image")
	ErrPackage          = errors.New("failed to write document package")
)

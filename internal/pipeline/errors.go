package pipeline

import "errors"

// Sentinel errors for document assembly.
var (
	ErrImageStage = errors.New("failed to stage image")
	ErrImageEmbed = errors.New("failed to embed image")
	ErrFinalize   = errors.New("failed to finalize document")
	ErrNilBuilder = errors.New("document builder is nil")
)

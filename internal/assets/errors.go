package assets

import "errors"

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound         = errors.New("style not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetName      = errors.New("invalid asset name")
	ErrInvalidBasePath       = errors.New("invalid base path")
	ErrAssetRead             = errors.New("failed to read asset")
)

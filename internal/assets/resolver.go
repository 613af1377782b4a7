package assets

import (
	"errors"
	"io"
)

// AssetResolver tries a custom loader first and falls back to the embedded
// assets when the custom directory does not have the requested asset.
// Validation and I/O errors from the custom loader are returned as is.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom directory
	embedded AssetLoader
}

// NewAssetResolver creates a resolver. An empty customBasePath uses only the
// embedded assets.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a stylesheet, custom first.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return resolve(r, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadTemplateSet loads a template set, custom first.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return resolve(r, func(l AssetLoader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Close releases the custom directory handle, if any.
func (r *AssetResolver) Close() error {
	if c, ok := r.custom.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func resolve[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	v, err := load(r.custom)
	if err == nil || !isNotFound(err) {
		return v, err
	}
	return load(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateSetNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)

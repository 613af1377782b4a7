package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates
var templates embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads an embedded stylesheet.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadTemplateSet loads an embedded template set.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	dir := path.Join("templates", name)
	if _, err := fs.Stat(templates, dir); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}

	report, err := templates.ReadFile(path.Join(dir, reportTemplateFile))
	if err != nil {
		return nil, missingTemplate(name, reportTemplateFile, err)
	}
	form, err := templates.ReadFile(path.Join(dir, formTemplateFile))
	if err != nil {
		return nil, missingTemplate(name, formTemplateFile, err)
	}
	return &TemplateSet{Name: name, Report: string(report), Form: string(form)}, nil
}

func missingTemplate(set, file string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, set, file)
	}
	return fmt.Errorf("%w: %v", ErrAssetRead, err)
}

var _ AssetLoader = (*EmbeddedLoader)(nil)

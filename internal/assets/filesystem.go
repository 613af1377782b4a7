package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// FilesystemLoader loads assets from a directory on disk.
// Reads go through an os.Root, so symlinks cannot escape the base directory.
type FilesystemLoader struct {
	basePath string
	root     *os.Root
}

// NewFilesystemLoader opens basePath as an asset directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, basePath)
	}
	root, err := os.OpenRoot(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{basePath: basePath, root: root}, nil
}

// BasePath returns the directory the loader reads from.
func (f *FilesystemLoader) BasePath() string { return f.basePath }

// Close releases the directory handle.
func (f *FilesystemLoader) Close() error { return f.root.Close() }

// LoadStyle reads {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := f.root.ReadFile(path.Join("styles", name+".css"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// LoadTemplateSet reads {basePath}/templates/{name}/report.html and form.html.
func (f *FilesystemLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	dir := path.Join("templates", name)

	report, reportErr := f.root.ReadFile(path.Join(dir, reportTemplateFile))
	form, formErr := f.root.ReadFile(path.Join(dir, formTemplateFile))

	if errors.Is(reportErr, fs.ErrNotExist) && errors.Is(formErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if reportErr != nil {
		return nil, missingTemplate(name, reportTemplateFile, reportErr)
	}
	if formErr != nil {
		return nil, missingTemplate(name, formTemplateFile, formErr)
	}
	return &TemplateSet{Name: name, Report: string(report), Form: string(form)}, nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)

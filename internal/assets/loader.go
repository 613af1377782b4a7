package assets

// AssetLoader loads stylesheets and template sets by name.
type AssetLoader interface {
	// LoadStyle returns the CSS named name (without .css).
	LoadStyle(name string) (string, error)

	// LoadTemplateSet returns the report and form templates of the set named name.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

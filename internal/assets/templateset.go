package assets

// Template file names inside a template set directory.
const (
	reportTemplateFile = "report.html"
	formTemplateFile   = "form.html"
)

// TemplateSet holds the templates of one visual theme.
type TemplateSet struct {
	Name   string // name or directory it was loaded from
	Report string // html/template source for rendered documents
	Form   string // html/template source for the web form
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "report"

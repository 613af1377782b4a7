package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// maxImagesUnset detects if --max-images was explicitly set.
// Since 0 is a valid count (no images), we use an out-of-range sentinel.
const maxImagesUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// assetFlags selects stylesheet and templates for html and pdf output.
type assetFlags struct {
	style       string
	templateSet string
	assetPath   string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common     commonFlags
	output     string
	format     string
	model      string
	timeout    string
	maxImages  int
	imageWidth float64
	assets     assetFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	workers int
	timeout string
	assets  assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and report statistics")
}

// addAssetFlags adds asset selection flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name (html and pdf)")
	fs.StringVar(&f.templateSet, "template", "", "template set name (html and pdf)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, usage io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: docx, html, pdf")
	fs.StringVarP(&f.model, "model", "m", "", "Gemini model name")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "report deadline (e.g., 90s, 3m)")
	fs.IntVar(&f.maxImages, "max-images", maxImagesUnset, "images per report (0-5)")
	fs.Float64Var(&f.imageWidth, "image-width", 0, "image width in inches (1.0-6.5)")
	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printGenerateUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent reports (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per request deadline (e.g., 90s, 3m)")
	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)

	fs.Usage = func() { printServeUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, usage io.Writer) (*commonFlags, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &commonFlags{}
	addCommonFlags(fs, f)

	fs.Usage = func() { printConfigUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

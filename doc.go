// Package reportgen turns a topic title into an illustrated report document.
//
// # Quick Start
//
// Create a converter with a text generator, generate, and close when done:
//
//	gen, err := reportgen.NewGeminiGenerator(ctx, reportgen.GeminiConfig{
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := reportgen.NewConverter(reportgen.WithGenerator(gen))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Generate(ctx, reportgen.Input{Title: "Solar Power"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.Data, 0644)
//
// # Generation Pipeline
//
// A report is built in these stages:
//
//  1. Text generation: one prompt built from the title (DefaultPromptTemplate)
//  2. Parsing: each line becomes a heading ("## ", "### ", "* ") or a paragraph
//     whose "**" segments alternate between plain and bold
//  3. Image fetching: one search, then up to five downloads
//  4. Placement: image j goes after paragraph 5*j
//  5. Assembly into a DOCX, HTML or PDF document
//
// Stages 1 and 3 are best effort. A failed or empty generation produces a single
// "No content available for this topic." paragraph and no images; a failed
// search or download only means fewer images. Result.Stats records both.
//
// # Formats
//
// FormatDOCX (the default) needs nothing beyond the Go program. FormatHTML
// inlines images as data URIs. FormatPDF prints the HTML with headless Chrome.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := reportgen.NewConverter(
//	    reportgen.WithGenerator(gen),
//	    reportgen.WithTimeout(2 * time.Minute),
//	    reportgen.WithMaxImages(3),
//	    reportgen.WithImageWidth(5),
//	    reportgen.WithLogger(slog.Default()),
//	)
//
// # Concurrent Requests
//
// For servers, use ConverterPool to bound the number of live browsers:
//
//	pool, err := reportgen.NewConverterPool(4, opts...)
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	defer pool.Release(conv)
//	result, err := conv.Generate(ctx, input)
//
// # Browser Requirements
//
// PDF output requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package reportgen

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-reportgen/internal/config"
	"github.com/alnah/go-reportgen/internal/fileutil"
	"github.com/alnah/go-reportgen/internal/hints"
)

// Doctor statuses, worst wins.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult is the machine-readable form of `reportgen doctor --json`.
type doctorResult struct {
	Status     string         `json:"status"`
	Generation generationInfo `json:"generation"`
	Chrome     chromeInfo     `json:"chrome"`
	Output     outputInfo     `json:"output"`
	Env        envInfo        `json:"environment"`
	System     systemInfo     `json:"system"`
	Warnings   []string       `json:"warnings,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
}

type generationInfo struct {
	APIKeyEnv string `json:"api_key_env"`
	APIKeySet bool   `json:"api_key_set"`
	Model     string `json:"model,omitempty"`
}

// chromeInfo describes the browser used for pdf output.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type outputInfo struct {
	Format string `json:"format"`
	Dir    string `json:"dir,omitempty"`
	Exists bool   `json:"dir_exists"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// doctorCheck fills one part of the result.
type doctorCheck func(r *doctorResult, cfg *config.Config)

// doctorChecks run in order.
var doctorChecks = []doctorCheck{
	checkGeneration,
	checkEnvironment,
	checkChrome,
	checkOutput,
	checkSystem,
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when reports can be produced (warnings included), 1 otherwise.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	asJSON := fs.Bool("json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	cfg := env.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	result := runDoctor(cfg)

	if *asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(cfg *config.Config) *doctorResult {
	r := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}
	for _, check := range doctorChecks {
		check(r, cfg)
	}

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

func checkGeneration(r *doctorResult, cfg *config.Config) {
	gen := cfg.Generation
	r.Generation = generationInfo{
		APIKeyEnv: gen.APIKeyEnv,
		Model:     gen.Model,
		APIKeySet: strings.TrimSpace(os.Getenv(gen.APIKeyEnv)) != "",
	}
	if !r.Generation.APIKeySet {
		r.warn("%s not set; reports will hold a placeholder paragraph", gen.APIKeyEnv)
	}
}

func checkEnvironment(r *doctorResult, _ *config.Config) {
	r.Env.Container, r.Env.ContainerHint = isContainer()
	r.Env.CI = hints.InCI() || os.Getenv("CIRCLECI") != ""

	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for pdf output")
	}
}

// checkChrome looks for the browser. Only pdf needs it, so every problem
// here is a warning.
func checkChrome(r *doctorResult, _ *config.Config) {
	path := r.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = launcher.LookPath(); !ok {
			r.warn("Chrome/Chromium not found; pdf output unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if !fileutil.FileExists(path) {
		r.warn("Chrome not found at %s; pdf output unavailable", path)
		return
	}

	r.Chrome = chromeInfo{Found: true, Path: path, Sandbox: r.Env.NoSandbox != "1"}
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from LookPath or ROD_BROWSER_BIN
	if err != nil {
		r.warn("Could not get Chrome version: %v", err)
	} else {
		r.Chrome.Version = strings.TrimSpace(string(out))
	}
}

// checkOutput reports where `generate` writes without -o. A missing
// directory is created on first use.
func checkOutput(r *doctorResult, cfg *config.Config) {
	r.Output = outputInfo{Format: cfg.Output.Format, Dir: cfg.Output.Dir}
	if cfg.Output.Dir == "" {
		r.Output.Exists = true
		return
	}
	info, err := os.Stat(cfg.Output.Dir)
	switch {
	case err == nil && info.IsDir():
		r.Output.Exists = true
	case err == nil:
		r.fail("Output dir %s is a file", cfg.Output.Dir)
	}
}

// checkSystem stages and releases a file the way every report stages images.
func checkSystem(r *doctorResult, _ *config.Config) {
	r.System.TempDir = os.TempDir()
	area, err := fileutil.NewStagingArea("")
	if err != nil {
		r.fail("Temp directory not writable: %s", r.System.TempDir)
		return
	}
	defer area.Close()

	_, release, err := area.Stage([]byte("doctor"))
	if err != nil {
		r.fail("Temp directory not writable: %s", r.System.TempDir)
		return
	}
	release()
	r.System.TempWritable = true
}

// isContainer reports whether the process runs in a container and which
// signal gave it away.
func isContainer() (bool, string) {
	switch {
	case os.Getenv("REPORTGEN_CONTAINER") == "1":
		return true, "REPORTGEN_CONTAINER=1"
	case hints.IsInContainer():
		return true, "/.dockerenv"
	case os.Getenv("container") != "":
		return true, "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// doctorLine is one rendered check: a level tag and its text.
type doctorLine struct {
	level string
	text  string
}

type doctorSection struct {
	title string
	lines []doctorLine
}

func okLine(format string, args ...any) doctorLine {
	return doctorLine{"OK", fmt.Sprintf(format, args...)}
}

// sections returns the human-readable report grouped by heading.
func (r *doctorResult) sections() []doctorSection {
	gen := []doctorLine{{"WARN", r.Generation.APIKeyEnv + ": not set"}}
	if r.Generation.APIKeySet {
		gen = []doctorLine{okLine("%s: set", r.Generation.APIKeyEnv)}
	}
	if r.Generation.Model != "" {
		gen = append(gen, okLine("Model: %s", r.Generation.Model))
	}

	chrome := []doctorLine{{"WARN", "Not found"}}
	if r.Chrome.Found {
		chrome = []doctorLine{okLine("Found at %s", r.Chrome.Path)}
		if r.Chrome.Version != "" {
			chrome = append(chrome, okLine("Version: %s", r.Chrome.Version))
		}
		if r.Chrome.Sandbox {
			chrome = append(chrome, okLine("Sandbox: enabled"))
		} else {
			chrome = append(chrome, okLine("Sandbox: disabled (ROD_NO_SANDBOX=1)"))
		}
	}

	var output []doctorLine
	if r.Output.Format != "" {
		output = append(output, okLine("Default format: %s", r.Output.Format))
	}
	switch {
	case r.Output.Dir == "":
		output = append(output, okLine("Directory: current directory"))
	case r.Output.Exists:
		output = append(output, okLine("Directory: %s", r.Output.Dir))
	default:
		output = append(output, okLine("Directory: %s (created on first report)", r.Output.Dir))
	}

	environment := []doctorLine{okLine("Platform: %s/%s", r.Env.OS, r.Env.Arch)}
	if r.Env.Container {
		environment = append(environment, okLine("Container: detected (%s)", r.Env.ContainerHint))
	}
	if r.Env.CI {
		environment = append(environment, okLine("CI: detected"))
	}

	system := []doctorLine{{"ERROR", "Temp directory: not writable"}}
	if r.System.TempWritable {
		system = []doctorLine{okLine("Temp directory: writable")}
	}

	return []doctorSection{
		{"Text generation", gen},
		{"Chrome/Chromium (pdf only)", chrome},
		{"Output", output},
		{"Environment", environment},
		{"System", system},
	}
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "reportgen doctor")
	fmt.Fprintln(w)

	for _, s := range r.sections() {
		fmt.Fprintln(w, s.title)
		for _, l := range s.lines {
			fmt.Fprintf(w, "  [%s] %s\n", l.level, l.text)
		}
		fmt.Fprintln(w)
	}

	printList(w, "Warnings:", "WARN", r.Warnings)
	printList(w, "Errors:", "ERROR", r.Errors)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printList(w io.Writer, heading, level string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w, heading)
	for _, item := range items {
		fmt.Fprintf(w, "  [%s] %s\n", level, item)
	}
	fmt.Fprintln(w)
}

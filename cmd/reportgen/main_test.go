package main

// Notes:
// - runMain: we test dispatch and exit codes for commands that need no network.
//   generate and serve are covered in their own files with fake collaborators.
// - clearReportgenEnv blanks every known variable, so tests calling it use
//   t.Setenv and cannot run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-reportgen"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake collaborators and environment
// ---------------------------------------------------------------------------

type stubGenerator struct {
	text string
	err  error
}

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	return g.text, g.err
}

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string) ([]string, error) {
	return nil, nil
}

type stubRetriever struct{}

func (stubRetriever) Retrieve(context.Context, string) ([]byte, error) {
	return nil, errors.New("offline")
}

// testEnv returns an environment with buffered output and offline collaborators.
func testEnv(text string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := DefaultEnv()
	env.Stdout = &stdout
	env.Stderr = &stderr
	env.Options = []reportgen.Option{
		reportgen.WithGenerator(stubGenerator{text: text}),
		reportgen.WithSearcher(stubSearcher{}),
		reportgen.WithRetriever(stubRetriever{}),
	}
	return env, &stdout, &stderr
}

// clearReportgenEnv blanks configuration variables inherited from the shell.
func clearReportgenEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("GEMINI_API_KEY", "")
}

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "no args prints usage",
			args:       nil,
			wantCode:   ExitUsage,
			wantStderr: "Usage: reportgen",
		},
		{
			name:       "unknown command",
			args:       []string{"convert"},
			wantCode:   ExitUsage,
			wantStderr: "unknown command: convert",
		},
		{
			name:       "version",
			args:       []string{"version"},
			wantCode:   ExitSuccess,
			wantStdout: "reportgen " + Version,
		},
		{
			name:       "help",
			args:       []string{"help"},
			wantCode:   ExitSuccess,
			wantStdout: "Commands:",
		},
		{
			name:       "generate help flag",
			args:       []string{"generate", "--help"},
			wantCode:   ExitSuccess,
			wantStderr: "Usage: reportgen generate",
		},
		{
			name:       "generate bad flag",
			args:       []string{"generate", "--bogus", "x"},
			wantCode:   ExitUsage,
			wantStderr: "invalid usage",
		},
		{
			name:       "generate without title",
			args:       []string{"generate"},
			wantCode:   ExitUsage,
			wantStderr: "no title specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			code := runMain(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d (stderr: %s)", tt.args, code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_ErrorWithHint(t *testing.T) {
	clearReportgenEnv(t)

	env, _, stderr := testEnv("Body")
	code := runMain(context.Background(), []string{"generate", "--config", "/nonexistent/reportgen.yaml", "Topic"}, env)

	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr = %q, want a hint", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-parse detection for GOMAXPROCS logging
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"generate", "-v", "x"}, true},
		{[]string{"serve", "--verbose"}, true},
		{[]string{"generate", "verbose"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

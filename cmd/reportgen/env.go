package main

import (
	"io"
	"os"

	"github.com/alnah/go-reportgen"
	"github.com/alnah/go-reportgen/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // used by doctor when no --config is given

	// Options are appended after the ones derived from configuration,
	// so they win. Tests use them to swap collaborators for fakes.
	Options []reportgen.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}

package main

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/wizardswiffle/clubsite/internal/browser"
	"github.com/wizardswiffle/clubsite/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the network and browser
// seams used by serve and probe.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Config is the base configuration used when no config file is named.
	Config *config.Config

	// Listen binds the serve command's address.
	Listen func(network, address string) (net.Listener, error)

	// NewProber starts the browser used by probe.
	NewProber func(timeout time.Duration) browser.Prober
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Config:  config.DefaultConfig(),
		Listen:  net.Listen,
		NewProber: func(timeout time.Duration) browser.Prober {
			return browser.NewRodProber(timeout)
		},
	}
}

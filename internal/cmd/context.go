package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jimezsa/jobfeed/internal/config"
	"github.com/jimezsa/jobfeed/internal/scraper"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/jimezsa/jobfeed/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Fetcher and Store replace the network client and the configured
	// backend when set.
	Fetcher scraper.Fetcher
	Store   store.Store
	// Base is the parent of every command context; defaults to Background.
	Base context.Context
}

// signalContext is cancelled on SIGINT or SIGTERM.
func (c *Context) signalContext() (context.Context, context.CancelFunc) {
	base := c.Base
	if base == nil {
		base = context.Background()
	}
	return signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
}

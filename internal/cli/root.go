// Package cli defines the refract command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/andreicstoica/refract/internal/intelligence"
	"github.com/andreicstoica/refract/internal/service"
)

// App holds references to the services used by CLI commands.
type App struct {
	Prod     intelligence.ProdService
	Analysis *service.Analysis

	// IsTTY reports whether stdout is an interactive terminal; nil defaults
	// to plain output.
	IsTTY func() bool
}

func (a *App) useColor() bool {
	return a.IsTTY != nil && a.IsTTY()
}

// NewRootCmd creates the top-level "refract" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "refract",
		Short: "Reflective writing companion core",
	}

	root.AddCommand(
		newServeCmd(app),
		newAnalyzeCmd(app),
	)

	return root
}

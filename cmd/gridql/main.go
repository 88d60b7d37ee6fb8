package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/gridql/gridql"
	"github.com/gridql/gridql/ir"
)

// Context represents the global context for commands
type Context struct {
	Verbose bool
	Quiet   bool
}

// RenderCmd loads a reader pipeline configuration and prints its rendered IR
type RenderCmd struct {
	Config string `arg:"" help:"Import configuration file (YAML)"`
	Table  bool   `help:"Render a table read instead of a matrix read"`
}

// Run executes the render command
func (cmd *RenderCmd) Run(ctx *Context) error {
	config, err := gridql.LoadImportConfig(cmd.Config)
	if err != nil {
		return err
	}
	reader, err := config.ReaderConfig()
	if err != nil {
		return err
	}

	var node *ir.Node
	if cmd.Table {
		node = ir.TableRead(reader, config.DropRows)
	} else {
		node = ir.MatrixRead(reader, config.DropCols, config.DropRows)
	}

	text, err := ir.NewRenderer().Render(node)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Cyan("Reader: %s", reader.ReaderName())
	}
	fmt.Println(text)
	return nil
}

// ValidateCmd checks a reader configuration without rendering
type ValidateCmd struct {
	Config string `arg:"" help:"Import configuration file (YAML)"`
}

// Run executes the validate command
func (cmd *ValidateCmd) Run(ctx *Context) error {
	if _, err := gridql.LoadImportConfig(cmd.Config); err != nil {
		return err
	}
	if !ctx.Quiet {
		color.Green("✓ %s is valid", cmd.Config)
	}
	return nil
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("gridql v0.1.0")
	return nil
}

var CLI struct {
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Render   RenderCmd   `cmd:"" help:"Render a reader pipeline to engine IR"`
	Validate ValidateCmd `cmd:"" help:"Validate a reader configuration"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/wirebind/wirebind/internal/inspect"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Lint    LintCmd    `cmd:"" help:"Check endpoint declarations in a package."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type LintCmd struct {
	Package            string `arg:"" optional:"" default:"." help:"Package pattern to scan."`
	Dir                string `help:"Directory to run the scan from." short:"C"`
	Config             string `help:"Path to a .wirebind.toml config file." short:"c"`
	RequireDescription bool   `help:"Report endpoints without a description."`
}

func (c *LintCmd) Run() error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}

	result, err := inspect.Scan(c.Package, c.Dir, opts)
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d endpoint declaration(s)\n", len(result.Decls))
	for _, f := range result.Findings {
		fmt.Fprintln(os.Stderr, f)
	}
	if len(result.Findings) > 0 {
		return fmt.Errorf("%d problem(s) found", len(result.Findings))
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("wirebind"),
		kong.Description("Static checks for wirebind endpoint declarations."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

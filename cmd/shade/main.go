package main

import (
	"context"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pterm/pterm"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/shadelang/shade/compiler"
	"github.com/shadelang/shade/compiler/analyze"
	"github.com/shadelang/shade/compiler/format"
	"github.com/shadelang/shade/compiler/parse"
)

type config struct {
	Debug string `toml:"debug"`

	DebugUninit  bool `toml:"debug_uninit"`
	LazyUserdata bool `toml:"lazy_userdata"`
}

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	analyzeCmd := &cli.Command{
		Name:   "analyze",
		Action: analyzeAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "shade",
		Description: "shade is a tool for inspecting batched shader layer analysis",
		Commands: []*cli.Command{
			parseCmd,
			analyzeCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		g, err := parse.File(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		_, err = os.Stdout.Write(format.Group(nil, g))
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}

func analyzeAct(c *cli.Command) (err error) {
	cfg, err := loadConfig("shade.toml")
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if cfg.Debug != "" {
		tlog.DefaultLogger.SetVerbosity(cfg.Debug)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	opts := analyze.Options{
		DebugUninit:  cfg.DebugUninit,
		LazyUserdata: cfg.LazyUserdata,
	}

	for _, a := range c.Args {
		res, err := compiler.AnalyzeFile(ctx, a, opts)
		if err != nil {
			return errors.Wrap(err, "analyze %v", a)
		}

		for _, an := range res {
			err = report(an)
			if err != nil {
				return errors.Wrap(err, "report")
			}
		}
	}

	return nil
}

func report(a *analyze.Analysis) error {
	n := a.Inst()

	pterm.DefaultSection.Printfln("layer %s", n.Name)

	data := pterm.TableData{
		{"symbol", "symtype", "type", "class"},
	}

	for _, s := range n.Syms {
		class := "varying"
		if a.IsUniform(s) {
			class = "uniform"
		}

		data = append(data, []string{s.Name, s.SymType.String(), s.Type.String(), class})
	}

	err := pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if err != nil {
		return errors.Wrap(err, "render table")
	}

	masked := a.MaskedOps()
	if len(masked) == 0 {
		pterm.Println("no ops require masking")

		return nil
	}

	for _, i := range masked {
		pterm.Printfln("op %d %s requires masking", i, n.Op(i).Name)
	}

	return nil
}

func loadConfig(name string) (cfg config, err error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read")
	}

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "decode")
	}

	return cfg, nil
}

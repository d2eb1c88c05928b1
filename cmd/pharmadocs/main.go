package main

import (
	"log/slog"
	"os"

	"github.com/abiiranathan/goflag"

	"github.com/dgallion1/pharmadocs/internal/config"
	"github.com/dgallion1/pharmadocs/internal/diag"
)

// options holds the flag values shared by every subcommand.
type options struct {
	DataDir     string
	LogLevel    string
	ProductType string
	CompanyType string
	Format      string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	opts := &options{DataDir: cfg.DataDir, LogLevel: "warn", Format: "markdown"}
	var run func(*app) error

	ctx := goflag.NewContext()
	ctx.AddFlag(goflag.FlagString, "data", "d", &opts.DataDir, "Data directory root", false)
	ctx.AddFlag(goflag.FlagString, "log-level", "l", &opts.LogLevel, "Diagnostic level written to stderr", false)

	ctx.AddSubCommand("products", "List product directories per product and company type", func() {
		run = (*app).products
	})
	ctx.AddSubCommand("load", "Load documents and print one line per document", func() {
		run = (*app).load
	}).AddFlag(goflag.FlagString, "product-type", "p", &opts.ProductType, "Only this product type (needs --company-type)", false).
		AddFlag(goflag.FlagString, "company-type", "c", &opts.CompanyType, "Only this company type (needs --product-type)", false)
	ctx.AddSubCommand("stats", "Load every document and print counts as JSON", func() {
		run = (*app).stats
	})
	ctx.AddSubCommand("prices", "Summarize the drug price workbooks", func() {
		run = (*app).prices
	})
	ctx.AddSubCommand("report", "Print the summary report", func() {
		run = (*app).report
	}).AddFlag(goflag.FlagString, "format", "f", &opts.Format, "markdown or html", false)

	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		slog.Error("parse arguments", "error", err)
		os.Exit(1)
	}
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}
	subcmd.Handler()

	cfg.DataDir = opts.DataDir
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	a := newApp(cfg, opts, os.Stdout, diag.NewLogger(opts.LogLevel, os.Stderr))
	if err := run(a); err != nil {
		a.log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

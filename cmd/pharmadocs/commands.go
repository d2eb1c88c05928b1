package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/dgallion1/pharmadocs/internal/config"
	"github.com/dgallion1/pharmadocs/internal/diag"
	"github.com/dgallion1/pharmadocs/internal/document"
	"github.com/dgallion1/pharmadocs/internal/loader"
	"github.com/dgallion1/pharmadocs/internal/prices"
	"github.com/dgallion1/pharmadocs/internal/report"
	"github.com/dgallion1/pharmadocs/internal/stats"
)

// app runs one subcommand against a configured loader.
type app struct {
	cfg    config.Config
	opts   *options
	out    io.Writer
	log    *slog.Logger
	rep    diag.Reporter
	loader *loader.Loader
}

func newApp(cfg config.Config, opts *options, out io.Writer, log *slog.Logger) *app {
	rep := diag.NewSlogReporter(log)
	return &app{
		cfg:    cfg,
		opts:   opts,
		out:    out,
		log:    log,
		rep:    rep,
		loader: loader.New(cfg.Loader(), rep, nil),
	}
}

func (a *app) products() error {
	products, err := a.loader.AvailableProducts()
	if err != nil {
		return err
	}
	for _, pt := range a.cfg.ProductTypes {
		companies, ok := products[pt]
		if !ok {
			continue
		}
		fmt.Fprintf(a.out, "【%s】\n", pt)
		for _, ct := range a.cfg.CompanyTypes {
			names := companies[ct]
			fmt.Fprintf(a.out, "  %s: %d製品", ct, len(names))
			if len(names) > 0 {
				fmt.Fprintf(a.out, " (%s)", strings.Join(names, ", "))
			}
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

func (a *app) load() error {
	var docs []document.Document
	var err error
	switch pt, ct := a.opts.ProductType, a.opts.CompanyType; {
	case pt == "" && ct == "":
		docs, err = a.loader.LoadAllDocuments()
	case pt == "" || ct == "":
		return errors.New("--product-type and --company-type must be given together")
	default:
		docs, err = a.loader.LoadProductDocuments(pt, ct)
	}
	if err != nil {
		return err
	}

	for _, d := range docs {
		pages := "-"
		if d.PageCount != nil {
			pages = fmt.Sprint(*d.PageCount)
		}
		fmt.Fprintf(a.out, "[%s] %s/%s/%s/%s pages=%s sections=%d\n",
			d.DocType, d.ProductType, d.CompanyType, d.ProductName, d.FileName, pages, len(d.Sections))
	}
	fmt.Fprintf(a.out, "総文書数: %d\n", len(docs))
	return nil
}

func (a *app) stats() error {
	docs, err := a.loader.LoadAllDocuments()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats.Compute(docs))
}

func (a *app) prices() error {
	tables, err := prices.Load(a.cfg.DataDir, a.rep)
	if err != nil {
		return err
	}
	for _, category := range slices.Sorted(maps.Keys(tables)) {
		t := tables[category]
		fmt.Fprintf(a.out, "%s: %d行 × %d列\n", category, t.Len(), len(t.Columns))
		if len(t.Columns) > 0 {
			fmt.Fprintf(a.out, "  列: %s\n", strings.Join(t.Columns, ", "))
		}
	}
	return nil
}

func (a *app) report() error {
	if a.opts.Format != "markdown" && a.opts.Format != "html" {
		return fmt.Errorf("unknown report format %q", a.opts.Format)
	}

	products, err := a.loader.AvailableProducts()
	if err != nil {
		return err
	}
	docs, err := a.loader.LoadAllDocuments()
	if err != nil {
		return err
	}
	tables, err := prices.Load(a.cfg.DataDir, a.rep)
	if err != nil {
		return err
	}

	md := report.Build(report.Input{
		ProductTypes: a.cfg.ProductTypes,
		CompanyTypes: a.cfg.CompanyTypes,
		Products:     products,
		Documents:    docs,
		Prices:       tables,
	})
	if a.opts.Format == "html" {
		out, err := report.HTML(md)
		if err != nil {
			return err
		}
		md = out
	}
	_, err = io.WriteString(a.out, md)
	return err
}

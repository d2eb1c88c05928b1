package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/pharmadocs/internal/diag"
	"github.com/dgallion1/pharmadocs/internal/document"
	"github.com/dgallion1/pharmadocs/internal/parser"
	"github.com/dgallion1/pharmadocs/internal/segment"
)

// Config controls where and what the loader walks.
type Config struct {
	DataDir      string
	ProductTypes []string
	CompanyTypes []string

	PDFFallbackPdftotext bool
}

// Observer receives per-file and per-pass measurements.
type Observer interface {
	ObserveFile(format string, duration time.Duration, err error)
	ObservePass(documents int)
}

type nopObserver struct{}

func (nopObserver) ObserveFile(string, time.Duration, error) {}
func (nopObserver) ObservePass(int)                          {}

// Loader reads product documents from a data directory laid out as
// <data_dir>/<product_type>/<company_type>/<product_name>/<file>.
// Files are processed one at a time in discovery order.
type Loader struct {
	cfg Config
	rep diag.Reporter
	obs Observer
}

func New(cfg Config, rep diag.Reporter, obs Observer) *Loader {
	if rep == nil {
		rep = diag.Discard
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Loader{cfg: cfg, rep: rep, obs: obs}
}

// DataDir returns the root the loader reads from.
func (l *Loader) DataDir() string {
	return l.cfg.DataDir
}

// LoadFile extracts, classifies and segments a single file and attaches
// the catalog metadata. The product name is the file's parent directory.
func (l *Loader) LoadFile(path, productType, companyType string) Outcome {
	name := filepath.Base(path)

	format, ok := parser.FormatOf(name)
	if !ok {
		return Outcome{Path: path, Err: wrapError(ErrUnsupportedFormat, "load "+name, fmt.Errorf("extension %q", filepath.Ext(name)))}
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Outcome{Path: path, Err: wrapError(ErrFileMissing, "load "+name, err)}
	}
	if err != nil {
		return Outcome{Path: path, Err: wrapError(ErrUnreadable, "load "+name, err)}
	}
	if info.IsDir() {
		return Outcome{Path: path, Err: wrapError(ErrUnsupportedFormat, "load "+name, errors.New("is a directory"))}
	}

	p, err := parser.ForFile(name, l.cfg.PDFFallbackPdftotext)
	if err != nil {
		return Outcome{Path: path, Err: wrapError(ErrUnsupportedFormat, "load "+name, err)}
	}

	start := time.Now()
	ext, err := p.Parse(path)
	l.obs.ObserveFile(string(format), time.Since(start), err)
	if err != nil {
		return Outcome{Path: path, Err: wrapError(ErrCorrupt, "parse "+name, err)}
	}

	doc := buildDocument(format, ext, name, path)
	doc.ProductType = productType
	doc.CompanyType = companyType
	doc.ProductName = filepath.Base(filepath.Dir(path))
	return Outcome{Path: path, Document: doc}
}

func buildDocument(format parser.Format, ext *parser.Extraction, name, path string) *document.Document {
	doc := &document.Document{
		FullText: ext.Text,
		FileName: name,
		FilePath: path,
	}

	if format == parser.FormatXML {
		// XML sources are always package inserts and form one unpaged section.
		doc.DocType = document.TypePackageInsert
		doc.Sections = []document.Section{{
			Text:     segment.Normalize(ext.Text),
			Heading:  document.StringPtr(string(document.TypePackageInsert)),
			FileName: name,
		}}
		return doc
	}

	doc.DocType = document.Classify(name)
	doc.PageCount = document.IntPtr(ext.Pages)
	doc.Sections = segment.Split(ext.Text, name)
	if doc.Sections == nil {
		doc.Sections = []document.Section{}
	}
	return doc
}

// ScanProduct loads every PDF and XML file below
// <data_dir>/<productType>/<companyType>, at any depth, and returns one
// Outcome per file. A missing directory yields ErrDirectoryMissing.
func (l *Loader) ScanProduct(productType, companyType string) ([]Outcome, error) {
	return l.scanProduct(l.rep, productType, companyType)
}

func (l *Loader) scanProduct(rep diag.Reporter, productType, companyType string) ([]Outcome, error) {
	dir := filepath.Join(l.cfg.DataDir, productType, companyType)

	pdfs, xmls, err := discover(dir)
	if err != nil {
		return nil, err
	}
	rep.Report(slog.LevelInfo, "discovered files",
		"path", dir,
		"total", len(pdfs)+len(xmls),
		"pdf", len(pdfs),
		"xml", len(xmls),
	)

	files := append(pdfs, xmls...)
	outcomes := make([]Outcome, 0, len(files))
	for _, path := range files {
		outcomes = append(outcomes, l.LoadFile(path, productType, companyType))
	}
	return outcomes, nil
}

// discover walks dir and returns PDF and XML paths in walk order.
// Symlinked directories are followed; a directory already walked under
// another name is skipped so link cycles terminate.
func discover(dir string) (pdfs, xmls []string, err error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, wrapError(ErrDirectoryMissing, "scan "+dir, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, wrapError(ErrDirectoryMissing, "scan "+dir, errors.New("not a directory"))
	}

	visited := make(map[string]bool)
	var walk func(root string) error
	walk = func(root string) error {
		real, err := filepath.EvalSymlinks(root)
		if err != nil {
			return err
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type()&fs.ModeSymlink != 0 {
				if target, err := os.Stat(path); err == nil && target.IsDir() {
					return walk(path)
				}
			} else if d.IsDir() {
				return nil
			}
			switch format, _ := parser.FormatOf(d.Name()); format {
			case parser.FormatPDF:
				pdfs = append(pdfs, path)
			case parser.FormatXML:
				xmls = append(xmls, path)
			}
			return nil
		})
	}

	if err := walk(dir); err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return pdfs, xmls, nil
}

// LoadProductDocuments returns the documents parsed from one
// product/company directory. A missing directory is reported as a warning
// and yields an empty list; files that fail to parse are reported and
// skipped. Only unexpected filesystem errors are returned.
func (l *Loader) LoadProductDocuments(productType, companyType string) ([]document.Document, error) {
	return l.loadProduct(l.rep, productType, companyType)
}

func (l *Loader) loadProduct(rep diag.Reporter, productType, companyType string) ([]document.Document, error) {
	outcomes, err := l.scanProduct(rep, productType, companyType)
	if errors.Is(err, ErrDirectoryMissing) {
		rep.Report(slog.LevelWarn, "directory does not exist",
			"path", filepath.Join(l.cfg.DataDir, productType, companyType))
		return []document.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			rep.Report(slog.LevelError, "failed to load document",
				"file", filepath.Base(o.Path),
				"path", o.Path,
				"error", o.Err,
			)
			continue
		}
		docs = append(docs, *o.Document)
	}
	return docs, nil
}

// LoadAllDocuments loads every configured product type and company type.
// Product types without a directory are skipped with a warning.
func (l *Loader) LoadAllDocuments() ([]document.Document, error) {
	rep := diag.With(l.rep, "pass_id", uuid.NewString())
	rep.Report(slog.LevelInfo, "loading all documents",
		"data_dir", l.cfg.DataDir,
		"product_types", len(l.cfg.ProductTypes),
		"company_types", len(l.cfg.CompanyTypes),
	)

	all := []document.Document{}
	for _, productType := range l.cfg.ProductTypes {
		ok, err := isDir(filepath.Join(l.cfg.DataDir, productType))
		if err != nil {
			return nil, err
		}
		if !ok {
			rep.Report(slog.LevelWarn, "product type directory does not exist", "product_type", productType)
			continue
		}

		for _, companyType := range l.cfg.CompanyTypes {
			docs, err := l.loadProduct(rep, productType, companyType)
			if err != nil {
				return nil, err
			}
			all = append(all, docs...)
			rep.Report(slog.LevelInfo, "loaded documents",
				"product_type", productType,
				"company_type", companyType,
				"count", len(docs),
			)
		}
	}

	l.obs.ObservePass(len(all))
	rep.Report(slog.LevelInfo, "load complete", "documents", len(all))
	return all, nil
}

// AvailableProducts lists product directories for every configured product
// type that exists on disk: product type -> company type -> sorted names.
// Company types without a directory map to an empty list.
func (l *Loader) AvailableProducts() (map[string]map[string][]string, error) {
	products := make(map[string]map[string][]string)

	for _, productType := range l.cfg.ProductTypes {
		productDir := filepath.Join(l.cfg.DataDir, productType)
		ok, err := isDir(productDir)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		companies := make(map[string][]string, len(l.cfg.CompanyTypes))
		for _, companyType := range l.cfg.CompanyTypes {
			names, err := subdirNames(filepath.Join(productDir, companyType))
			if err != nil {
				return nil, err
			}
			companies[companyType] = names
		}
		products[productType] = companies
	}

	return products, nil
}

// subdirNames returns the names of dir's subdirectories, sorted. A missing
// dir yields an empty list.
func subdirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	// ReadDir returns entries sorted by name.
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			if ok, _ := isDir(filepath.Join(dir, e.Name())); ok {
				names = append(names, e.Name())
			}
		}
	}
	return names, nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

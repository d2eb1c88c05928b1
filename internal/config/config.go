package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/pharmadocs/internal/loader"
)

// Default catalog axes.
var (
	DefaultProductTypes = []string{"血漿分画製剤", "IBD製剤", "抗うつ製剤"}
	DefaultCompanyTypes = []string{"自社", "他社"}
)

type Config struct {
	Port     string
	LogLevel string

	// Auth (optional; empty disables)
	APIKey string

	// Data layout
	DataDir     string
	CatalogFile string

	// Catalog axes walked by a full load
	ProductTypes []string
	CompanyTypes []string

	// PDF
	PDFFallbackPdftotext bool
}

// Catalog is the on-disk form of the product/company enumeration.
type Catalog struct {
	ProductTypes []string `yaml:"product_types"`
	CompanyTypes []string `yaml:"company_types"`
}

// Load reads configuration from the environment. Precedence is
// defaults, then CATALOG_FILE, then PRODUCT_TYPES / COMPANY_TYPES.
func Load() (Config, error) {
	cfg := Config{
		Port:     envOr("PORT", "8091"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		APIKey: os.Getenv("PHARMADOCS_API_KEY"),

		DataDir:     envOr("DATA_DIR", "data"),
		CatalogFile: os.Getenv("CATALOG_FILE"),

		ProductTypes: append([]string(nil), DefaultProductTypes...),
		CompanyTypes: append([]string(nil), DefaultCompanyTypes...),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.CatalogFile != "" {
		cat, err := LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return cfg, err
		}
		if len(cat.ProductTypes) > 0 {
			cfg.ProductTypes = cat.ProductTypes
		}
		if len(cat.CompanyTypes) > 0 {
			cfg.CompanyTypes = cat.CompanyTypes
		}
	}

	if v := envList("PRODUCT_TYPES"); len(v) > 0 {
		cfg.ProductTypes = v
	}
	if v := envList("COMPANY_TYPES"); len(v) > 0 {
		cfg.CompanyTypes = v
	}

	return cfg, nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	cat.ProductTypes = cleanList(cat.ProductTypes)
	cat.CompanyTypes = cleanList(cat.CompanyTypes)
	return cat, nil
}

// Loader returns the subset of the configuration the document loader needs.
func (c Config) Loader() loader.Config {
	return loader.Config{
		DataDir:              c.DataDir,
		ProductTypes:         c.ProductTypes,
		CompanyTypes:         c.CompanyTypes,
		PDFFallbackPdftotext: c.PDFFallbackPdftotext,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if err := validateAxis("product types", c.ProductTypes); err != nil {
		return err
	}
	if err := validateAxis("company types", c.CompanyTypes); err != nil {
		return err
	}
	return nil
}

func validateAxis(name string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			return fmt.Errorf("%s contain an empty entry", name)
		}
		if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
			return fmt.Errorf("%s entry %q is not a directory name", name, v)
		}
		if seen[v] {
			return fmt.Errorf("%s contain duplicate %q", name, v)
		}
		seen[v] = true
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping blank entries.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return cleanList(strings.Split(v, ","))
}

func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

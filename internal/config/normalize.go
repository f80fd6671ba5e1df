package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeEncode()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogFile) == "" {
		c.Paths.CatalogFile = defaultCatalogFile
	}
	if c.Paths.CatalogFile, err = expandPath(c.Paths.CatalogFile); err != nil {
		return fmt.Errorf("paths.catalog_file: %w", err)
	}
	if c.Paths.InputsDir, err = expandPath(c.Paths.InputsDir); err != nil {
		return fmt.Errorf("paths.inputs_dir: %w", err)
	}
	if c.Paths.TmpDir, err = expandPath(c.Paths.TmpDir); err != nil {
		return fmt.Errorf("paths.tmp_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	trim := func(value, fallback string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return fallback
		}
		return value
	}
	c.Catalog.IDColumn = trim(c.Catalog.IDColumn, defaultIDColumn)
	c.Catalog.TitleColumn = trim(c.Catalog.TitleColumn, defaultTitleColumn)
	c.Catalog.AuthorsColumn = trim(c.Catalog.AuthorsColumn, defaultAuthorsColumn)
	c.Catalog.SessionColumn = trim(c.Catalog.SessionColumn, defaultSessionColumn)
	c.Catalog.FormatColumn = trim(c.Catalog.FormatColumn, defaultFormatColumn)
	c.Catalog.PresenceColumn = trim(c.Catalog.PresenceColumn, defaultPresenceColumn)
	c.Catalog.FormatFilter = strings.TrimSpace(c.Catalog.FormatFilter)
	c.Catalog.PresenceFilter = strings.TrimSpace(c.Catalog.PresenceFilter)
}

func (c *Config) normalizeEncode() {
	c.Encode.Font = strings.TrimSpace(c.Encode.Font)
	if c.Encode.Font == "" {
		c.Encode.Font = defaultFont
	}
	c.Encode.PadColor = strings.TrimSpace(c.Encode.PadColor)
	if c.Encode.PadColor == "" {
		c.Encode.PadColor = defaultPadColor
	}
	c.Encode.OutputExt = strings.ToLower(strings.TrimSpace(c.Encode.OutputExt))
	if c.Encode.OutputExt == "" {
		c.Encode.OutputExt = defaultOutputExt
	}
	if !strings.HasPrefix(c.Encode.OutputExt, ".") {
		c.Encode.OutputExt = "." + c.Encode.OutputExt
	}

	exts := make([]string, 0, len(c.Encode.Extensions))
	seen := make(map[string]struct{}, len(c.Encode.Extensions))
	for _, ext := range c.Encode.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	c.Encode.Extensions = exts
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.WatchDebounceSeconds <= 0 {
		c.Workflow.WatchDebounceSeconds = defaultWatchDebounce
	}
	if c.Workflow.HistoryLimit <= 0 {
		c.Workflow.HistoryLimit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	"fmt"
	"slices"
)

// KnownLanguages lists the language codes that have a built-in descriptor.
var KnownLanguages = []string{"en", "ja", "es", "ko"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Languages.validate(); err != nil {
		return fmt.Errorf("languages: %w", err)
	}

	if err := c.Lookup.validate(); err != nil {
		return fmt.Errorf("lookup: %w", err)
	}

	if c.Dictionary.ImportChunkSize < 1 || c.Dictionary.ImportChunkSize > 10000 {
		return fmt.Errorf("dictionary.import_chunk_size must be between 1 and 10000 (got %d)", c.Dictionary.ImportChunkSize)
	}

	if c.Dictionary.MaxUnpackedBytes <= 0 {
		return fmt.Errorf("dictionary.max_unpacked_bytes must be > 0 (got %d)", c.Dictionary.MaxUnpackedBytes)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}

	if c.Server.WriteRateLimit <= 0 {
		return fmt.Errorf("server.write_rate_limit must be > 0 (got %d)", c.Server.WriteRateLimit)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (l LanguagesConfig) validate() error {
	codes := l.Codes()
	if len(codes) == 0 {
		return fmt.Errorf("enabled must list at least one language")
	}
	for _, code := range codes {
		if !slices.Contains(KnownLanguages, code) {
			return fmt.Errorf("unknown language %q (known: %v)", code, KnownLanguages)
		}
	}
	return nil
}

func (l LookupConfig) validate() error {
	if l.MaxScanLength <= 0 {
		return fmt.Errorf("max_scan_length must be > 0 (got %d)", l.MaxScanLength)
	}
	if l.MaxResults <= 0 {
		return fmt.Errorf("max_results must be > 0 (got %d)", l.MaxResults)
	}
	if l.MaxKeys <= 0 {
		return fmt.Errorf("max_keys must be > 0 (got %d)", l.MaxKeys)
	}
	return nil
}

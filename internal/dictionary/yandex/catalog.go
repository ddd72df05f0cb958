package yandex

import (
	_ "embed"
	"log/slog"

	"github.com/grisov/quickdict/internal/dictionary"
)

// Last known language list, so lookups work before the first refresh.
//
//go:embed languages.json
var defaultLanguages []byte

// DefaultCatalog returns the catalog snapshot shipped with the package.
func DefaultCatalog() *dictionary.Catalog {
	catalog, err := parseLanguages(defaultLanguages)
	if err != nil {
		slog.Default().Warn("failed to parse the embedded language list",
			slog.String("service", ServiceID),
			slog.Any("error", err),
		)
		return dictionary.NewCatalog(nil)
	}
	return catalog
}

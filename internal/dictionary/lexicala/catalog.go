package lexicala

import (
	_ "embed"
	"log/slog"

	"github.com/grisov/quickdict/internal/dictionary"
)

// Last known language lists, so lookups work before the first refresh.
//
//go:embed languages.json
var defaultLanguages []byte

// DefaultCatalog returns the catalog snapshot shipped with the package
// for the given dictionary section.
func DefaultCatalog(section string) *dictionary.Catalog {
	if section == "" {
		section = "global"
	}
	catalog, err := parseLanguages(defaultLanguages, section)
	if err != nil {
		slog.Default().Warn("failed to parse the embedded language lists",
			slog.String("service", ServiceID),
			slog.String("section", section),
			slog.Any("error", err),
		)
		return dictionary.NewCatalog(nil)
	}
	return catalog
}

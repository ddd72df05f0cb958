package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/grisov/quickdict/internal/config"
	"github.com/grisov/quickdict/internal/dictionary"
	"github.com/grisov/quickdict/internal/dictionary/lexicala"
	"github.com/grisov/quickdict/internal/dictionary/yandex"
)

// App wires the engine to the terminal: it resolves the configuration
// into registered backends, issues engine operations and renders every
// terminal outcome as exactly one distinguishable message.
type App struct {
	engine *dictionary.Engine
	config *config.Config
	out    io.Writer
	errOut io.Writer
}

func New(cfg *config.Config, out, errOut io.Writer) *App {
	app := &App{
		config: cfg,
		out:    out,
		errOut: errOut,
	}
	app.engine = dictionary.NewEngine(
		dictionary.WithCacheCapacity(cfg.CacheCapacity),
		dictionary.WithProgress(func(dictionary.Query) {
			fmt.Fprintln(errOut, "Still waiting for a response from the dictionary service...")
		}),
	)
	app.engine.Register(yandex.New(yandex.Config{
		Token:  cfg.Yandex.Token,
		Mirror: cfg.Yandex.Mirror,
	}), yandex.DefaultCatalog())
	app.engine.Register(lexicala.New(lexicala.Config{
		Key:           cfg.Lexicala.Key,
		Section:       cfg.Lexicala.Section,
		Morph:         cfg.Lexicala.Morph,
		Analyzed:      cfg.Lexicala.Analyzed,
		RetryAttempts: cfg.Lexicala.RetryAttempts,
	}), lexicala.DefaultCatalog(cfg.Lexicala.Section))
	return app
}

// Engine exposes the configured engine to the command layer.
func (app *App) Engine() *dictionary.Engine {
	return app.engine
}

func (app *App) request(text string) dictionary.LookupRequest {
	source, target := app.config.Languages()
	return dictionary.LookupRequest{
		BackendID: app.config.Active,
		Source:    source,
		Target:    target,
		Text:      text,
		AutoSwap:  app.config.AutoSwap,
	}
}

// Lookup retrieves and renders the dictionary entry for the text.
func (app *App) Lookup(ctx context.Context, text string) error {
	result, err := app.engine.Lookup(ctx, app.request(text))
	return app.present(result, err)
}

// Swap exchanges the configured languages and re-issues the lookup; an
// unsupported reverse pair is reported as a warning and the original
// pair stays active.
func (app *App) Swap(ctx context.Context, text string) error {
	result, err := app.engine.Swap(ctx, app.request(text))
	var pairErr *dictionary.UnsupportedPairError
	if errors.As(err, &pairErr) {
		color.New(color.FgYellow).Fprintf(app.out, "Swap languages is not available for this pair: %s - %s\n",
			languageName(pairErr.Source), languageName(pairErr.Target))
		return nil
	}
	if err == nil {
		fmt.Fprintln(app.out, "Languages swapped")
	}
	return app.present(result, err)
}

func (app *App) present(result dictionary.LookupResult, err error) error {
	switch {
	case errors.Is(err, dictionary.ErrEmptyQuery):
		color.New(color.FgYellow).Fprintln(app.out, "There is no text to look up, or its content is not textual!")
		return nil
	case err != nil:
		return err
	case result.Article.IsEmpty():
		fmt.Fprintln(app.out, "No results")
		return nil
	}

	header := fmt.Sprintf("%s - %s", languageName(result.Source), languageName(result.Target))
	if result.Swapped {
		header += " (languages swapped)"
	}
	color.New(color.Bold).Fprintln(app.out, header)
	app.renderArticle(result.Article)
	return nil
}

func (app *App) renderArticle(article dictionary.Article) {
	headword := color.New(color.Bold)
	label := color.New(color.Faint)
	for _, sense := range article.Senses {
		headword.Fprint(app.out, sense.Headword)
		if attrs := senseAttrs(sense); attrs != "" {
			fmt.Fprintf(app.out, " (%s)", attrs)
		}
		fmt.Fprintln(app.out)
		if len(sense.Translations) > 0 {
			fmt.Fprintf(app.out, "  %s\n", strings.Join(sense.Translations, ", "))
		}
		if len(sense.Meanings) > 0 {
			label.Fprint(app.out, "  mean: ")
			fmt.Fprintln(app.out, strings.Join(sense.Meanings, ", "))
		}
		if len(sense.Synonyms) > 0 {
			label.Fprint(app.out, "  synonyms: ")
			fmt.Fprintln(app.out, strings.Join(sense.Synonyms, ", "))
		}
		for _, example := range sense.Examples {
			label.Fprint(app.out, "  example: ")
			if example.Translation != "" {
				fmt.Fprintf(app.out, "%s - %s\n", example.Text, example.Translation)
			} else {
				fmt.Fprintln(app.out, example.Text)
			}
		}
	}
}

func senseAttrs(sense dictionary.Sense) string {
	var attrs []string
	if sense.PartOfSpeech != "" {
		attrs = append(attrs, sense.PartOfSpeech)
	}
	if sense.Number != "" {
		attrs = append(attrs, "number: "+sense.Number)
	}
	if sense.Gender != "" {
		attrs = append(attrs, "gender: "+sense.Gender)
	}
	return strings.Join(attrs, ", ")
}

// Languages prints the catalog of the active service, refreshing it
// from the network first when asked. A failed refresh is reported once
// and the previous snapshot stays in use.
func (app *App) Languages(ctx context.Context, refresh bool) error {
	if refresh {
		catalog, err := app.engine.RefreshLanguages(ctx, app.config.Active)
		if err != nil {
			color.New(color.FgYellow).Fprintf(app.out, "Failed to update the language list, keeping the previous one: %v\n", err)
		} else {
			fmt.Fprintf(app.out, "Language list updated: %d pairs\n", catalog.Len())
		}
	}
	catalog := app.engine.Catalog(app.config.Active)
	for _, source := range catalog.Sources() {
		fmt.Fprintf(app.out, "%s (%s): %s\n",
			languageName(source), source, strings.Join(catalog.Targets(source), ", "))
	}
	return nil
}

// Usage prints the request quota of the active service.
func (app *App) Usage(ctx context.Context) error {
	usage, err := app.engine.UsageInfo(ctx, app.config.Active)
	if errors.Is(err, dictionary.ErrUsageUnsupported) {
		fmt.Fprintln(app.out, "The active dictionary service does not report usage information")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Queries used: %d of %d, remaining: %d\n",
		usage.Quota-usage.Remaining, usage.Quota, usage.Remaining)
	if usage.Section != "" {
		fmt.Fprintf(app.out, "Dictionary section: %s\n", usage.Section)
	}
	return nil
}

// Stats prints the lifetime response cache counters.
func (app *App) Stats() error {
	stats := app.engine.CacheStats()
	fmt.Fprintf(app.out, "Cache: %d/%d entries, %d hits, %d misses\n",
		stats.Size, stats.Capacity, stats.Hits, stats.Misses)
	return nil
}

func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

package lexicala

import (
	"encoding/json"
	"strings"

	"github.com/grisov/quickdict/internal/dictionary"
)

// Wire format of the search endpoint. Several fields arrive either as a
// single object/string or as an array depending on the entry, so they
// decode through the flex types below.
type searchResponse struct {
	NResults int      `json:"n_results"`
	Results  []result `json:"results"`
}

type result struct {
	ID       string    `json:"id"`
	Language string    `json:"language"`
	Headword headwords `json:"headword"`
	Senses   []sense   `json:"senses"`
}

type headword struct {
	Text         string      `json:"text"`
	PartOfSpeech stringOrSet `json:"pos"`
	Gender       string      `json:"gender"`
	Number       string      `json:"number"`
}

type sense struct {
	ID           string         `json:"id"`
	Definition   string         `json:"definition"`
	Translations translationSet `json:"translations"`
	Synonyms     []string       `json:"synonyms"`
	Examples     []usageExample `json:"examples"`
}

type usageExample struct {
	Text         string         `json:"text"`
	Translations translationSet `json:"translations"`
}

// headwords decodes a headword that may be one object or a list.
type headwords []headword

func (h *headwords) UnmarshalJSON(data []byte) error {
	var single headword
	if err := json.Unmarshal(data, &single); err == nil {
		*h = headwords{single}
		return nil
	}
	var many []headword
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*h = headwords(many)
	return nil
}

// stringOrSet decodes a value that may be one string or a list of strings.
type stringOrSet []string

func (s *stringOrSet) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = stringOrSet{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = stringOrSet(many)
	return nil
}

type textItem struct {
	Text string `json:"text"`
}

// textItems decodes a translation value that may be one item or a list.
type textItems []textItem

func (t *textItems) UnmarshalJSON(data []byte) error {
	var single textItem
	if err := json.Unmarshal(data, &single); err == nil {
		*t = textItems{single}
		return nil
	}
	var many []textItem
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = textItems(many)
	return nil
}

type translationSet map[string]textItems

func (ts translationSet) texts(lang string) []string {
	items, ok := ts[lang]
	if !ok {
		return nil
	}
	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	return texts
}

// article normalizes the response: one sense per dictionary sense, with
// translations and example translations narrowed to the target language.
func (r searchResponse) article(target string) dictionary.Article {
	var senses []dictionary.Sense
	for _, res := range r.Results {
		var head headword
		if len(res.Headword) > 0 {
			head = res.Headword[0]
		}
		for _, s := range res.Senses {
			normalized := dictionary.Sense{
				Headword:     head.Text,
				PartOfSpeech: strings.Join(head.PartOfSpeech, ", "),
				Gender:       head.Gender,
				Number:       head.Number,
				Translations: s.Translations.texts(target),
				Synonyms:     s.Synonyms,
			}
			if s.Definition != "" {
				normalized.Meanings = []string{s.Definition}
			}
			for _, ex := range s.Examples {
				normalized.Examples = append(normalized.Examples, dictionary.Example{
					Text:        ex.Text,
					Translation: strings.Join(ex.Translations.texts(target), ", "),
				})
			}
			senses = append(senses, normalized)
		}
	}
	return dictionary.Article{Senses: senses}
}

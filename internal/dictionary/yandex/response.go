package yandex

import (
	"strings"

	"github.com/grisov/quickdict/internal/dictionary"
)

// Wire format of the dicservice.json lookup endpoint. Error responses
// carry code/message instead of definitions.
type lookupResponse struct {
	Code       int          `json:"code"`
	Message    string       `json:"message"`
	Definition []definition `json:"def"`
}

type definition struct {
	Text         string        `json:"text"`
	PartOfSpeech string        `json:"pos"`
	Gender       string        `json:"gen"`
	Number       string        `json:"num"`
	Translations []translation `json:"tr"`
}

type translation struct {
	Text         string     `json:"text"`
	PartOfSpeech string     `json:"pos"`
	Gender       string     `json:"gen"`
	Number       string     `json:"num"`
	Synonyms     []textItem `json:"syn"`
	Meanings     []textItem `json:"mean"`
	Examples     []example  `json:"ex"`
}

type textItem struct {
	Text string `json:"text"`
}

type example struct {
	Text         string     `json:"text"`
	Translations []textItem `json:"tr"`
}

// article flattens the response into the normalized form: one sense per
// definition entry, with the translation block's synonyms, meanings and
// examples merged under it.
func (r lookupResponse) article() dictionary.Article {
	var senses []dictionary.Sense
	for _, def := range r.Definition {
		sense := dictionary.Sense{
			Headword:     def.Text,
			PartOfSpeech: def.PartOfSpeech,
			Gender:       def.Gender,
			Number:       def.Number,
		}
		for _, tr := range def.Translations {
			sense.Translations = append(sense.Translations, tr.Text)
			for _, syn := range tr.Synonyms {
				sense.Synonyms = append(sense.Synonyms, syn.Text)
			}
			for _, mean := range tr.Meanings {
				sense.Meanings = append(sense.Meanings, mean.Text)
			}
			for _, ex := range tr.Examples {
				translations := make([]string, 0, len(ex.Translations))
				for _, trans := range ex.Translations {
					translations = append(translations, trans.Text)
				}
				sense.Examples = append(sense.Examples, dictionary.Example{
					Text:        ex.Text,
					Translation: strings.Join(translations, ", "),
				})
			}
		}
		senses = append(senses, sense)
	}
	return dictionary.Article{Senses: senses}
}

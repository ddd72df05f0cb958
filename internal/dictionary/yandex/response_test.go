package yandex

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grisov/quickdict/internal/dictionary"
)

const sampleLookupBody = `{
	"head": {},
	"def": [
		{
			"text": "time",
			"pos": "noun",
			"tr": [
				{
					"text": "время",
					"pos": "noun",
					"gen": "ср",
					"syn": [{"text": "раз"}, {"text": "срок"}],
					"mean": [{"text": "timing"}, {"text": "fold"}],
					"ex": [
						{"text": "prehistoric time", "tr": [{"text": "доисторическое время"}]},
						{"text": "hundredth time", "tr": [{"text": "сотый раз"}]}
					]
				}
			]
		},
		{
			"text": "time",
			"pos": "verb",
			"tr": [
				{"text": "приурочивать"}
			]
		}
	]
}`

func TestLookupResponse_Article(t *testing.T) {
	var response lookupResponse
	require.NoError(t, json.Unmarshal([]byte(sampleLookupBody), &response))

	article := response.article()
	require.Len(t, article.Senses, 2)

	first := article.Senses[0]
	assert.Equal(t, "time", first.Headword)
	assert.Equal(t, "noun", first.PartOfSpeech)
	assert.Equal(t, []string{"время"}, first.Translations)
	assert.Equal(t, []string{"раз", "срок"}, first.Synonyms)
	assert.Equal(t, []string{"timing", "fold"}, first.Meanings)
	require.Len(t, first.Examples, 2)
	assert.Equal(t, dictionary.Example{
		Text:        "prehistoric time",
		Translation: "доисторическое время",
	}, first.Examples[0])

	second := article.Senses[1]
	assert.Equal(t, "verb", second.PartOfSpeech)
	assert.Equal(t, []string{"приурочивать"}, second.Translations)
	assert.Empty(t, second.Examples)
}

func TestLookupResponse_Article_NoEntry(t *testing.T) {
	var response lookupResponse
	require.NoError(t, json.Unmarshal([]byte(`{"head": {}, "def": []}`), &response))
	assert.True(t, response.article().IsEmpty())
}

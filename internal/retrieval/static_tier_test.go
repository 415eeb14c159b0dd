package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStaticExamples(t *testing.T) {
	corpus, err := LoadStaticExamples()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(corpus.All()), maxResults)

	for i, ex := range corpus.All() {
		assert.NotEmptyf(t, ex.Prompt, "example %d prompt", i)
		assert.NotEmptyf(t, ex.Response, "example %d response", i)
	}
}

func TestKeywordMatches(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   int
	}{
		{"no domain words", "bugün hava çok güzel", 0},
		{"single day", "Pazartesi: 08:00-17:00", 1},
		{"day is not counted as its prefix", "pazartesi toplantısı var", 1},
		{"sunday counts separately", "pazar günü çalıştım", 1},
		{"dense prompt", "Pazartesi ve Salı sabah mesai yaptım", 4},
		{"ascii folded spelling", "persembe ve carsamba yoğundu", 2},
		{"repeated keyword counts once", "mesai mesai mesai", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordMatches(tt.prompt))
		})
	}
}

func TestSelectCountByKeywordDensity(t *testing.T) {
	corpus, err := LoadStaticExamples()
	require.NoError(t, err)

	sparse := corpus.Select("Pazartesi: 08:00-17:00")
	assert.Len(t, sparse, 2, "one keyword match gets two examples")

	dense := corpus.Select("Pazartesi sabah ve Salı akşam mesai yaptım")
	assert.Len(t, dense, 3, "three or more matches get three examples")
}

func TestSelectIsStable(t *testing.T) {
	corpus, err := LoadStaticExamples()
	require.NoError(t, err)

	a := corpus.Select("haftalık değerlendirme")
	b := corpus.Select("haftalık değerlendirme")
	assert.Equal(t, a, b)
}

package terms

import (
	"testing"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip_AllTermsBothLanguages(t *testing.T) {
	for _, from := range Langs {
		for _, label := range Labels(from) {
			for _, to := range Langs {
				canonical, err := ToCanonical(label, from)
				require.NoError(t, err)

				shown, err := ToDisplay(canonical, to)
				require.NoError(t, err)

				back, err := ToCanonical(shown, to)
				require.NoError(t, err)

				original, err := ToDisplay(back, from)
				require.NoError(t, err)
				assert.Equal(t, label, original, "%s -> %s -> %s", from, to, from)
			}
		}
	}
}

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		source  Lang
		want    string
		wantErr error
	}{
		{"english label for english article", "Digital technology", EN, "Цифровая технология", nil},
		{"russian label for russian article", "Прорывная технология", RU, "Прорывная технология", nil},
		{"russian label for english article", "Прорывная технология", EN, "Прорывная технология", nil},
		{"english label for russian article", "Near future technology", RU, "Технология ближайшего будущего", nil},
		{"unknown label", "Quantum supremacy", EN, "", common.ErrInvalidTerm},
		{"case matters", "digital technology", EN, "", common.ErrInvalidTerm},
		{"empty", "", RU, "", common.ErrInvalidTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCanonical(tt.value, tt.source)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToDisplay(t *testing.T) {
	got, err := ToDisplay("Сквозная цифровая технология", EN)
	require.NoError(t, err)
	assert.Equal(t, "End-to-end digital technology", got)

	got, err = ToDisplay("Сквозная цифровая технология", RU)
	require.NoError(t, err)
	assert.Equal(t, "Сквозная цифровая технология", got)

	_, err = ToDisplay("End-to-end digital technology", RU)
	assert.ErrorIs(t, err, common.ErrInvalidTerm, "english label is not canonical")

	_, err = ToDisplay("Цифровая технология", Lang("de"))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLabels_DeclarationOrder(t *testing.T) {
	en := Labels(EN)
	ru := Labels(RU)

	require.Len(t, en, int(conceptCount))
	require.Len(t, ru, int(conceptCount))
	assert.Equal(t, "Digital transformation", en[0])
	assert.Equal(t, "Gradually introduced technology", en[len(en)-1])
	assert.Equal(t, "Цифровая трансформация", ru[0])

	en[0] = "mutated"
	assert.Equal(t, "Digital transformation", Labels(EN)[0], "Labels must return a copy")
}

func TestLabels_UnknownLang(t *testing.T) {
	assert.Empty(t, Labels(Lang("fr")))
}

func TestParseLang(t *testing.T) {
	l, err := ParseLang("EN")
	require.NoError(t, err)
	assert.Equal(t, EN, l)

	l, err = ParseLang(" ru ")
	require.NoError(t, err)
	assert.Equal(t, RU, l)

	_, err = ParseLang("de")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLookup(t *testing.T) {
	c, lang, ok := Lookup("Breakthrough technology")
	require.True(t, ok)
	assert.Equal(t, BreakthroughTechnology, c)
	assert.Equal(t, EN, lang)

	assert.True(t, IsLabel("Цифровая трансформация"))
	assert.False(t, IsLabel("nope"))
}

func TestNewVocabulary_RejectsBrokenTables(t *testing.T) {
	labels := func(ru, en string) map[Lang]string { return map[Lang]string{RU: ru, EN: en} }

	tests := []struct {
		name string
		rows []row
		size int
	}{
		{
			name: "missing row",
			rows: []row{{0, labels("а", "a")}},
			size: 2,
		},
		{
			name: "duplicate concept",
			rows: []row{{0, labels("а", "a")}, {0, labels("б", "b")}},
			size: 2,
		},
		{
			name: "concept out of range",
			rows: []row{{0, labels("а", "a")}, {5, labels("б", "b")}},
			size: 2,
		},
		{
			name: "missing english label",
			rows: []row{{0, labels("а", "a")}, {1, map[Lang]string{RU: "б"}}},
			size: 2,
		},
		{
			name: "two concepts share a label",
			rows: []row{{0, labels("а", "a")}, {1, labels("б", "a")}},
			size: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newVocabulary(tt.rows, tt.size)
			assert.Error(t, err)
			assert.Panics(t, func() { mustVocabulary(tt.rows, tt.size) })
		})
	}
}

func TestNewVocabulary_ShippedTableIsBijective(t *testing.T) {
	v, err := newVocabulary(table, int(conceptCount))
	require.NoError(t, err)

	for _, lang := range Langs {
		assert.Len(t, v.byLabel[lang], int(conceptCount))
	}
}

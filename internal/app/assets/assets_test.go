package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"apostrophe folds", "Lovers' Leap", "loversleap"},
		{"plain form matches folded form", "lovers leap", "loversleap"},
		{"curly apostrophe folds", "Lovers’ Leap", "loversleap"},
		{"diacritics stripped", "Poyagé Falls", "poyagefalls"},
		{"punctuation and spacing", "St. Clair's Falls", "stclairsfalls"},
		{"empty input", "", ""},
		{"digits kept", "Arch Bridge 9", "archbridge9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKey(tt.input))
		})
	}
}

func testCatalog() *Catalog {
	return NewCatalog(
		Root{
			Tag:       "primary",
			URLPrefix: "/images",
			Files: []File{
				{Path: "assets/images/loversleap.jpg", Filename: "loversleap.jpg"},
				{Path: "assets/images/sigiriya-rock.jpg", Filename: "sigiriya-rock.jpg"},
				{Path: "assets/images/kandy-lake.png", Filename: "kandy-lake.png"},
			},
		},
		Root{
			Tag:       "fallback",
			URLPrefix: "/images/legacy",
			Files: []File{
				{Path: "assets/images/legacy/lovers-leap-old.jpg", Filename: "lovers-leap-old.jpg"},
				{Path: "assets/images/legacy/galle-fort.jpg", Filename: "galle-fort.jpg"},
			},
		},
	)
}

func TestFindLocalImagesScenarioPrimaryRootFirst(t *testing.T) {
	catalog := testCatalog()

	got := catalog.FindLocalImages("Lovers' Leap Waterfall")
	require.Len(t, got, 2)
	assert.Equal(t, "primary", got[0].Root)
	assert.Equal(t, "assets/images/loversleap.jpg", got[0].Path)
	assert.Equal(t, "fallback", got[1].Root)
	assert.Equal(t, "assets/images/legacy/lovers-leap-old.jpg", got[1].Path)
}

func TestFindLocalImagesBidirectionalSubstring(t *testing.T) {
	catalog := testCatalog()

	// Filename more specific than the name.
	assert.NotEmpty(t, catalog.FindLocalImages("Sigiriya"))
	// Name more specific than the filename.
	assert.NotEmpty(t, catalog.FindLocalImages("Sigiriya Rock Fortress"))
}

func TestFindLocalImagesTokenMatch(t *testing.T) {
	catalog := testCatalog()

	got := catalog.FindLocalImages("Fort of Galle")
	require.NotEmpty(t, got)
	assert.Equal(t, "assets/images/legacy/galle-fort.jpg", got[0].Path)
}

func TestFindLocalImagesNoMatchIsEmpty(t *testing.T) {
	catalog := testCatalog()
	assert.Empty(t, catalog.FindLocalImages("Totally Unknown Place"))
}

func TestFindLocalImagesBlankNameMatchesNothing(t *testing.T) {
	catalog := testCatalog()
	assert.Empty(t, catalog.FindLocalImages(""))
	assert.Empty(t, catalog.FindLocalImages("!!!"))
}

func TestCandidateURLs(t *testing.T) {
	catalog := testCatalog()
	got := catalog.FindLocalImages("Kandy Lake")
	require.Len(t, got, 1)
	assert.Equal(t, "/images/kandy-lake.png", got[0].URL)
	assert.Equal(t, "kandylake", got[0].Key)
}

func TestOverridePrecedence(t *testing.T) {
	set, err := NewOverrideSet([]Override{
		{Match: "loversleap", Image: "/images/curated/lovers-leap.jpg"},
	})
	require.NoError(t, err)

	// The generic algorithm would pick the primary-root candidate; the
	// override answer must win for the primary choice.
	rule, ok := set.Resolve("Lovers' Leap")
	require.True(t, ok)
	assert.Equal(t, "/images/curated/lovers-leap.jpg", rule.Image)
}

func TestOverrideFirstRuleWins(t *testing.T) {
	set, err := NewOverrideSet([]Override{
		{Pattern: `(?i)^gal\s`, Image: "/images/gal-viharaya.jpg"},
		{Pattern: `(?i)vihara`, Image: "/images/other-vihara.jpg"},
	})
	require.NoError(t, err)

	rule, ok := set.Resolve("Gal Viharaya")
	require.True(t, ok)
	assert.Equal(t, "/images/gal-viharaya.jpg", rule.Image)
}

func TestOverrideNoMatch(t *testing.T) {
	set, err := NewOverrideSet([]Override{{Match: "loversleap", Image: "x"}})
	require.NoError(t, err)

	_, ok := set.Resolve("Ella Gap")
	assert.False(t, ok)
}

func TestOverrideInvalidPattern(t *testing.T) {
	_, err := NewOverrideSet([]Override{{Pattern: "([", Image: "x"}})
	assert.Error(t, err)
}

func TestLoadMatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matching.toml")
	content := `
[[override]]
match = "loversleap"
image = "/images/curated/lovers-leap.jpg"

[[override]]
pattern = '(?i)^temple of the tooth'
text = "The Temple of the Sacred Tooth Relic in Kandy."

[[fallback]]
pattern = '(?i)waterfall|falls$'
text = "One of the many waterfalls of the central highlands."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, rules, err := LoadMatchConfig(path)
	require.NoError(t, err)

	rule, ok := set.Resolve("Lovers' Leap")
	require.True(t, ok)
	assert.Equal(t, "/images/curated/lovers-leap.jpg", rule.Image)

	rule, ok = set.Resolve("Temple of the Tooth")
	require.True(t, ok)
	assert.NotEmpty(t, rule.Text)

	require.Len(t, rules, 1)
	text, fromRule := FallbackDescription("Bambarakanda Falls", "", rules)
	assert.True(t, fromRule)
	assert.Equal(t, "One of the many waterfalls of the central highlands.", text)
}

func TestLoadMatchConfigMissingFile(t *testing.T) {
	set, rules, err := LoadMatchConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Empty(t, rules)

	_, ok := set.Resolve("anything")
	assert.False(t, ok)
}

func TestFallbackDescriptionScenarioD(t *testing.T) {
	got, fromRule := FallbackDescription("Totally Unknown Place", "Test Province", nil)
	assert.False(t, fromRule)
	assert.NotEmpty(t, got)
	assert.Contains(t, got, "Totally Unknown Place")
	assert.Contains(t, got, "Test Province")
}

func TestFallbackDescriptionWithoutProvince(t *testing.T) {
	got, fromRule := FallbackDescription("Somewhere", "", nil)
	assert.False(t, fromRule)
	assert.NotEmpty(t, got)
	assert.Contains(t, got, "Somewhere")
}

func TestFallbackDescriptionRuleOrder(t *testing.T) {
	rules, err := CompileTextRules([]TextRule{
		{Pattern: `(?i)beach`, Text: "first"},
		{Pattern: `(?i)mirissa`, Text: "second"},
	})
	require.NoError(t, err)

	got, fromRule := FallbackDescription("Mirissa Beach", "Southern Province", rules)
	assert.True(t, fromRule)
	assert.Equal(t, "first", got)
}

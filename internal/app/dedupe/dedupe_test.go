package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Sigiriya Rock", "sigiriyarock"},
		{"strips punctuation", "St. Clair's", "stclairs"},
		{"punctuation variant folds to same key", "st clairs", "stclairs"},
		{"strips trailing noise", "sigiriya rock!!", "sigiriyarock"},
		{"empty input", "", ""},
		{"whitespace only", "   \t ", ""},
		{"keeps digits", "Temple 2", "temple2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		entity   Entity
		expected int
	}{
		{"bare entity", Entity{ID: "a", Name: "x"}, 0},
		{"description only", Entity{Description: strPtr("text")}, 2},
		{"whitespace description does not count", Entity{Description: strPtr("  \t")}, 0},
		{"province only", Entity{ProvinceID: strPtr("p1")}, 1},
		{"image only", Entity{ImageURL: strPtr("/img/a.jpg")}, 2},
		{"empty image url does not count", Entity{ImageURL: strPtr("")}, 0},
		{"latitude only", Entity{Latitude: f64Ptr(6.9)}, 1},
		{"longitude only", Entity{Longitude: f64Ptr(79.8)}, 1},
		{"both coordinates still one point", Entity{Latitude: f64Ptr(6.9), Longitude: f64Ptr(79.8)}, 1},
		{
			"fully populated",
			Entity{
				Description: strPtr("d"),
				ProvinceID:  strPtr("p"),
				ImageURL:    strPtr("u"),
				Latitude:    f64Ptr(1),
				Longitude:   f64Ptr(2),
			},
			6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.entity))
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// A carries a strict superset of B's scoring attributes, so A must
	// never score below B.
	b := Entity{ID: "b", Name: "Kandy", ProvinceID: strPtr("p")}
	a := b
	a.ID = "a"
	a.Description = strPtr("the hill capital")
	a.ImageURL = strPtr("/img/kandy.jpg")

	assert.GreaterOrEqual(t, Score(a), Score(b))
}

func TestResolveEmptyInput(t *testing.T) {
	plan := Resolve(nil)
	assert.True(t, plan.Empty())
	assert.Empty(t, plan.RemoveIDs())
}

func TestResolveSingletonsUntouched(t *testing.T) {
	plan := Resolve([]Entity{
		{ID: "a", Name: "Ella"},
		{ID: "b", Name: "Galle"},
		{ID: "c", Name: "Jaffna"},
	})
	assert.True(t, plan.Empty())
}

func TestResolveScenarioA(t *testing.T) {
	entities := []Entity{
		{ID: "b", Name: "Sigiriya Rock", Description: strPtr("x"), ImageURL: strPtr("y")},
		{ID: "a", Name: "sigiriya rock!!"},
	}

	plan := Resolve(entities)
	require.Len(t, plan.Groups, 1)

	g := plan.Groups[0]
	assert.Equal(t, "sigiriyarock", g.Key)
	assert.Equal(t, "b", g.Keeper.ID)
	require.Len(t, g.Remove, 1)
	assert.Equal(t, "a", g.Remove[0].ID)
	assert.Equal(t, []string{"a"}, plan.RemoveIDs())
}

func TestResolveScenarioBTieBreak(t *testing.T) {
	entities := []Entity{
		{ID: "z9", Name: "Temple A"},
		{ID: "a1", Name: "temple a"},
	}

	plan := Resolve(entities)
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, "a1", plan.Groups[0].Keeper.ID)
	assert.Equal(t, []string{"z9"}, plan.RemoveIDs())
}

func TestResolveTieBreakIgnoresInputOrder(t *testing.T) {
	forward := []Entity{{ID: "z9", Name: "Temple A"}, {ID: "a1", Name: "temple a"}}
	reversed := []Entity{{ID: "a1", Name: "temple a"}, {ID: "z9", Name: "Temple A"}}

	assert.Equal(t, Resolve(forward), Resolve(reversed))
	assert.Equal(t, "a1", Resolve(reversed).Groups[0].Keeper.ID)
}

func TestResolveIdempotent(t *testing.T) {
	entities := []Entity{
		{ID: "c3", Name: "Mirissa Beach", Description: strPtr("whales")},
		{ID: "c1", Name: "Mirissa beach"},
		{ID: "c2", Name: "mirissa-beach", ImageURL: strPtr("/img/m.jpg"), Latitude: f64Ptr(5.94)},
		{ID: "d1", Name: "Ella"},
		{ID: "e1", Name: "Nine Arch Bridge"},
		{ID: "e2", Name: "nine arch bridge!"},
	}

	first := Resolve(entities)
	second := Resolve(entities)
	assert.Equal(t, first, second)
}

func TestResolveEmptyNamesGroupTogether(t *testing.T) {
	// Documented quirk: blank names all share the empty key.
	plan := Resolve([]Entity{
		{ID: "a", Name: ""},
		{ID: "b", Name: "   "},
		{ID: "c", Name: "!!!"},
	})
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, "", plan.Groups[0].Key)
	assert.Equal(t, "a", plan.Groups[0].Keeper.ID)
	assert.Equal(t, []string{"b", "c"}, plan.RemoveIDs())
}

func TestResolveHigherScoreBeatsSmallerID(t *testing.T) {
	entities := []Entity{
		{ID: "a", Name: "Dambulla"},
		{ID: "z", Name: "dambulla", Description: strPtr("cave temple"), ImageURL: strPtr("/img/d.jpg")},
	}

	plan := Resolve(entities)
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, "z", plan.Groups[0].Keeper.ID)
}

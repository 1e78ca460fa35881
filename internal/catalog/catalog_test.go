package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultViews(t *testing.T) {
	c := mustDefault(t)

	assert.Len(t, c.Products(), 14)
	assert.Equal(t, []string{"3", "5", "14"}, ids(c.Deals()))
	assert.Equal(t, []string{"5", "6", "7", "8"}, ids(c.Inspired()))
	assert.Equal(t, []string{"Gaming", "Fitness", "Chill"}, c.Moods())
	assert.Equal(t, []string{"9", "10"}, ids(c.LowStock()))
	assert.Equal(t, 10, c.LowStockThreshold())
	assert.Len(t, c.Categories(), 5)
}

func TestMoodLookupIgnoresCase(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		mood string
		want []string
	}{
		{mood: "Gaming", want: []string{"9", "11", "12"}},
		{mood: "fitness", want: []string{"8", "13", "14"}},
		{mood: " CHILL ", want: []string{"1", "2", "3", "5", "6"}},
	}
	for _, tt := range tests {
		got, ok := c.Mood(tt.mood)
		require.True(t, ok, tt.mood)
		assert.Equal(t, tt.want, ids(got), tt.mood)
	}

	_, ok := c.Mood("sleepy")
	assert.False(t, ok)
}

func TestProductAndRelated(t *testing.T) {
	c := mustDefault(t)

	p, ok := c.Product("14")
	require.True(t, ok)
	assert.Equal(t, "Smart Fitness Watch", p.Name)
	assert.Equal(t, "25% off", p.Deal)
	assert.Equal(t, []string{"8", "13"}, ids(c.Related("14")))

	_, ok = c.Product("99")
	assert.False(t, ok)
	assert.Nil(t, c.Related("99"))
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := mustDefault(t)

	p, _ := c.Product("1")
	p.Tags[0] = "mutated"
	p.Stock = 0

	again, _ := c.Product("1")
	assert.Equal(t, "men", again.Tags[0])
	assert.Equal(t, 12, again.Stock)

	deals := c.Deals()
	deals[0].Name = "changed"
	assert.Equal(t, "Urban Canvas Sneakers", c.Deals()[0].Name)
}

func TestByTags(t *testing.T) {
	c := mustDefault(t)

	assert.Equal(t, []string{"1", "7"}, ids(c.ByTags("leather")))
	assert.Equal(t, []string{"1", "7", "13"}, ids(c.ByTags("LEATHER", "yoga")))
	assert.Empty(t, c.ByTags("spacesuit"))
}

func TestMatchNames(t *testing.T) {
	c := mustDefault(t)

	got := c.MatchNames([]string{"retro sunglasses", "Yoga Mat (eco)", "", "Wool Beanie", "wool beanie"})
	assert.Equal(t, []string{"5", "9", "13"}, ids(got))
}

func TestMatchComplementary(t *testing.T) {
	c := mustDefault(t)

	got := c.MatchComplementary("Apparel", "casual", []string{"Retro Sunglasses"}, 6)
	assert.Equal(t, []string{"3", "4", "5", "6", "9", "11"}, ids(got))

	got = c.MatchComplementary("accessories", "", nil, 0)
	assert.NotContains(t, ids(got), "4", "same category as the main item is excluded")
	assert.Equal(t, []string{"3", "5", "6", "9", "11", "12", "13", "14"}, ids(got))
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("products: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("products:\n  - {id: \"1\", name: a}\n  - {id: \"1\", name: b}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("products: [ {name: a} ]"))
	assert.Error(t, err)
}

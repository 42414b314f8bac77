package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifySport(t *testing.T) {
	t.Parallel()

	c := New()
	got := c.Classify("Futbolli: Skuadra fiton kampionatin", "ndeshje e madhe", "aktualitet")
	require.Equal(t, "sport", got)
}

func TestClassifyFallsBackToDefault(t *testing.T) {
	t.Parallel()

	c := New()
	require.Equal(t, "aktualitet", c.Classify("Lajme lokale", "", "aktualitet"))
}

func TestClassifyTitleOutweighsDescription(t *testing.T) {
	t.Parallel()

	c := NewWithLexicons([]Lexicon{
		{Category: "sport", Keywords: []string{"futboll"}},
		{Category: "ekonomi", Keywords: []string{"treg"}},
	})

	// One title match (2 points) beats one description match (1 point).
	got := c.Classify("Futbolli sot", "tregu i aksioneve", "aktualitet")
	require.Equal(t, "sport", got)
}

func TestClassifyTieKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	c := NewWithLexicons([]Lexicon{
		{Category: "first", Keywords: []string{"alfa"}},
		{Category: "second", Keywords: []string{"beta"}},
	})

	got := c.Classify("alfa beta", "", "aktualitet")
	require.Equal(t, "first", got)
}

func TestClassifyCultureAndWorld(t *testing.T) {
	t.Parallel()

	c := New()
	require.Equal(t, "kulturë", c.Classify("Festival i muzikës", "", "aktualitet"))
	require.Equal(t, "botë", c.Classify("NATO mblidhet në Bruksel", "takim ndërkombëtar", "aktualitet"))
}

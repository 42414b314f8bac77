package dedupe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsImporter/internal/domain"
)

type fakeStore struct {
	existing     map[string]bool
	recent       []string
	recentCalls  int
	existsErr    error
	recentErr    error
	existsChecks []string
}

func (f *fakeStore) InsertArticle(ctx context.Context, a domain.Article) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeStore) ArticleExists(ctx context.Context, title string) (bool, error) {
	f.existsChecks = append(f.existsChecks, title)
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[title], nil
}

func (f *fakeStore) RecentTitles(ctx context.Context, limit int) ([]string, error) {
	f.recentCalls++
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

func (f *fakeStore) CategoriesBySlug(ctx context.Context) (map[string]int64, error) {
	return nil, errors.New("not implemented")
}

func TestSimilaritySymmetric(t *testing.T) {
	t.Parallel()

	a := "Qeveria miraton buxhetin e ri për vitin 2026"
	b := "Buxheti i ri për 2026 miratohet nga qeveria"
	require.Equal(t, Similarity(a, b), Similarity(b, a))
	require.Greater(t, Similarity(a, b), 0.0)
}

func TestSimilarityDisjointTitles(t *testing.T) {
	t.Parallel()

	require.Zero(t, Similarity("Ndeshja e futbollit", "Kriza ekonomike greke"))
}

func TestSimilarityIgnoresShortWords(t *testing.T) {
	t.Parallel()

	// Only words longer than three characters count.
	require.Zero(t, Similarity("a b c ide", "a b c mal"))
}

func TestSimilaritySharedMajority(t *testing.T) {
	t.Parallel()

	a := "Zjarri shkatërron fabrikën në Tiranë"
	b := "Zjarri në fabrikën e Tiranës shuhet"
	require.GreaterOrEqual(t, Similarity(a, b), 0.30)
}

func TestIsDuplicateExactMatch(t *testing.T) {
	t.Parallel()

	store := &fakeStore{existing: map[string]bool{"Lajmi kryesor": true}}
	d := NewDetector(store, Options{}, nil)
	require.True(t, d.IsDuplicate(context.Background(), "Lajmi kryesor"))
}

func TestIsDuplicateFuzzyFromCache(t *testing.T) {
	t.Parallel()

	store := &fakeStore{recent: []string{"Kryeministri njofton reformën e madhe tatimore"}}
	d := NewDetector(store, Options{SimilarityThreshold: 0.30}, nil)

	dup := d.IsDuplicate(context.Background(), "Reforma tatimore njoftohet nga kryeministri")
	require.True(t, dup)

	fresh := d.IsDuplicate(context.Background(), "Moti i keq mbyll portet në jug")
	require.False(t, fresh)
}

func TestIsDuplicateStoreFailureIsConservative(t *testing.T) {
	t.Parallel()

	store := &fakeStore{existsErr: errors.New("db down")}
	d := NewDetector(store, Options{}, nil)
	require.True(t, d.IsDuplicate(context.Background(), "Çfarëdo titulli"))
}

func TestCacheRefreshIsTimeBoxed(t *testing.T) {
	t.Parallel()

	store := &fakeStore{recent: []string{"Titull i vjetër i ruajtur më parë"}}
	d := NewDetector(store, Options{CacheTTL: time.Hour}, nil)

	ctx := context.Background()
	d.IsDuplicate(ctx, "Lajm i parë krejt ndryshe")
	d.IsDuplicate(ctx, "Lajm i dytë krejt tjetër")
	require.Equal(t, 1, store.recentCalls)
}

func TestRememberSeenWithinSameRun(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	d := NewDetector(store, Options{}, nil)
	ctx := context.Background()

	title := "Presidenti viziton rajonin e përmbytur"
	require.False(t, d.IsDuplicate(ctx, title))

	d.Remember(title)
	require.True(t, d.IsDuplicate(ctx, "Rajoni i përmbytur vizitohet nga presidenti"))
}

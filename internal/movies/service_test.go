package movies

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seedMovies() []Movie {
	return []Movie{
		{ID: "m1", Title: "Heat", Year: 1995, Director: "Michael Mann", Duration: 170, Rate: 8.3,
			Poster: "https://x.io/heat.jpg", Genre: []Genre{GenreAction, GenreCrime, GenreDrama}},
		{ID: "m2", Title: "Airplane!", Year: 1980, Director: "Jim Abrahams", Duration: 88, Rate: 7.7,
			Poster: "https://x.io/airplane.jpg", Genre: []Genre{GenreComedy}},
		{ID: "m3", Title: "Se7en", Year: 1995, Director: "David Fincher", Duration: 127, Rate: 8.6,
			Poster: "https://x.io/se7en.jpg", Genre: []Genre{GenreCrime, GenreDrama, GenreThriller}},
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	t.Run("no filter returns everything", func(t *testing.T) {
		got, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("filter is case insensitive", func(t *testing.T) {
		got, err := svc.ListByGenre(ctx, "cRiMe")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "m1", got[0].ID)
		assert.Equal(t, "m3", got[1].ID)
	})

	t.Run("filter matches whole names only", func(t *testing.T) {
		_, err := svc.ListByGenre(ctx, "Cri")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no match is not found", func(t *testing.T) {
		_, err := svc.ListByGenre(ctx, "Horror")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty genre matches nothing", func(t *testing.T) {
		_, err := svc.ListByGenre(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_List_FilterMatchingEverything(t *testing.T) {
	ctx := context.Background()
	only := []Movie{{ID: "x", Title: "Only", Year: 2000, Duration: 100, Rate: 5,
		Poster: "https://x.io/o.jpg", Genre: []Genre{GenreAction, GenreDrama}}}

	t.Run("default returns the list", func(t *testing.T) {
		svc := NewServiceFromMovies(only)
		got, err := svc.ListByGenre(ctx, "action")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "x", got[0].ID)
	})

	t.Run("legacy mode reports not found", func(t *testing.T) {
		svc := NewServiceFromMovies(only, WithLegacyGenreFilter(true))
		_, err := svc.ListByGenre(ctx, "action")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("legacy mode still returns partial matches", func(t *testing.T) {
		svc := NewServiceFromMovies(seedMovies(), WithLegacyGenreFilter(true))
		got, err := svc.ListByGenre(ctx, "comedy")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestService_List_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	got, err := svc.List(ctx)
	require.NoError(t, err)
	got[0].Title = "mutated"
	got[0].Genre[0] = GenreHorror

	again, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Heat", again.Title)
	assert.Equal(t, GenreAction, again.Genre[0])
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	m, err := svc.Get(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, "Airplane!", m.Title)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	in := MovieInput{
		Title:    ptr("Alien"),
		Year:     ptr(1979),
		Director: ptr("Ridley Scott"),
		Duration: ptr(117),
		Rate:     ptr(8.5),
		Poster:   ptr("https://x.io/alien.jpg"),
		Genre:    []Genre{GenreHorror, GenreSciFi},
	}

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	for _, m := range seedMovies() {
		assert.NotEqual(t, m.ID, created.ID)
	}
	assert.Equal(t, "Alien", created.Title)
	assert.Equal(t, 1979, created.Year)
	assert.Equal(t, "Ridley Scott", created.Director)
	assert.Equal(t, 117, created.Duration)
	assert.Equal(t, 8.5, created.Rate)
	assert.Equal(t, "https://x.io/alien.jpg", created.Poster)
	assert.Equal(t, []Genre{GenreHorror, GenreSciFi}, created.Genre)
	assert.Equal(t, 4, svc.Len())

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestService_Create_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"m1", "m2", "fresh"}
	next := 0
	gen := func() string {
		id := ids[next]
		next++
		return id
	}
	svc := NewServiceFromMovies(seedMovies(), WithIDGenerator(gen))

	created, err := svc.Create(ctx, MovieInput{Title: ptr("T"), Genre: []Genre{GenreDrama}})
	require.NoError(t, err)
	assert.Equal(t, "fresh", created.ID)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	updated, err := svc.Update(ctx, "m1", MovieInput{
		Year:  ptr(1996),
		Genre: []Genre{GenreThriller},
	})
	require.NoError(t, err)

	before := seedMovies()[0]
	assert.Equal(t, "m1", updated.ID)
	assert.Equal(t, 1996, updated.Year)
	assert.Equal(t, []Genre{GenreThriller}, updated.Genre)
	// Не присланные поля не меняются.
	assert.Equal(t, before.Title, updated.Title)
	assert.Equal(t, before.Director, updated.Director)
	assert.Equal(t, before.Duration, updated.Duration)
	assert.Equal(t, before.Rate, updated.Rate)
	assert.Equal(t, before.Poster, updated.Poster)

	got, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = svc.Update(ctx, "missing", MovieInput{Year: ptr(2000)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(seedMovies())

	require.NoError(t, svc.Delete(ctx, "m2"))
	assert.Equal(t, 2, svc.Len())

	_, err := svc.Get(ctx, "m2")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "m2"), ErrNotFound)
}

func TestService_RespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewServiceFromMovies(seedMovies())

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = svc.Create(ctx, MovieInput{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, svc.Delete(ctx, "m1"), context.Canceled)
	assert.Equal(t, 3, svc.Len())
}

func TestService_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc := NewServiceFromMovies(nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, MovieInput{Title: ptr(fmt.Sprintf("movie %d", i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	seen := make(map[string]bool, n)
	for _, m := range all {
		assert.False(t, seen[m.ID], "duplicate id %s", m.ID)
		seen[m.ID] = true
	}
}

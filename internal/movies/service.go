package movies

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound — фильма с таким id нет, или фильтр ничего не нашёл.
var ErrNotFound = errors.New("movie not found")

// Service — слой бизнес-логики и единственный владелец коллекции.
//
// Все чтения и изменения идут через методы сервиса под RWMutex:
// net/http обслуживает запросы параллельно.
type Service struct {
	mu     sync.RWMutex
	movies []Movie

	// legacyGenreFilter включает старое поведение List:
	// фильтр, совпавший со всей коллекцией, считается "не найдено".
	legacyGenreFilter bool
	newID             func() string
}

// Option настраивает Service.
type Option func(*Service)

// WithLegacyGenreFilter возвращает 404 на фильтр, совпавший со всеми фильмами.
func WithLegacyGenreFilter(enabled bool) Option {
	return func(s *Service) { s.legacyGenreFilter = enabled }
}

// WithIDGenerator подменяет генератор id (по умолчанию UUIDv4).
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService создаёт сервис и загружает фильмы из seed-файла.
// Принимаем ctx, чтобы даже инициализация уважала отмену.
func NewService(ctx context.Context, store *MovieStore, opts ...Option) (*Service, error) {
	loaded, err := store.LoadMovies(ctx)
	if err != nil {
		return nil, err
	}
	return NewServiceFromMovies(loaded, opts...), nil
}

// NewServiceFromMovies создаёт сервис поверх готового списка (копия снимается).
func NewServiceFromMovies(seed []Movie, opts ...Option) *Service {
	s := &Service{
		movies: make([]Movie, 0, len(seed)),
		newID:  uuid.NewString,
	}
	for _, m := range seed {
		s.movies = append(s.movies, m.clone())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает все фильмы.
func (s *Service) List(ctx context.Context) ([]Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.movies), nil
}

// ListByGenre возвращает фильмы, у которых есть жанр genre.
// Пустой genre — тоже фильтр: с ним ничего не совпадает.
func (s *Service) ListByGenre(ctx context.Context, genre string) ([]Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Movie, 0)
	for _, m := range s.movies {
		if m.HasGenre(genre) {
			out = append(out, m.clone())
		}
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	if s.legacyGenreFilter && len(out) == len(s.movies) {
		return nil, ErrNotFound
	}
	return out, nil
}

// Get возвращает фильм по id.
func (s *Service) Get(ctx context.Context, id string) (Movie, error) {
	if err := ctx.Err(); err != nil {
		return Movie{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return Movie{}, ErrNotFound
	}
	return s.movies[idx].clone(), nil
}

// Create добавляет фильм с новым уникальным id.
// in должен быть уже проверен ValidateMovie.
func (s *Service) Create(ctx context.Context, in MovieInput) (Movie, error) {
	if err := ctx.Err(); err != nil {
		return Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.indexOf(id) != -1 {
		id = s.newID()
	}

	created := in.apply(Movie{ID: id, Rate: DefaultRate})

	candidate := make([]Movie, 0, len(s.movies)+1)
	candidate = append(candidate, s.movies...)
	candidate = append(candidate, created)

	s.movies = candidate
	return created.clone(), nil
}

// Update накладывает присланные поля на фильм с данным id.
// Не присланные поля сохраняют прежние значения.
func (s *Service) Update(ctx context.Context, id string, in MovieInput) (Movie, error) {
	if err := ctx.Err(); err != nil {
		return Movie{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return Movie{}, ErrNotFound
	}

	updated := in.apply(s.movies[idx].clone())

	candidate := make([]Movie, len(s.movies))
	copy(candidate, s.movies)
	candidate[idx] = updated

	s.movies = candidate
	return updated.clone(), nil
}

// Delete удаляет фильм по id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return ErrNotFound
	}

	candidate := make([]Movie, 0, len(s.movies)-1)
	candidate = append(candidate, s.movies[:idx]...)
	candidate = append(candidate, s.movies[idx+1:]...)

	s.movies = candidate
	return nil
}

// Len — текущий размер коллекции.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// indexOf — линейный поиск; вызывать под блокировкой.
func (s *Service) indexOf(id string) int {
	for i := range s.movies {
		if s.movies[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(ms []Movie) []Movie {
	out := make([]Movie, len(ms))
	for i, m := range ms {
		out[i] = m.clone()
	}
	return out
}

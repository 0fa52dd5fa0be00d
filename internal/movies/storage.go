package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MovieStore отвечает за чтение seed-файла с фильмами.
//
// Файл читается один раз при старте; дальше коллекция живёт только в памяти
// сервиса, на диск ничего не пишется.
type MovieStore struct {
	filename string // путь к seed-файлу (например, movies.json)
}

// NewMovieStore создаёт хранилище поверх seed-файла.
func NewMovieStore(filename string) *MovieStore {
	return &MovieStore{filename: filename}
}

// Filename возвращает путь к seed-файлу.
func (ms *MovieStore) Filename() string {
	return ms.filename
}

// LoadMovies загружает фильмы из файла.
//
// Отсутствующий или пустой файл — не ошибка, просто пустая коллекция.
// Записи не валидируются повторно, проверяется только уникальность id.
func (ms *MovieStore) LoadMovies(ctx context.Context) ([]Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ms.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return []Movie{}, nil
		}
		return nil, fmt.Errorf("read seed file %s: %w", ms.filename, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return []Movie{}, nil
	}

	var movies []Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", ms.filename, err)
	}

	seen := make(map[string]struct{}, len(movies))
	for i, m := range movies {
		if m.ID == "" {
			return nil, fmt.Errorf("seed file %s: movie #%d has no id", ms.filename, i)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("seed file %s: duplicate id %q", ms.filename, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

// LoadRaw возвращает записи seed-файла как сырой JSON — для check-seed,
// которому нужно прогнать каждую запись через полную валидацию.
func (ms *MovieStore) LoadRaw(ctx context.Context) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ms.filename)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", ms.filename, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", ms.filename, err)
	}
	return records, nil
}

package movies

import "strings"

// Genre — значение из закрытого набора жанров.
type Genre string

const (
	GenreAction    Genre = "Action"
	GenreAdventure Genre = "Adventure"
	GenreComedy    Genre = "Comedy"
	GenreDrama     Genre = "Drama"
	GenreSciFi     Genre = "Sci-Fi"
	GenreHorror    Genre = "Horror"
	GenreThriller  Genre = "Thriller"
	GenreCrime     Genre = "Crime"
)

// Genres перечисляет допустимые жанры в каноническом порядке.
var Genres = []Genre{
	GenreAction, GenreAdventure, GenreComedy, GenreDrama,
	GenreSciFi, GenreHorror, GenreThriller, GenreCrime,
}

// DefaultRate подставляется при создании, если rate не прислали.
const DefaultRate = 5.0

// Movie — модель фильма.
//
// Хранится в памяти и сериализуется в JSON (для API и seed-файла).
type Movie struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Year     int     `json:"year"`
	Director string  `json:"director"`
	Duration int     `json:"duration"`
	Rate     float64 `json:"rate"`
	Poster   string  `json:"poster"`
	Genre    []Genre `json:"genre"`
}

// HasGenre сравнивает жанры без учёта регистра, но целиком (не подстрокой).
func (m Movie) HasGenre(name string) bool {
	for _, g := range m.Genre {
		if strings.EqualFold(string(g), name) {
			return true
		}
	}
	return false
}

// clone отдаёт копию со своим слайсом жанров, чтобы вызывающий код
// не мог поменять состояние сервиса через общий backing array.
func (m Movie) clone() Movie {
	out := m
	if m.Genre != nil {
		out.Genre = append([]Genre(nil), m.Genre...)
	}
	return out
}

// MovieInput описывает контракт входящего JSON для POST и PATCH.
//
// Поля — указатели: nil значит "поле не прислали". Это нужно для частичного
// обновления. Правила валидации лежат в тегах validate, см. validate.go.
type MovieInput struct {
	Title    *string  `json:"title"`
	Year     *int     `json:"year"`
	Director *string  `json:"director"`
	Duration *int     `json:"duration"`
	Rate     *float64 `json:"rate"`
	Poster   *string  `json:"poster"`
	Genre    []Genre  `json:"genre"`
}

// apply накладывает присланные поля поверх m.
func (in MovieInput) apply(m Movie) Movie {
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Year != nil {
		m.Year = *in.Year
	}
	if in.Director != nil {
		m.Director = *in.Director
	}
	if in.Duration != nil {
		m.Duration = *in.Duration
	}
	if in.Rate != nil {
		m.Rate = *in.Rate
	}
	if in.Poster != nil {
		m.Poster = *in.Poster
	}
	if in.Genre != nil {
		m.Genre = append([]Genre(nil), in.Genre...)
	}
	return m
}

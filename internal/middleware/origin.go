package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// AllowedMethods — то, что объявляем в ответе на pre-flight.
// PUT объявлен, хотя маршрута под него нет: клиенты уже на это рассчитывают.
var AllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// OriginGate зеркалит Origin в Access-Control-Allow-Origin, если он в списке.
//
// Это не защита: запрос с чужим Origin всё равно обрабатывается,
// просто ответ уходит без CORS-заголовков и браузер клиента его не примет.
// Запрос без Origin считается same-origin и заголовков не требует.
type OriginGate struct {
	allowed map[string]struct{}
}

// NewOriginGate создаёт гейт по статическому списку origin'ов.
func NewOriginGate(origins []string) *OriginGate {
	g := &OriginGate{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		g.allowed[o] = struct{}{}
	}
	return g
}

// Allowed сообщает, можно ли отдавать ответ этому origin.
// Пустой origin (заголовка нет) всегда разрешён.
func (g *OriginGate) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	_, ok := g.allowed[origin]
	return ok
}

// mirror выставляет Allow-Origin и возвращает, разрешён ли origin.
func (g *OriginGate) mirror(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if !slices.Contains(w.Header().Values("Vary"), "Origin") {
		w.Header().Add("Vary", "Origin")
	}
	if !g.Allowed(origin) {
		return false
	}
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	return true
}

// Middleware навешивает Allow-Origin на обычные запросы.
func (g *OriginGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mirror(w, r)
		next.ServeHTTP(w, r)
	})
}

// Preflight отвечает на OPTIONS: 200 с пустым телом,
// а для разрешённого origin ещё и список методов.
func (g *OriginGate) Preflight(w http.ResponseWriter, r *http.Request) {
	if g.mirror(w, r) {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ", "))
	}
	w.WriteHeader(http.StatusOK)
}

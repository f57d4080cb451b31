// Package listing implementa el patrón de listado del tablero: búsqueda sin distinción de
// mayúsculas sobre una concatenación de campos, orden, paginación de tamaño fijo y el tablero
// kanban de pedidos.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPageSize filas por página.
const DefaultPageSize = 5

// Query parámetros de un listado.
type Query struct {
	Search string
	Page   int
	Sort   string
	Desc   bool
}

// Spec describe cómo buscar y ordenar un recurso.
type Spec[T any] struct {
	// Haystack concatenación de los campos sobre los que se busca.
	Haystack func(T) string
	// Sorts comparadores por nombre de campo.
	Sorts map[string]func(a, b T) int
}

// Page una página del resultado filtrado y ordenado.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"pagina"`
	PageSize   int `json:"tamano_pagina"`
	TotalItems int `json:"total"`
	TotalPages int `json:"total_paginas"`
}

// Filter subcadena sin distinción de mayúsculas (plegado Unicode). Término vacío = todo.
func Filter[T any](items []T, term string, haystack func(T) string) []T {
	term = strings.TrimSpace(term)
	out := make([]T, 0, len(items))
	if term == "" || haystack == nil {
		return append(out, items...)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	for _, it := range items {
		if strings.Contains(fold.String(haystack(it)), needle) {
			out = append(out, it)
		}
	}
	return out
}

// SortBy orden estable sobre una copia. cmp nil deja el orden original.
func SortBy[T any](items []T, cmp func(a, b T) int, desc bool) []T {
	out := slices.Clone(items)
	if cmp == nil {
		return out
	}
	if desc {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
	} else {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Paginate corta la página indicada. Las páginas empiezan en 1 y se acotan al rango válido.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}
	start := min((page-1)*size, total)
	end := min(start+size, total)
	return Page[T]{
		Items:      append(make([]T, 0, end-start), items[start:end]...),
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Apply filtra, ordena y pagina.
func Apply[T any](items []T, q Query, spec Spec[T], size int) Page[T] {
	filtered := Filter(items, q.Search, spec.Haystack)
	var cmp func(a, b T) int
	if q.Sort != "" {
		cmp = spec.Sorts[q.Sort]
	}
	return Paginate(SortBy(filtered, cmp, q.Desc), q.Page, size)
}

// Join concatena campos para formar el haystack.
func Join(fields ...string) string {
	return strings.Join(fields, " ")
}

package listing

import "github.com/nextmeal/backoffice/internal/domain/order"

// Column columna del tablero de pedidos.
type Column[T any] struct {
	Status    order.Status `json:"estado"`
	Title     string       `json:"titulo"`
	Draggable bool         `json:"arrastrable"`
	Cards     []T          `json:"tarjetas"`
}

// Board agrupa el conjunto ya filtrado en las cuatro columnas fijas, en ese orden.
// Los elementos con un estado desconocido no aparecen.
func Board[T any](items []T, status func(T) string) []Column[T] {
	cols := order.Columns()
	out := make([]Column[T], len(cols))
	index := make(map[order.Status]int, len(cols))
	for i, s := range cols {
		out[i] = Column[T]{Status: s, Title: s.Label(), Draggable: order.CanDrag(s), Cards: []T{}}
		index[s] = i
	}
	for _, it := range items {
		if i, ok := index[order.Status(status(it))]; ok {
			out[i].Cards = append(out[i].Cards, it)
		}
	}
	return out
}

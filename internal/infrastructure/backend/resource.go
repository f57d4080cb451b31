package backend

import (
	"context"
	"net/http"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// resource operaciones CRUD comunes sobre una ruta base.
type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r resource[T]) get(ctx context.Context, id int64) (*T, error) {
	out := new(T)
	if err := r.c.do(ctx, http.MethodGet, idPath(r.path, id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// create decodifica la respuesta sobre una copia de in: lo que el servidor no devuelva se conserva.
func (r resource[T]) create(ctx context.Context, in *T) (*T, error) {
	out := *in
	if err := r.c.do(ctx, http.MethodPost, r.path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) update(ctx context.Context, id int64, in *T) (*T, error) {
	out := *in
	if err := r.c.do(ctx, http.MethodPut, idPath(r.path, id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, http.MethodDelete, idPath(r.path, id), nil, nil, nil)
}

type statusBody struct {
	Estado string `json:"estado"`
}

// toggle envía el inverso de current a <ruta>/:id/estado.
func (r resource[T]) toggle(ctx context.Context, id int64, current entity.Estado) (entity.Estado, error) {
	next := current.Toggle()
	if err := r.c.do(ctx, http.MethodPatch, idPath(r.path, id, "estado"), nil, statusBody{Estado: string(next)}, nil); err != nil {
		return current, err
	}
	return next, nil
}

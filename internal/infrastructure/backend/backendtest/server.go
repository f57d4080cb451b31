// Package backendtest levanta un backend REST de pedidos en memoria para pruebas. Cuenta las
// peticiones por ruta para poder afirmar que una operación no llegó a emitir ninguna llamada.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// Envelope forma del cuerpo de éxito.
type Envelope int

const (
	EnvelopeData   Envelope = iota // {data: X}
	EnvelopeNested                 // {data: {data: X}}
	EnvelopeBare                   // X
)

type failure struct {
	status int
	body   any
}

// Server backend falso. Los campos exportados se pueden ajustar antes de las llamadas.
type Server struct {
	*httptest.Server

	// RequireAuth exige bearer válido en todas las rutas salvo login y recuperación.
	RequireAuth bool
	// NoPatch responde 405 a PATCH /productos/{id}/estado.
	NoPatch bool
	// Envelope forma de las respuestas de éxito.
	Envelope Envelope

	mu       sync.Mutex
	counts   map[string]int
	failures map[string]failure
	tokens   map[string]int64
	seq      int

	clients     *table[entity.Client]
	categories  *table[entity.Category]
	products    *table[entity.Product]
	orders      *table[entity.Order]
	sales       *table[entity.Sale]
	users       *table[entity.User]
	roles       *table[entity.Role]
	permissions *table[entity.Permission]

	resetRequests []string
}

// New arranca el servidor y lo cierra al terminar el test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		counts:      make(map[string]int),
		failures:    make(map[string]failure),
		tokens:      make(map[string]int64),
		clients:     newTable("Cliente", func(v *entity.Client) *int64 { return &v.ID }),
		categories:  newTable("Categoría", func(v *entity.Category) *int64 { return &v.ID }),
		products:    newTable("Producto", func(v *entity.Product) *int64 { return &v.ID }),
		orders:      newTable("Pedido", func(v *entity.Order) *int64 { return &v.ID }),
		sales:       newTable("Venta", func(v *entity.Sale) *int64 { return &v.ID }),
		users:       newTable("Usuario", func(v *entity.User) *int64 { return &v.ID }),
		roles:       newTable("Rol", func(v *entity.Role) *int64 { return &v.ID }),
		permissions: newTable("Permiso", func(v *entity.Permission) *int64 { return &v.ID }),
	}
	mux := http.NewServeMux()
	s.routes(mux)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Count número de peticiones recibidas para el patrón, p. ej. "PATCH /pedidos/{id}/estado".
func (s *Server) Count(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[pattern]
}

// Total número de peticiones recibidas en cualquier ruta.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Fail hace que el patrón responda siempre status con body.
func (s *Server) Fail(pattern string, status int, body any) {
	s.mu.Lock()
	s.failures[pattern] = failure{status: status, body: body}
	s.mu.Unlock()
}

// Recover elimina el fallo forzado del patrón.
func (s *Server) Recover(pattern string) {
	s.mu.Lock()
	delete(s.failures, pattern)
	s.mu.Unlock()
}

// IssueToken emite un bearer válido para el usuario sin pasar por login.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

// Revoke invalida un bearer, como si hubiera expirado en el servidor.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// ResetRequests correos para los que se pidió recuperar la contraseña.
func (s *Server) ResetRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resetRequests...)
}

func (s *Server) issueLocked(userID int64) string {
	s.seq++
	tok := fmt.Sprintf("tok-%d-%d", userID, s.seq)
	s.tokens[tok] = userID
	return tok
}

// Semillas.

func (s *Server) AddClient(v entity.Client) entity.Client       { return lockedAdd(s, s.clients, v) }
func (s *Server) AddCategory(v entity.Category) entity.Category { return lockedAdd(s, s.categories, v) }
func (s *Server) AddProduct(v entity.Product) entity.Product    { return lockedAdd(s, s.products, v) }
func (s *Server) AddOrder(v entity.Order) entity.Order          { return lockedAdd(s, s.orders, v) }
func (s *Server) AddSale(v entity.Sale) entity.Sale             { return lockedAdd(s, s.sales, v) }
func (s *Server) AddRole(v entity.Role) entity.Role             { return lockedAdd(s, s.roles, v) }
func (s *Server) AddPermission(v entity.Permission) entity.Permission {
	return lockedAdd(s, s.permissions, v)
}

// AddUser registra un usuario con su contraseña en claro.
func (s *Server) AddUser(v entity.User, password string) entity.User {
	v.Password = password
	if v.Status == "" {
		v.Status = entity.EstadoActivo
	}
	out := lockedAdd(s, s.users, v)
	out.Password = ""
	return out
}

// Lecturas del estado del servidor.

func (s *Server) Client(id int64) (entity.Client, bool)     { return lockedGet(s, s.clients, id) }
func (s *Server) Category(id int64) (entity.Category, bool) { return lockedGet(s, s.categories, id) }
func (s *Server) Product(id int64) (entity.Product, bool)   { return lockedGet(s, s.products, id) }
func (s *Server) Order(id int64) (entity.Order, bool)       { return lockedGet(s, s.orders, id) }
func (s *Server) Sale(id int64) (entity.Sale, bool)         { return lockedGet(s, s.sales, id) }
func (s *Server) User(id int64) (entity.User, bool)         { return lockedGet(s, s.users, id) }

// Permissions permisos guardados para un rol.
func (s *Server) Permissions(roleID int64) []entity.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissionsOfLocked(roleID)
}

func (s *Server) permissionsOfLocked(roleID int64) []entity.Permission {
	out := []entity.Permission{}
	for _, p := range s.permissions.list() {
		if p.RoleID == roleID {
			out = append(out, p)
		}
	}
	return out
}

func lockedAdd[T any](s *Server, t *table[T], v T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.add(v)
}

func lockedGet[T any](s *Server, t *table[T], id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.get(id)
}

// table almacenamiento ordenado por id.
type table[T any] struct {
	name string
	rows map[int64]T
	next int64
	id   func(*T) *int64
}

func newTable[T any](name string, id func(*T) *int64) *table[T] {
	return &table[T]{name: name, rows: make(map[int64]T), id: id}
}

func (t *table[T]) add(v T) T {
	p := t.id(&v)
	if *p == 0 {
		t.next++
		*p = t.next
	} else if *p > t.next {
		t.next = *p
	}
	t.rows[*p] = v
	return v
}

func (t *table[T]) get(id int64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) list() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) notFound() map[string]string {
	return map[string]string{"mensaje": t.name + " no encontrado"}
}

// Utilidades HTTP.

func (s *Server) handle(mux *http.ServeMux, pattern string, public bool, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[pattern]++
		fail, failing := s.failures[pattern]
		requireAuth := s.RequireAuth
		s.mu.Unlock()

		if failing {
			writeJSON(w, fail.status, fail.body)
			return
		}
		if requireAuth && !public {
			if _, ok := s.bearerUser(r); !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"mensaje": "Token inválido o expirado"})
				return
			}
		}
		h(w, r)
	})
}

func (s *Server) bearerUser(r *http.Request) (int64, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || tok == "" {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	uid, ok := s.tokens[tok]
	return uid, ok
}

func (s *Server) ok(w http.ResponseWriter, status int, payload any) {
	s.mu.Lock()
	env := s.Envelope
	s.mu.Unlock()
	switch env {
	case EnvelopeData:
		payload = map[string]any{"data": payload}
	case EnvelopeNested:
		payload = map[string]any{"data": map[string]any{"data": payload}}
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"mensaje": msg})
}

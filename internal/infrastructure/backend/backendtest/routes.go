package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nextmeal/backoffice/internal/domain/entity"
)

type crudOpts[T any] struct {
	status   func(*T) *entity.Estado
	validate func(v *T, id int64) (int, any)
	view     func(T) T
}

func (s *Server) routes(mux *http.ServeMux) {
	registerCRUD(s, mux, "/clientes", s.clients, crudOpts[entity.Client]{
		status: func(v *entity.Client) *entity.Estado { return &v.Status },
	})
	registerCRUD(s, mux, "/categoria", s.categories, crudOpts[entity.Category]{
		status: func(v *entity.Category) *entity.Estado { return &v.Status },
	})
	registerCRUD(s, mux, "/productos", s.products, crudOpts[entity.Product]{
		status:   func(v *entity.Product) *entity.Estado { return &v.Status },
		validate: s.validateProduct,
	})
	registerCRUD(s, mux, "/pedidos", s.orders, crudOpts[entity.Order]{
		validate: s.validateOrder,
	})
	registerCRUD(s, mux, "/ventas", s.sales, crudOpts[entity.Sale]{
		validate: s.validateSale,
	})
	registerCRUD(s, mux, "/rol", s.roles, crudOpts[entity.Role]{
		view: func(r entity.Role) entity.Role {
			r.Permissions = s.permissionsOfLocked(r.ID)
			return r
		},
	})
	registerCRUD(s, mux, "/permiso", s.permissions, crudOpts[entity.Permission]{})
	registerCRUD(s, mux, "/autenticacion/usuarios", s.users, crudOpts[entity.User]{
		status: func(v *entity.User) *entity.Estado { return &v.Status },
		view: func(u entity.User) entity.User {
			u.Password = ""
			return u
		},
	})

	s.handle(mux, "GET /pedidos/pedido", false, s.ordersByStatus)
	s.handle(mux, "PATCH /pedidos/{id}/estado", false, s.changeOrderStatus)
	s.handle(mux, "GET /permiso/rol/{id}", false, s.permissionsByRole)
	s.handle(mux, "GET /permiso/usuario/{id}", false, s.permissionsByUser)

	s.handle(mux, "POST /autenticacion/login", true, s.login)
	s.handle(mux, "POST /autenticacion/logout", false, s.logout)
	s.handle(mux, "GET /autenticacion/usuario-autenticado", true, s.currentUser)
	s.handle(mux, "POST /autenticacion/register", false, s.register)
	s.handle(mux, "POST /autenticacion/recuperar-password", true, s.requestReset)
	s.handle(mux, "POST /autenticacion/restablecer-password", true, s.resetPassword)
}

func registerCRUD[T any](s *Server, mux *http.ServeMux, base string, t *table[T], o crudOpts[T]) {
	view := o.view
	if view == nil {
		view = func(v T) T { return v }
	}

	s.handle(mux, "GET "+base, false, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		rows := t.list()
		for i := range rows {
			rows[i] = view(rows[i])
		}
		s.mu.Unlock()
		s.ok(w, http.StatusOK, rows)
	})

	s.handle(mux, "GET "+base+"/{id}", false, func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		s.mu.Lock()
		v, found := t.get(id)
		if found {
			v = view(v)
		}
		s.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusNotFound, t.notFound())
			return
		}
		s.ok(w, http.StatusOK, v)
	})

	s.handle(mux, "POST "+base, false, func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			badRequest(w, "JSON inválido")
			return
		}
		*t.id(&v) = 0
		s.mu.Lock()
		if o.validate != nil {
			if status, body := o.validate(&v, 0); status != 0 {
				s.mu.Unlock()
				writeJSON(w, status, body)
				return
			}
		}
		v = view(t.add(v))
		s.mu.Unlock()
		s.ok(w, http.StatusCreated, v)
	})

	s.handle(mux, "PUT "+base+"/{id}", false, func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			badRequest(w, "cuerpo ilegible")
			return
		}
		s.mu.Lock()
		v, found := t.get(id)
		if !found {
			s.mu.Unlock()
			writeJSON(w, http.StatusNotFound, t.notFound())
			return
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			s.mu.Unlock()
			badRequest(w, "JSON inválido")
			return
		}
		*t.id(&v) = id
		if o.validate != nil {
			if status, body := o.validate(&v, id); status != 0 {
				s.mu.Unlock()
				writeJSON(w, status, body)
				return
			}
		}
		t.rows[id] = v
		v = view(v)
		s.mu.Unlock()
		s.ok(w, http.StatusOK, v)
	})

	s.handle(mux, "DELETE "+base+"/{id}", false, func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		s.mu.Lock()
		_, found := t.get(id)
		delete(t.rows, id)
		s.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusNotFound, t.notFound())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"mensaje": t.name + " eliminado"})
	})

	if o.status == nil {
		return
	}
	s.handle(mux, "PATCH "+base+"/{id}/estado", false, func(w http.ResponseWriter, r *http.Request) {
		if base == "/productos" && s.noPatch() {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"mensaje": "Método no permitido"})
			return
		}
		id, _ := pathID(r)
		var body struct {
			Estado entity.Estado `json:"estado"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Estado.Valid() {
			badRequest(w, "Estado inválido")
			return
		}
		s.mu.Lock()
		v, found := t.get(id)
		if found {
			*o.status(&v) = body.Estado
			t.rows[id] = v
			v = view(v)
		}
		s.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusNotFound, t.notFound())
			return
		}
		s.ok(w, http.StatusOK, v)
	})
}

func (s *Server) noPatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.NoPatch
}

// Validaciones del backend (se ejecutan con s.mu tomado).

func (s *Server) validateProduct(p *entity.Product, id int64) (int, any) {
	if p.Status == "" {
		p.Status = entity.EstadoActivo
	}
	if p.Status != entity.EstadoActivo {
		return 0, nil
	}
	for _, other := range s.products.list() {
		if other.ID != id && other.Status == entity.EstadoActivo && strings.EqualFold(other.Name, p.Name) {
			return http.StatusBadRequest, map[string]any{
				"errores": []map[string]string{{"msg": "Ya existe un producto activo con ese nombre"}},
			}
		}
	}
	return 0, nil
}

func (s *Server) validateOrder(o *entity.Order, _ int64) (int, any) {
	if _, ok := s.clients.get(o.ClientID); !ok {
		return http.StatusBadRequest, map[string]string{"mensaje": "El cliente no existe"}
	}
	if o.Status == "" {
		o.Status = "pendiente"
	}
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].LineSubtotal()
		total = total.Add(o.Items[i].Subtotal)
	}
	o.Total = total
	return 0, nil
}

func (s *Server) validateSale(v *entity.Sale, _ int64) (int, any) {
	o, ok := s.orders.get(v.OrderID)
	if !ok {
		return http.StatusBadRequest, map[string]string{"mensaje": "El pedido no existe"}
	}
	if o.Status != "terminado" {
		return http.StatusBadRequest, map[string]string{"mensaje": "El pedido no está terminado"}
	}
	if v.Total.IsZero() {
		v.Total = o.Total
	}
	return 0, nil
}

// Rutas específicas.

func (s *Server) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	want := r.URL.Query().Get("estado")
	s.mu.Lock()
	out := []entity.Order{}
	for _, o := range s.orders.list() {
		if want == "" || o.Status == want {
			out = append(out, o)
		}
	}
	s.mu.Unlock()
	s.ok(w, http.StatusOK, out)
}

func (s *Server) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var body struct {
		Estado string `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Estado == "" {
		badRequest(w, "Estado inválido")
		return
	}
	s.mu.Lock()
	o, found := s.orders.get(id)
	if found {
		o.Status = body.Estado
		s.orders.rows[id] = o
	}
	s.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, s.orders.notFound())
		return
	}
	s.ok(w, http.StatusOK, o)
}

func (s *Server) permissionsByRole(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	out := s.permissionsOfLocked(id)
	s.mu.Unlock()
	s.ok(w, http.StatusOK, out)
}

func (s *Server) permissionsByUser(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	u, found := s.users.get(id)
	var out []entity.Permission
	if found {
		out = s.permissionsOfLocked(u.RoleID)
	}
	s.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusNotFound, s.users.notFound())
		return
	}
	s.ok(w, http.StatusOK, out)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"correo"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "JSON inválido")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errores": []string{"El correo es obligatorio", "La contraseña es obligatoria"},
		})
		return
	}
	s.mu.Lock()
	var user *entity.User
	for _, u := range s.users.list() {
		if strings.EqualFold(u.Email, body.Email) && u.Password == body.Password {
			u := u
			user = &u
			break
		}
	}
	if user == nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"mensaje": "Credenciales inválidas"})
		return
	}
	if user.Status == entity.EstadoInactivo {
		s.mu.Unlock()
		writeJSON(w, http.StatusForbidden, map[string]string{"mensaje": "Usuario inactivo"})
		return
	}
	tok := s.issueLocked(user.ID)
	s.mu.Unlock()
	user.Password = ""
	s.ok(w, http.StatusOK, map[string]any{"token": tok, "usuario": user})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.Revoke(tok)
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Sesión cerrada"})
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := s.bearerUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"mensaje": "Token inválido o expirado"})
		return
	}
	s.mu.Lock()
	u, found := s.users.get(uid)
	s.mu.Unlock()
	if !found {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"mensaje": "Usuario no encontrado"})
		return
	}
	u.Password = ""
	s.ok(w, http.StatusOK, map[string]any{"usuario": u})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var u entity.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		badRequest(w, "JSON inválido")
		return
	}
	u.ID = 0
	if u.Status == "" {
		u.Status = entity.EstadoActivo
	}
	s.mu.Lock()
	for _, other := range s.users.list() {
		if strings.EqualFold(other.Email, u.Email) {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"mensaje": "El correo ya está registrado"})
			return
		}
	}
	u = s.users.add(u)
	s.mu.Unlock()
	u.Password = ""
	s.ok(w, http.StatusCreated, u)
}

func (s *Server) requestReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"correo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		badRequest(w, "El correo es obligatorio")
		return
	}
	s.mu.Lock()
	s.resetRequests = append(s.resetRequests, body.Email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Si el correo existe, se enviaron instrucciones"})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "JSON inválido")
		return
	}
	if body.Token != "reset-valido" {
		badRequest(w, "Token de recuperación inválido o expirado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "Contraseña actualizada"})
}

package forms

import (
	"strings"

	"github.com/nextmeal/backoffice/internal/application/dto"
	"github.com/nextmeal/backoffice/internal/domain/entity"
)

// Pasos del formulario de cliente.
const (
	ClientStepPersonal = 1
	ClientStepContact  = 2
)

// ClientForm datos personales → contacto.
var ClientForm = NewValidator(
	Field[dto.ClientRequest]{Name: "nombre_completo", Step: ClientStepPersonal, Check: All(
		Required(func(r dto.ClientRequest) string { return r.FullName }, "El nombre es obligatorio"),
		Tag(func(r dto.ClientRequest) any { return strings.TrimSpace(r.FullName) }, "min=3,max=100", "El nombre debe tener entre 3 y 100 caracteres"),
	)},
	Field[dto.ClientRequest]{Name: "tipo_documento", Step: ClientStepPersonal, Check: Tag(
		func(r dto.ClientRequest) any { return r.DocumentType }, "required,oneof=CC CE TI NIT PAS", "Seleccione un tipo de documento válido"),
	},
	Field[dto.ClientRequest]{Name: "numero_documento", Step: ClientStepPersonal, Check: Tag(
		func(r dto.ClientRequest) any { return r.DocumentNumber }, "required,numeric,min=5,max=15", "El documento debe tener entre 5 y 15 dígitos"),
	},
	Field[dto.ClientRequest]{Name: "genero", Step: ClientStepPersonal, Check: Tag(
		func(r dto.ClientRequest) any { return r.Gender }, "omitempty,oneof=masculino femenino otro", "Seleccione un género válido"),
	},
	Field[dto.ClientRequest]{Name: "correo", Step: ClientStepContact, Check: Tag(
		func(r dto.ClientRequest) any { return r.Email }, "required,email", "Ingrese un correo válido"),
	},
	Field[dto.ClientRequest]{Name: "telefono", Step: ClientStepContact, Check: Tag(
		func(r dto.ClientRequest) any { return r.Phone }, "required,numeric,min=7,max=10", "El teléfono debe tener entre 7 y 10 dígitos"),
	},
	Field[dto.ClientRequest]{Name: "direccion", Step: ClientStepContact, Check: Required(
		func(r dto.ClientRequest) string { return r.Address }, "La dirección es obligatoria"),
	},
)

// ProductForm valida un producto. active es la lista cargada en pantalla: la unicidad del
// nombre se comprueba contra ella y el backend tiene la última palabra.
func ProductForm(active []entity.Product, editingID int64) *Validator[dto.ProductRequest] {
	return NewValidator(
		Field[dto.ProductRequest]{Name: "nombre", Check: All(
			Required(func(r dto.ProductRequest) string { return r.Name }, "El nombre es obligatorio"),
			func(r dto.ProductRequest) string {
				if NameTaken(active, r.Name, editingID) {
					return "Ya existe un producto activo con ese nombre"
				}
				return ""
			},
		)},
		Field[dto.ProductRequest]{Name: "precio", Check: func(r dto.ProductRequest) string {
			if !r.Price.IsPositive() {
				return "El precio debe ser mayor que cero"
			}
			return ""
		}},
		Field[dto.ProductRequest]{Name: "cantidad", Check: Tag(
			func(r dto.ProductRequest) any { return r.Quantity }, "min=0", "La cantidad no puede ser negativa"),
		},
		Field[dto.ProductRequest]{Name: "id_categoria", Check: Positive(
			func(r dto.ProductRequest) int64 { return r.CategoryID }, "Seleccione una categoría"),
		},
		Field[dto.ProductRequest]{Name: "estado", Check: statusCheck(func(r dto.ProductRequest) string { return r.Status })},
	)
}

// NameTaken indica si otro producto activo ya usa el nombre (sin distinguir mayúsculas).
func NameTaken(products []entity.Product, name string, exceptID int64) bool {
	name = strings.TrimSpace(name)
	for _, p := range products {
		if p.ID != exceptID && p.Status == entity.EstadoActivo && strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return true
		}
	}
	return false
}

// CategoryForm valida una categoría.
var CategoryForm = NewValidator(
	Field[dto.CategoryRequest]{Name: "nombre", Check: All(
		Required(func(r dto.CategoryRequest) string { return r.Name }, "El nombre es obligatorio"),
		Tag(func(r dto.CategoryRequest) any { return r.Name }, "max=60", "El nombre admite hasta 60 caracteres"),
	)},
	Field[dto.CategoryRequest]{Name: "descripcion", Check: Tag(
		func(r dto.CategoryRequest) any { return r.Description }, "max=255", "La descripción admite hasta 255 caracteres"),
	},
	Field[dto.CategoryRequest]{Name: "estado", Check: statusCheck(func(r dto.CategoryRequest) string { return r.Status })},
)

// UserForm valida un usuario. creating exige contraseña.
func UserForm(creating bool) *Validator[dto.UserRequest] {
	passwordTag := "omitempty,min=6"
	if creating {
		passwordTag = "required,min=6"
	}
	return NewValidator(
		Field[dto.UserRequest]{Name: "nombre", Check: Required(func(r dto.UserRequest) string { return r.Name }, "El nombre es obligatorio")},
		Field[dto.UserRequest]{Name: "correo", Check: Tag(func(r dto.UserRequest) any { return r.Email }, "required,email", "Ingrese un correo válido")},
		Field[dto.UserRequest]{Name: "password", Check: Tag(func(r dto.UserRequest) any { return r.Password }, passwordTag, "La contraseña debe tener al menos 6 caracteres")},
		Field[dto.UserRequest]{Name: "id_rol", Check: Positive(func(r dto.UserRequest) int64 { return r.RoleID }, "Seleccione un rol")},
		Field[dto.UserRequest]{Name: "estado", Check: statusCheck(func(r dto.UserRequest) string { return r.Status })},
	)
}

// RoleForm valida un rol.
var RoleForm = NewValidator(
	Field[dto.RoleRequest]{Name: "nombre", Check: Required(func(r dto.RoleRequest) string { return r.Name }, "El nombre es obligatorio")},
)

// LoginForm valida las credenciales antes de llamar al backend.
var LoginForm = NewValidator(
	Field[dto.LoginRequest]{Name: "correo", Check: Tag(func(r dto.LoginRequest) any { return r.Email }, "required,email", "Ingrese un correo válido")},
	Field[dto.LoginRequest]{Name: "password", Check: Required(func(r dto.LoginRequest) string { return r.Password }, "La contraseña es obligatoria")},
)

// PasswordChangeForm valida el restablecimiento de contraseña.
var PasswordChangeForm = NewValidator(
	Field[dto.PasswordChangeRequest]{Name: "token", Check: Required(func(r dto.PasswordChangeRequest) string { return r.Token }, "El enlace de recuperación no es válido")},
	Field[dto.PasswordChangeRequest]{Name: "password", Check: Tag(func(r dto.PasswordChangeRequest) any { return r.Password }, "required,min=6", "La contraseña debe tener al menos 6 caracteres")},
)

// statusCheck vacío se acepta (el caso de uso aplica activo por defecto).
func statusCheck[T any](get func(T) string) func(T) string {
	return func(in T) string {
		s := get(in)
		if s == "" || entity.Estado(s).Valid() {
			return ""
		}
		return "El estado debe ser activo o inactivo"
	}
}

package entity

// User usuario del tablero. Password solo se envía al crear o cambiar la credencial.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"password,omitempty"`
	RoleID   int64  `json:"id_rol"`
	Status   Estado `json:"estado"`
}

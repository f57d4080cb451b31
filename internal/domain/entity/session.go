package entity

import "time"

// Session sesión del back-office. Token es el bearer del backend; nunca sale hacia el cliente.
type Session struct {
	ID                string       `json:"id"`
	Token             string       `json:"token"`
	User              User         `json:"usuario"`
	Permissions       []Permission `json:"permisos"`
	PermissionSource  string       `json:"fuente_permisos"`
	PermissionsLoaded bool         `json:"permisos_cargados"`
	CreatedAt         time.Time    `json:"creada"`
	RefreshedAt       time.Time    `json:"refrescada"`
}

// Stale indica si la sesión lleva más de every sin refrescarse.
func (s *Session) Stale(now time.Time, every time.Duration) bool {
	return every > 0 && now.Sub(s.RefreshedAt) >= every
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	Backend     BackendConfig
	JWT         JWTConfig
	Session     SessionConfig
	Redis       RedisConfig
	DB          DBConfig
	Audit       AuditConfig
	UI          UIConfig
	Media       MediaConfig
	Permissions PermissionsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig ubicación del backend REST de pedidos. Una sola URL base para todos los recursos.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int // 0 = sin timeout propio, se usa el del transporte
}

// Timeout devuelve el timeout del cliente HTTP hacia el backend.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// JWTConfig configuración de los tokens de sesión emitidos por el back-office.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// SessionConfig persistencia y refresco de sesiones.
type SessionConfig struct {
	Store          string // memory, redis, postgres
	TTLMinutes     int
	RefreshMinutes int
	SealKey        string // vacío = se usa JWT.Secret
}

// TTL duración de una sesión en el almacén.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// RefreshInterval antigüedad a partir de la cual se refresca la sesión en segundo plano.
func (c SessionConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

// RedisConfig conexión para el almacén de sesiones en Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL (almacén de sesiones y auditoría).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// AuditConfig registro de auditoría de acciones del tablero.
type AuditConfig struct {
	Enabled bool // true = persistir en PostgreSQL; false = solo log
}

// UIConfig parámetros de las vistas de listado.
type UIConfig struct {
	PageSize         int
	SearchDebounceMs int
}

// SearchDebounce tiempo de asentamiento del término de búsqueda.
func (c UIConfig) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// MediaConfig límites de las imágenes subidas.
type MediaConfig struct {
	MaxPixels int // ancho × alto declarado en la cabecera
}

// PermissionsConfig política de permisos ante caída del servicio de permisos.
type PermissionsConfig struct {
	Fallback bool // true = modo degradado con permisos por defecto según rol
}

// NeedsPostgres indica si algún componente requiere el pool de PostgreSQL.
func (c *Config) NeedsPostgres() bool {
	return c.Session.Store == "postgres" || c.Audit.Enabled
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "nextmeal-backoffice"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimSuffix(getString(v, "BACKEND_BASE_URL", "http://localhost:3000/api"), "/"),
			TimeoutSeconds: getInt(v, "BACKEND_TIMEOUT_SECONDS", 0),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "nextmeal-backoffice"),
		},
		Session: SessionConfig{
			Store:          strings.ToLower(getString(v, "SESSION_STORE", "memory")),
			TTLMinutes:     getInt(v, "SESSION_TTL_MINUTES", 480),
			RefreshMinutes: getInt(v, "SESSION_REFRESH_MINUTES", 5),
			SealKey:        getString(v, "SESSION_SEAL_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "nextmeal_backoffice"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Audit: AuditConfig{
			Enabled: getBool(v, "AUDIT_ENABLED", false),
		},
		UI: UIConfig{
			PageSize:         getInt(v, "UI_PAGE_SIZE", 5),
			SearchDebounceMs: getInt(v, "UI_SEARCH_DEBOUNCE_MS", 300),
		},
		Media: MediaConfig{
			MaxPixels: getInt(v, "IMAGE_MAX_PIXELS", 40_000_000),
		},
		Permissions: PermissionsConfig{
			Fallback: getBool(v, "PERMISSIONS_FALLBACK", true),
		},
	}

	if cfg.Session.SealKey == "" {
		cfg.Session.SealKey = cfg.JWT.Secret
	}
	switch cfg.Session.Store {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("config: SESSION_STORE inválido %q (memory, redis, postgres)", cfg.Session.Store)
	}
	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = 5
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

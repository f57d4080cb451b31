package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nextmeal/backoffice/internal/application/listing"
	"github.com/nextmeal/backoffice/internal/application/ports"
	"github.com/nextmeal/backoffice/internal/application/session"
	"github.com/nextmeal/backoffice/internal/application/usecase"
	"github.com/nextmeal/backoffice/internal/domain/repository"
	"github.com/nextmeal/backoffice/internal/infrastructure/audit"
	"github.com/nextmeal/backoffice/internal/infrastructure/backend"
	"github.com/nextmeal/backoffice/internal/infrastructure/media"
	infrapdf "github.com/nextmeal/backoffice/internal/infrastructure/pdf"
	"github.com/nextmeal/backoffice/internal/infrastructure/postgres"
	"github.com/nextmeal/backoffice/internal/infrastructure/sessionstore"
	httpRouter "github.com/nextmeal/backoffice/internal/interfaces/http"
	"github.com/nextmeal/backoffice/pkg/config"
	"github.com/nextmeal/backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET es obligatorio")
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Str("almacen_sesiones", cfg.Session.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.NeedsPostgres() {
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
	}

	// Auditoría: en PostgreSQL si está habilitada; si no, solo log.
	var auditRepo repository.AuditRepository
	if cfg.Audit.Enabled {
		repo := postgres.NewAuditRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema de auditoría")
		}
		auditRepo = repo
	}
	dispatcher := audit.NewDispatcher(auditRepo, log.Component("auditoria"))
	var auditSink ports.AuditSink = dispatcher

	store, closeStore := openSessionStore(ctx, cfg, pool, log)
	defer closeStore()

	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
	}, log.Component("backend"))

	clientRepo := backend.NewClientRepository(client)
	productRepo := backend.NewProductRepository(client)
	categoryRepo := backend.NewCategoryRepository(client)
	orderRepo := backend.NewOrderRepository(client)
	saleRepo := backend.NewSaleRepository(client)
	userRepo := backend.NewUserRepository(client)
	roleRepo := backend.NewRoleRepository(client)
	permRepo := backend.NewPermissionRepository(client)

	sessions := session.NewManager(
		backend.NewAuthRepository(client), permRepo, roleRepo, store, auditSink,
		session.Config{
			JWTSecret:     cfg.JWT.Secret,
			JWTIssuer:     cfg.JWT.Issuer,
			JWTExpMinutes: cfg.JWT.Expiration,
			TTL:           cfg.Session.TTL(),
			RefreshEvery:  cfg.Session.RefreshInterval(),
			Fallback:      cfg.Permissions.Fallback,
		},
		log.Component("sesion"),
	)
	// Un 401 del backend cierra la sesión que originó la llamada.
	client.OnUnauthorized(sessions.InvalidateOnUnauthorized)

	pageSize := cfg.UI.PageSize
	set := usecase.ViewSet{
		Clients:    usecase.NewClientUseCase(clientRepo, pageSize, auditSink),
		Products:   usecase.NewProductUseCase(productRepo, pageSize, auditSink),
		Categories: usecase.NewCategoryUseCase(categoryRepo, media.NewEncoder(log.Component("imagenes"), cfg.Media.MaxPixels), pageSize, auditSink),
		Orders:     usecase.NewOrderUseCase(orderRepo, productRepo, clientRepo, pageSize, auditSink, log.Component("pedidos")),
		Sales: usecase.NewSaleUseCase(saleRepo, orderRepo, clientRepo, productRepo,
			infrapdf.NewReceiptGenerator(cfg.App.Name), pageSize, auditSink),
		Users: usecase.NewUserUseCase(userRepo, pageSize, auditSink),
		Roles: usecase.NewRoleUseCase(roleRepo, permRepo, pageSize, auditSink),
	}
	views := usecase.NewViewRegistry(set, pageSize, cfg.UI.SearchDebounce())
	sessions.OnInvalidate(views.Drop)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, store, views, cfg.Session.TTL(), log.Component("sesiones"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024, // imágenes de categoría en base64
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "NextMeal Back-office API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:   sessions,
		Clients:    set.Clients,
		Products:   set.Products,
		Categories: set.Categories,
		Orders:     set.Orders,
		Sales:      set.Sales,
		Users:      set.Users,
		Roles:      set.Roles,
		Views:      views,
		Audit:      auditRepo,
		JWTSecret:  cfg.JWT.Secret,
		StoreName:  cfg.Session.Store,
		Log:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("auditoría pendiente sin escribir")
	}

	log.Info().Msg("aplicación detenida")
}

// openSessionStore abre el almacén configurado. La función devuelta lo cierra.
func openSessionStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (repository.SessionStore, func()) {
	if cfg.Session.Store == "memory" {
		log.Warn().Msg("sesiones en memoria: se pierden al reiniciar")
		return sessionstore.NewMemory(), func() {}
	}

	sealer, err := sessionstore.NewSealer(cfg.Session.SealKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave de sellado de sesiones")
	}

	switch cfg.Session.Store {
	case "redis":
		r, err := sessionstore.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sealer)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		return r, func() {
			if err := r.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar Redis")
			}
		}
	default:
		p := sessionstore.NewPostgres(pool, sealer)
		if err := p.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema de sesiones")
		}
		return p, func() {}
	}
}

// expiredPurger almacenes que no vencen las sesiones por sí solos (memoria y PostgreSQL).
type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// sweepSessions purga periódicamente las sesiones vencidas y suelta las vistas de las
// sesiones sin uso durante más de ttl.
func sweepSessions(ctx context.Context, store repository.SessionStore, views *listing.Registry, ttl time.Duration, log zerolog.Logger) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	purger, _ := store.(expiredPurger)
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if purger != nil {
				n, err := purger.PurgeExpired(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("purga de sesiones vencidas")
				} else if n > 0 {
					log.Info().Int64("borradas", n).Msg("sesiones vencidas purgadas")
				}
			}
			if n := views.SweepIdle(now.Add(-ttl)); n > 0 {
				log.Info().Int("sesiones", n).Msg("vistas inactivas liberadas")
			}
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/config"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/attendance"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/inventory"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/roster"
	appHTTP "github.com/besti-sekretariat/besti-backend-go/internal/handler/http"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/clock"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/cron"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/database"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/sse"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/storage"
	"github.com/besti-sekretariat/besti-backend-go/internal/repository/memory"
	"github.com/besti-sekretariat/besti-backend-go/internal/repository/postgresql"
	"github.com/besti-sekretariat/besti-backend-go/internal/seed"
	attendanceService "github.com/besti-sekretariat/besti-backend-go/internal/service/attendance"
	serviceAuth "github.com/besti-sekretariat/besti-backend-go/internal/service/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/service/file"
	inventoryService "github.com/besti-sekretariat/besti-backend-go/internal/service/inventory"
	personService "github.com/besti-sekretariat/besti-backend-go/internal/service/person"
	rosterService "github.com/besti-sekretariat/besti-backend-go/internal/service/roster"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	people     person.Repository
	inventory  inventory.Repository
	roster     roster.Repository
	attendance attendance.Repository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.App.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	if cfg.App.SeedFile != "" {
		seedFile, err := seed.ReadFile(cfg.App.SeedFile)
		if err != nil {
			logger.Error("failed to read seed file", "error", err)
			os.Exit(1)
		}
		if _, err := seed.Apply(ctx, seedFile, repos.people, repos.inventory, logger); err != nil {
			logger.Error("failed to apply seed", "error", err)
			os.Exit(1)
		}
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Upload.BasePath, cfg.Upload.BaseURL)
	if err != nil {
		logger.Error("failed to initialize local storage", "error", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	fileService := file.NewFileService(fileStorage)

	authService := serviceAuth.NewAuthService(repos.people, JWTService, logger)
	personSvc := personService.NewPersonService(repos.people)
	inventorySvc := inventoryService.NewInventoryService(repos.inventory, logger)
	rosterSvc := rosterService.NewRosterService(repos.roster, repos.people, hub, cfg.App.PersistenceTimeout, logger)
	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.inventory,
		repos.people,
		fileService,
		clock.System(),
		attendanceService.Settings{
			Location:           cfg.Location(),
			MinDuration:        cfg.Attendance.MinDuration,
			PersistenceTimeout: cfg.App.PersistenceTimeout,
		},
		logger,
	)

	scheduler := cron.NewScheduler(logger)
	cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.ArchiveInterval, logger).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:      logger,
			FrontendURL: cfg.App.FrontendURL,
			Uploads:     http.FileServer(http.Dir(cfg.Upload.BasePath)),
		},
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewPersonHandler(personSvc),
		appHTTP.NewInventoryHandler(inventorySvc),
		appHTTP.NewRosterHandler(rosterSvc, JWTService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", server.Addr, "env", cfg.App.Env, "storage", cfg.App.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.App.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "besti-backend"),
		slog.String("env", cfg.App.Env),
	)
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories, error) {
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return repositories{
			people:     memory.NewPersonRepository(),
			inventory:  memory.NewInventoryRepository(),
			roster:     memory.NewRosterRepository(),
			attendance: memory.NewAttendanceRepository(),
			close:      func() {},
		}, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, err
		}
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return repositories{}, err
			}
		}
		return repositories{
			people:     postgresql.NewPersonRepository(db),
			inventory:  postgresql.NewInventoryRepository(db),
			roster:     postgresql.NewRosterRepository(db),
			attendance: postgresql.NewAttendanceRepository(db),
			close:      db.Close,
		}, nil
	}
	return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.App.StorageDriver)
}

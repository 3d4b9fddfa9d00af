// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workforce-ops-api-server/config"
	"workforce-ops-api-server/internal/api/routes"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/database"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/s3"
	"workforce-ops-api-server/internal/sequence"
	"workforce-ops-api-server/internal/services"
	"workforce-ops-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// 1. Load .env (nếu có) rồi cấu hình
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.Env)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. MongoDB; URI rỗng thì chạy với store trong bộ nhớ
	var db *mongo.Database
	if cfg.Mongo.URI != "" {
		client, err := database.Connect(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db = client.Database(cfg.Mongo.DBName)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Info("connected to MongoDB", "db", cfg.Mongo.DBName)
	} else {
		log.Warn("MONGO_URI not set, using in-memory store; data is lost on restart")
	}

	// 3. Redis (tùy chọn, cho sequence strategy "redis")
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	// 4. Asset store S3
	var assets services.AssetStore = services.DisabledAssets{}
	if cfg.S3.Bucket != "" {
		uploader, err := s3.NewUploader(ctx, cfg.S3)
		if err != nil {
			return err
		}
		assets = uploader
	} else {
		log.Warn("S3 bucket not configured, attachments will be skipped")
	}

	// 5. JWT
	secret := cfg.JWT.Secret
	if secret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	tokens, err := auth.NewManager(secret, cfg.JWT.Expiration)
	if err != nil {
		return err
	}

	// 6. Repositories, sequence generators, services
	briefingRepo := database.Repo[models.StaffBriefing](db, database.CollBriefings)
	trainingRepo := database.Repo[models.TrainingSession](db, database.CollTrainings)
	invoiceRepo := database.Repo[models.Invoice](db, database.CollInvoices)

	backends := sequence.Backends{DB: db, Redis: rdb}
	briefingIDs, err := sequence.New(ctx, cfg.Sequence.Strategy, "briefings", services.BriefingPrefix, briefingRepo, backends)
	if err != nil {
		return err
	}
	trainingIDs, err := sequence.New(ctx, cfg.Sequence.Strategy, "trainings", services.TrainingPrefix, trainingRepo, backends)
	if err != nil {
		return err
	}
	invoiceNumbers, err := sequence.New(ctx, cfg.Sequence.Strategy, "invoices", services.InvoicePrefix, invoiceRepo, backends)
	if err != nil {
		return err
	}

	hub := socket.NewHub(log)
	svc := routes.Services{
		Inventory:   services.NewInventoryService(database.Repo[models.InventoryItem](db, database.CollInventory), log),
		Shifts:      services.NewShiftService(database.Repo[models.Shift](db, database.CollShifts), log),
		Briefings:   services.NewBriefingService(briefingRepo, briefingIDs, assets, log),
		Trainings:   services.NewTrainingService(trainingRepo, trainingIDs, assets, log),
		Machines:    services.NewMachineService(database.Repo[models.Machine](db, database.CollMachines), log),
		Invoices:    services.NewInvoiceService(invoiceRepo, invoiceNumbers, log),
		Payments:    services.NewPaymentService(database.Repo[models.Payment](db, database.CollPayments), log),
		Expenses:    services.NewExpenseService(database.Repo[models.Expense](db, database.CollExpenses), log),
		Roster:      services.NewRosterService(database.Repo[models.RosterEntry](db, database.CollRoster), log),
		Supervisors: services.NewSupervisorService(database.Repo[models.Supervisor](db, database.CollSupervisors), log),
		Users:       services.NewUserService(database.Repo[models.User](db, database.CollUsers), tokens, log),
		Alerts:      services.NewAlertService(database.Repo[models.Alert](db, database.CollAlerts), hub, log),
	}

	// 7. Seed admin
	if err := database.SeedAdmin(ctx, svc.Users, cfg.Auth, log); err != nil {
		return err
	}

	// 8. Start server, dừng êm khi nhận SIGINT/SIGTERM
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.SetupRouter(cfg, svc, tokens, hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "port", cfg.Server.Port, "env", cfg.Server.Env, "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mtereshin/picpost-api/internal/config"
	"github.com/mtereshin/picpost-api/internal/imaging"
	"github.com/mtereshin/picpost-api/internal/platform/minio"
	"github.com/mtereshin/picpost-api/internal/platform/postgres"
	"github.com/mtereshin/picpost-api/internal/platform/rabbitmq"
	platformredis "github.com/mtereshin/picpost-api/internal/platform/redis"
	"github.com/mtereshin/picpost-api/internal/service"
	"github.com/mtereshin/picpost-api/internal/task"
)

// application holds the assembled components of the running server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	postService *service.PostService
	workerPool  *task.WorkerPool
	queue       task.QueueWriter

	// closers run in reverse order during shutdown.
	closers []func()
}

// newApplication wires every component from configuration: database,
// migrations, ledger and queue backends, blob storage, the worker
// pool and the services the HTTP handlers depend on.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.onClose(func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	})

	if err := migrateUp(db, logger); err != nil {
		app.close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	ledger, err := app.buildLedger(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	queue, reader, err := app.buildQueue(ctx)
	if err != nil {
		app.close()
		return nil, err
	}
	app.queue = queue

	blobs, err := minio.New(ctx, cfg.Storage)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	users := postgres.NewUserStore(db)
	posts := postgres.NewPostStore(db)

	processor := service.NewImageProcessor(
		imaging.NewTransformer(cfg.Image.TargetSize),
		blobs, posts, ledger, logger)

	app.workerPool = task.NewWorkerPool(reader, processor, ledger, task.WorkerPoolConfig{
		WorkerCount:        cfg.Worker.Count,
		StaleTaskAge:       cfg.Worker.StaleTaskAge,
		StaleCheckInterval: cfg.Worker.StaleCheckInterval,
	}, logger)

	app.postService = service.NewPostService(
		users, service.NewTagValidator(users), posts, ledger, queue, logger)

	return app, nil
}

// buildLedger constructs the configured task ledger backend.
func (app *application) buildLedger(ctx context.Context) (task.Ledger, error) {
	switch app.config.Ledger.Backend {
	case "postgres":
		return postgres.NewTaskLedger(app.db), nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr: app.config.Ledger.RedisAddr,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.onClose(func() {
			if err := client.Close(); err != nil {
				app.logger.Error("failed to close redis client", "error", err)
			}
		})
		return platformredis.NewTaskLedger(client), nil

	default:
		return nil, fmt.Errorf("unknown ledger backend %q", app.config.Ledger.Backend)
	}
}

// buildQueue constructs the configured queue transport and returns
// its writer and reader ends.
func (app *application) buildQueue(ctx context.Context) (task.QueueWriter, task.QueueReader, error) {
	switch app.config.Queue.Backend {
	case "channel":
		q := task.NewChannelQueue(app.config.Queue.BufferSize, app.logger)
		return q, q, nil

	case "rabbitmq":
		q, err := rabbitmq.New(
			app.config.Queue.RabbitMQURL,
			app.config.Queue.Topic,
			app.config.Queue.BufferSize,
			app.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		if err := q.StartConsumer(ctx); err != nil {
			_ = q.Close()
			return nil, nil, fmt.Errorf("failed to start rabbitmq consumer: %w", err)
		}
		return q, q, nil

	default:
		return nil, nil, fmt.Errorf("unknown queue backend %q", app.config.Queue.Backend)
	}
}

func (app *application) onClose(fn func()) {
	app.closers = append(app.closers, fn)
}

// close releases held resources in reverse acquisition order.
func (app *application) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

// openDatabase opens and verifies the postgres connection.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

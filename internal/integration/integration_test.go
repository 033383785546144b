package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"fishwrapper-service/internal/app"
	"fishwrapper-service/internal/domain"
	"fishwrapper-service/internal/infra/postgres"
	"fishwrapper-service/internal/infra/postgres/migrations"
	infraredis "fishwrapper-service/internal/infra/redis"
)

func TestQuizLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	cache := infraredis.NewQuizCache(redisClient, store, 5*time.Minute)
	quizzes := app.NewQuizService(store, cache)

	created, err := quizzes.Create(ctx, domain.FormFields{
		{Key: "title", Value: "Which Fish Are You"},
		{Key: "author", Value: "Staff"},
		{Key: "blurb", Value: "find out"},
		{Key: "qContent-q1", Value: "Pick a pond"},
		{Key: "aContent-a1q1", Value: "The deep one"},
		{Key: "aResult-a1q1", Value: "r1"},
		{Key: "aContent-a2q1", Value: "The shallow one"},
		{Key: "aResult-a2q1", Value: "r2"},
		{Key: "rContent-r1", Value: "a noble halibut"},
		{Key: "rContent-r2", Value: "a plain cod"},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if created.ID != "which-fish-are-you" {
		t.Fatalf("unexpected quiz id %q", created.ID)
	}

	outcome, err := quizzes.GradeSubmission(ctx, created.ID, domain.FormFields{
		{Key: "q1", Value: "r1"},
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if outcome.Result == nil || outcome.Result.ID != "r1" {
		t.Fatalf("expected r1, got %+v", outcome.Result)
	}

	// The grade went through the redis cache; an update must invalidate it.
	if err := quizzes.Update(ctx, domain.FormFields{
		{Key: "quizId", Value: created.ID},
		{Key: "title", Value: "Which Fish Are You"},
		{Key: "qContent-q1", Value: "Pick a pond, any pond"},
		{Key: "rContent-r1", Value: "a noble halibut"},
		{Key: "rContent-r2", Value: "a plain cod"},
	}); err != nil {
		t.Fatalf("update quiz: %v", err)
	}
	shown, err := quizzes.Show(ctx, created.ID)
	if err != nil {
		t.Fatalf("show quiz: %v", err)
	}
	if len(shown.Questions) != 1 || shown.Questions[0].Text != "Pick a pond, any pond" {
		t.Fatalf("expected updated question, got %+v", shown.Questions)
	}
}

func TestTimelineAndAuthEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	runMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	auth := app.NewAuthService(store, infraredis.NewSessionStore(redisClient), app.SessionModeToken, []byte("secret"), time.Hour)
	timeline := app.NewTimelineScheduler(store, store, nil)

	if err := auth.SeedEditor(ctx, "zane", "hunter2"); err != nil {
		t.Fatalf("seed editor: %v", err)
	}
	token, err := auth.Login(ctx, "zane", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if username, ok := auth.Authenticate(ctx, token); !ok || username != "zane" {
		t.Fatalf("expected session for zane, got %q %v", username, ok)
	}

	// Migration seeds the week counter at 1.
	week, err := timeline.CurrentWeek(ctx)
	if err != nil || week != 1 {
		t.Fatalf("expected week 1, got %d %v", week, err)
	}

	first, err := timeline.Submit(ctx, "the fish market opened")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.Week != 1 {
		t.Fatalf("expected submission tagged week 1, got %d", first.Week)
	}
	time.Sleep(2 * time.Millisecond) // ids are millisecond timestamps
	second, err := timeline.Submit(ctx, "the fish market burned down")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := timeline.Select(ctx, "1", second.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	story, err := timeline.StorySoFar(ctx)
	if err != nil {
		t.Fatalf("story: %v", err)
	}
	if len(story) != 1 || story[0].ID != second.ID {
		t.Fatalf("expected second entry selected, got %+v", story)
	}

	removed, err := timeline.Cleanup(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 entry removed, got %d", removed)
	}
	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != second.ID {
		t.Fatalf("expected only the selected entry left, got %+v", entries)
	}
}

func runMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "fishwrapper", "POSTGRES_PASSWORD": "fishpass", "POSTGRES_DB": "fishwrapper"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://fishwrapper:fishpass@%s:%s/fishwrapper?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}

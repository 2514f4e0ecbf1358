// Package integration runs the repositories and the HTTP API against real postgres and
// redis containers. Docker must be running; the package is skipped with -short.
//
//	go test ./tests/integration/
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tropicaldog17/lessondesk/internal/db"
	"github.com/tropicaldog17/lessondesk/migrations"
)

// suite holds the containers shared by every test in the package.
type suite struct {
	postgres testcontainers.Container
	redis    testcontainers.Container
	DB       *db.DB
	Redis    *redis.Client
}

var current *suite

func setupWithContext(ctx context.Context) (*suite, error) {
	pg, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("lessondesk_test"),
		postgres.WithUsername("lessondesk_user"),
		postgres.WithPassword("lessondesk_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	s := &suite{postgres: pg}

	host, err := pg.Host(ctx)
	if err != nil {
		s.terminate()
		return nil, err
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		s.terminate()
		return nil, err
	}

	database, err := db.Connect(&db.Config{
		Host:     host,
		Port:     port.Port(),
		User:     "lessondesk_user",
		Password: "lessondesk_password",
		Name:     "lessondesk_test",
		SSLMode:  "disable",
	})
	if err != nil {
		s.terminate()
		return nil, err
	}
	s.DB = database

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		s.terminate()
		return nil, err
	}
	if _, err := migrations.Run(sqlDB, nil); err != nil {
		s.terminate()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		s.terminate()
		return nil, fmt.Errorf("start redis: %w", err)
	}
	s.redis = rc

	endpoint, err := rc.Endpoint(ctx, "")
	if err != nil {
		s.terminate()
		return nil, err
	}
	s.Redis = redis.NewClient(&redis.Options{Addr: endpoint})
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		s.terminate()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return s, nil
}

func (s *suite) terminate() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
	for _, c := range []testcontainers.Container{s.redis, s.postgres} {
		if c != nil {
			_ = c.Terminate(context.Background())
		}
	}
}

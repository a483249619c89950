package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"nearbyserve/config"
	"nearbyserve/pkg/logger"
	"nearbyserve/storage"
)

type Store struct {
	pool *pgxpool.Pool
	feed *changeFeed
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresDB,
	)

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		log.Error("migration init error or no migrations found", logger.Error(err))
	} else {
		if err = m.Up(); err != nil {
			if strings.Contains(err.Error(), "no change") {
				log.Info("no migrations to apply")
			} else {
				log.Error("migration up error", logger.Error(err))
				return nil, err
			}
		}
	}

	feed, err := newChangeFeed(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		feed: feed,
		log:  log,
	}, nil
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Close() {
	s.feed.close()
	s.pool.Close()
}

func (s *Store) Changes(ctx context.Context) (<-chan storage.Change, error) {
	return s.feed.changes(ctx)
}

func (s *Store) Recipient() storage.IRecipientStorage {
	return &recipientRepo{db: s.pool, feed: s.feed, log: s.log}
}

func (s *Store) Request() storage.IRequestStorage {
	return &requestRepo{db: s.pool, feed: s.feed, log: s.log}
}

func (s *Store) Volunteer() storage.IVolunteerStorage {
	return &volunteerRepo{db: s.pool, feed: s.feed, log: s.log}
}

func (s *Store) User() storage.IUserStorage {
	return &userRepo{db: s.pool, log: s.log}
}

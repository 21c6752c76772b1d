package sourceref

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"launchdash"
)

// PostgresStore reads named sources from the dataset_sources table. Passwords
// are stored AES-GCM encrypted.
type PostgresStore struct {
	pool      *pgxpool.Pool
	encryptor *aesGcmEncryptor
}

func NewPostgresStore(ctx context.Context, dsn string, key []byte) (*PostgresStore, error) {
	if dsn == "" || len(key) == 0 {
		return nil, ErrNotConfigured
	}
	enc, err := newAesGcmEncryptor(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return &PostgresStore{pool: pool, encryptor: enc}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) GetSource(ctx context.Context, id string) (launchdash.SourceConfig, error) {
	row := s.pool.QueryRow(ctx, `SELECT type, host, port, user_name, password_enc, database, table_name FROM dataset_sources WHERE id=$1`, id)
	var srcType string
	var host string
	var port int
	var user string
	var passwordEnc string
	var database string
	var table string
	if err := row.Scan(&srcType, &host, &port, &user, &passwordEnc, &database, &table); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return launchdash.SourceConfig{}, ErrNotFound
		}
		return launchdash.SourceConfig{}, err
	}
	password, err := s.encryptor.Decrypt(passwordEnc)
	if err != nil {
		return launchdash.SourceConfig{}, errors.New("failed to decrypt password")
	}
	return launchdash.SourceConfig{
		Type:     srcType,
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		Database: database,
		Table:    table,
	}, nil
}

package keywordstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verseforge/parodist/internal/promptbuilder"
)

// Store is a PostgreSQL-backed cache of [promptbuilder.KeywordMap] values,
// keyed by [Key]. All operations are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore establishes a connection pool to the PostgreSQL database at dsn
// and runs [Migrate] to ensure the cache table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("keywordstore: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("keywordstore: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("keywordstore: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases all connections held by the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Key derives a stable cache key from a keyword-generation request: the
// subjects (order-independent) and the requested entry count.
func Key(subjects []string, count int) string {
	norm := make([]string, len(subjects))
	copy(norm, subjects)
	sort.Strings(norm)

	h := sha256.New()
	h.Write([]byte(strconv.Itoa(count)))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(norm, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up key and returns the cached keyword map. The second return
// value is false if no entry exists for key.
func (s *Store) Get(ctx context.Context, key string) (promptbuilder.KeywordMap, bool, error) {
	const q = `SELECT keywords FROM keyword_cache WHERE cache_key = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, q, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("keywordstore: get: %w", err)
	}

	m := promptbuilder.NewKeywordMap()
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, false, fmt.Errorf("keywordstore: decode cached entry: %w", err)
	}
	return m, true, nil
}

// Put stores m under key, overwriting any existing entry.
func (s *Store) Put(ctx context.Context, key string, m promptbuilder.KeywordMap) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("keywordstore: encode entry: %w", err)
	}

	const q = `
		INSERT INTO keyword_cache (cache_key, keywords)
		VALUES ($1, $2)
		ON CONFLICT (cache_key) DO UPDATE
		SET keywords = EXCLUDED.keywords, updated_at = now()`

	if _, err := s.pool.Exec(ctx, q, key, raw); err != nil {
		return fmt.Errorf("keywordstore: put: %w", err)
	}
	return nil
}

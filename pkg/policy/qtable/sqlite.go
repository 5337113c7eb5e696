package qtable

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"aegis-hq/aegis/pkg/remedy"
)

// SQLiteStorage persists the table to a SQLite database. Each Save runs in a
// single transaction, so a crash mid-write leaves the previous snapshot
// intact. WAL mode keeps concurrent decision reads cheap while the learner
// checkpoints.
type SQLiteStorage struct {
	db        *sql.DB
	dbPath    string
	done      chan struct{}
	closeOnce sync.Once
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// WALCheckpointInterval is how often to checkpoint the write-ahead
	// log. Default: 5 minutes.
	WALCheckpointInterval time.Duration
}

// NewSQLiteStorage opens (creating if needed) the database at cfg.Path and
// initializes the schema.
func NewSQLiteStorage(cfg SQLiteConfig) (*SQLiteStorage, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.WALCheckpointInterval == 0 {
		cfg.WALCheckpointInterval = 5 * time.Minute
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{
		db:     db,
		dbPath: cfg.Path,
		done:   make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "init_schema", err)
	}

	go s.walCheckpointLoop(cfg.WALCheckpointInterval)

	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS q_values (
		state TEXT NOT NULL,
		action TEXT NOT NULL,
		value REAL NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (state, action)
	);

	CREATE TABLE IF NOT EXISTS q_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the persisted snapshot. Returns nil if the table has never been
// saved.
func (s *SQLiteStorage) Load(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state, action, value FROM q_values`)
	if err != nil {
		return nil, NewStorageError("sqlite", "load", err)
	}
	defer rows.Close()

	values := make(map[StateID]map[remedy.Action]float64)
	for rows.Next() {
		var state, action string
		var value float64
		if err := rows.Scan(&state, &action, &value); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		row, ok := values[StateID(state)]
		if !ok {
			row = make(map[remedy.Action]float64)
			values[StateID(state)] = row
		}
		row[remedy.Action(action)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "iterate", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	snapshot := &Snapshot{Values: values}

	var algorithm string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM q_meta WHERE key = 'algorithm'`).Scan(&algorithm)
	if err != nil && err != sql.ErrNoRows {
		return nil, NewStorageError("sqlite", "load_meta", err)
	}
	snapshot.Algorithm = algorithm

	return snapshot, nil
}

// Save persists the snapshot in one transaction.
func (s *SQLiteStorage) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return NewStorageError("sqlite", "save", fmt.Errorf("snapshot cannot be nil"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO q_values (state, action, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (state, action) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return NewStorageError("sqlite", "prepare", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for state, row := range snapshot.Values {
		for action, value := range row {
			if _, err := stmt.ExecContext(ctx, string(state), string(action), value, now); err != nil {
				return NewStorageError("sqlite", "upsert", err)
			}
		}
	}

	if snapshot.Algorithm != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO q_meta (key, value) VALUES ('algorithm', ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value
		`, snapshot.Algorithm)
		if err != nil {
			return NewStorageError("sqlite", "save_meta", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError("sqlite", "commit", err)
	}

	return nil
}

// Close stops the checkpoint loop and closes the database. Idempotent.
// Ping verifies the database is reachable. Readiness probes call it.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError("sqlite", "ping", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// walCheckpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStorage) walCheckpointLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                   { return nil }
func (nopStmt) NumInput() int                                  { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return nopResult{}, nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nopRows{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

type nopResult struct{}

func (nopResult) LastInsertId() (int64, error) { return 0, nil }
func (nopResult) RowsAffected() (int64, error) { return 0, nil }

type nopRows struct{}

func (nopRows) Columns() []string              { return []string{} }
func (nopRows) Close() error                   { return nil }
func (nopRows) Next(dest []driver.Value) error { return driver.ErrBadConn }

var registerTestDriverOnce sync.Once

func ensureTestDriverRegistered() {
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
}

func withTestDriver(t *testing.T) func() {
	t.Helper()
	ensureTestDriverRegistered()
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	return func() {
		openDB = prev
	}
}

func resetShared() {
	sharedMu.Lock()
	sharedDB = nil
	sharedMu.Unlock()
}

func TestGetSingletonReturnsSamePointer(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	resetShared()

	db1, err := GetSingleton(context.Background(), "ignored", DefaultLambdaOptions())
	if err != nil {
		t.Fatalf("GetSingleton first: %v", err)
	}
	db2, err := GetSingleton(context.Background(), "ignored", DefaultLambdaOptions())
	if err != nil {
		t.Fatalf("GetSingleton second: %v", err)
	}
	if db1 != db2 {
		t.Fatalf("expected singleton pointers to match")
	}
}

func TestMergeKeepsDefaultsForZeroFields(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()

	opts := DefaultServerOptions().Merge(Options{
		MaxOpenConns:    7,
		ConnMaxLifetime: 20 * time.Minute,
		PingTimeout:     time.Second,
	})
	db, err := Connect(context.Background(), "ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	if opts.MaxIdleConns != 5 || opts.ConnMaxIdleTime != 2*time.Minute {
		t.Fatalf("zero overrides should keep defaults, got %+v", opts)
	}
	if opts.ConnMaxLifetime != 20*time.Minute || opts.PingTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	if !opts.ReadOnly {
		t.Fatalf("Merge must not clear ReadOnly")
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	var calls int32
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, driver.ErrBadConn
		}
		ensureTestDriverRegistered()
		return sql.Open("dbtest", dsn)
	}
	defer func() {
		openDB = prev
	}()
	ensureTestDriverRegistered()

	resetShared()

	_, err := GetSingleton(context.Background(), "ignored", DefaultLambdaOptions())
	if err == nil {
		t.Fatalf("expected first call to fail")
	}
	db2, err := GetSingleton(context.Background(), "ignored", DefaultLambdaOptions())
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if db2 == nil {
		t.Fatalf("expected db after retry")
	}
}

func TestGetSingletonSharesConcurrentConnect(t *testing.T) {
	restore := withTestDriver(t)
	defer restore()
	resetShared()

	var wg sync.WaitGroup
	got := make([]*sql.DB, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := GetSingleton(context.Background(), "ignored", DefaultLambdaOptions())
			if err != nil {
				t.Errorf("GetSingleton: %v", err)
				return
			}
			got[i] = db
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] == nil || got[i] != got[0] {
			t.Fatalf("caller %d got a different pool", i)
		}
	}
}

func TestConnectMarksExportSessionsReadOnly(t *testing.T) {
	var dsns []string
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		dsns = append(dsns, dsn)
		ensureTestDriverRegistered()
		return sql.Open("dbtest", dsn)
	}
	defer func() { openDB = prev }()

	for _, opts := range []Options{DefaultServerOptions(), DefaultMigrateOptions()} {
		db, err := Connect(context.Background(), "postgres://advisor@db:5432/portal?sslmode=disable", opts)
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		db.Close()
	}
	if len(dsns) != 2 {
		t.Fatalf("expected two opens, got %v", dsns)
	}
	if !strings.Contains(dsns[0], "default_transaction_read_only=on") || !strings.Contains(dsns[0], "sslmode=disable") {
		t.Fatalf("server DSN should be read-only, got %q", dsns[0])
	}
	if strings.Contains(dsns[1], "default_transaction_read_only") {
		t.Fatalf("migrate DSN must stay writable, got %q", dsns[1])
	}
}

func TestWithRuntimeParam(t *testing.T) {
	cases := []struct{ in, want string }{
		{"host=db user=advisor", "host=db user=advisor default_transaction_read_only=on"},
		{"host=db default_transaction_read_only=off", "host=db default_transaction_read_only=off"},
		{"postgres://db/portal", "postgres://db/portal?default_transaction_read_only=on"},
	}
	for _, tc := range cases {
		if got := withRuntimeParam(tc.in, "default_transaction_read_only", "on"); got != tc.want {
			t.Fatalf("withRuntimeParam(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMigrationTarget(t *testing.T) {
	tests := []struct {
		dialect   string
		wantGoose string
		wantDir   string
		wantErr   bool
	}{
		{dialect: DialectPostgres, wantGoose: "postgres", wantDir: "migrations/postgres"},
		{dialect: "", wantGoose: "postgres", wantDir: "migrations/postgres"},
		{dialect: DialectSQLite, wantGoose: "sqlite3", wantDir: "migrations/sqlite"},
		{dialect: "mysql", wantErr: true},
	}
	for _, tt := range tests {
		gooseDialect, dir, err := migrationTarget(tt.dialect)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.dialect)
			}
			continue
		}
		if err != nil || gooseDialect != tt.wantGoose || dir != tt.wantDir {
			t.Fatalf("%q: got (%q, %q, %v)", tt.dialect, gooseDialect, dir, err)
		}
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	database, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "advisory.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer database.Close()

	if err := RunMigrations(ctx, database, DialectSQLite); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	for _, table := range []string{"profiles", "cv_responses", "education_entries", "work_experience_entries", "sop_responses", "lor_responses"} {
		var name string
		err := database.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

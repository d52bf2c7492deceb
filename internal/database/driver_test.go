package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// fakeDB backs a database/sql connector for repository tests. Every
// statement goes through Prepare, and NumInput counts the ? placeholders
// the way MySQL's PREPARE does, so a placeholder/argument mismatch fails
// the call instead of passing silently.
type fakeDB struct {
	mu       sync.Mutex
	execs    []execRecord
	queryLog []string
	commits  int
	affect   []affectStub
	results  []queryStub
}

type execRecord struct {
	query string
	args  []driver.Value
}

type affectStub struct {
	substr   string
	affected int64
}

type queryStub struct {
	substr string
	rows   [][]driver.Value
}

func newFakeDB() (*fakeDB, *DB) {
	f := &fakeDB{}
	return f, &DB{sql.OpenDB(fakeConnector{f})}
}

// onExec sets the rows-affected count for statements containing substr.
// Unstubbed statements report one affected row.
func (f *fakeDB) onExec(substr string, affected int64) {
	f.affect = append(f.affect, affectStub{substr, affected})
}

// onQuery cans result rows for queries containing substr. Unstubbed
// queries return an empty result set.
func (f *fakeDB) onQuery(substr string, rows ...[]driver.Value) {
	f.results = append(f.results, queryStub{substr, rows})
}

func (f *fakeDB) execsMatching(substr string) []execRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []execRecord
	for _, e := range f.execs {
		if strings.Contains(e.query, substr) {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeDB) queriesMatching(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.queryLog {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

func (f *fakeDB) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

type fakeConnector struct{ db *fakeDB }

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{db: c.db}, nil
}

func (c fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type fakeConn struct{ db *fakeDB }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{db: c.db, query: query}, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return fakeTx{db: c.db}, nil }

type fakeTx struct{ db *fakeDB }

func (t fakeTx) Commit() error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t fakeTx) Rollback() error { return nil }

type fakeStmt struct {
	db    *fakeDB
	query string
}

func (s *fakeStmt) Close() error { return nil }

func (s *fakeStmt) NumInput() int { return strings.Count(s.query, "?") }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.execs = append(s.db.execs, execRecord{
		query: s.query,
		args:  append([]driver.Value(nil), args...),
	})
	affected := int64(1)
	for _, a := range s.db.affect {
		if strings.Contains(s.query, a.substr) {
			affected = a.affected
			break
		}
	}
	return fakeResult{affected: affected}, nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.queryLog = append(s.db.queryLog, s.query)
	for _, q := range s.db.results {
		if strings.Contains(s.query, q.substr) {
			return newFakeRows(q.rows), nil
		}
	}
	return newFakeRows(nil), nil
}

type fakeResult struct{ affected int64 }

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }

func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type fakeRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func newFakeRows(rows [][]driver.Value) *fakeRows {
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	cols := make([]string, width)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%d", i)
	}
	return &fakeRows{cols: cols, rows: rows}
}

func (r *fakeRows) Columns() []string { return r.cols }

func (r *fakeRows) Close() error { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

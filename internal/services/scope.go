package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DBTX is the common interface satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// Scope is the set of rows of one table that a user may reach through the
// ownership chain. The root scope is OwnedProjects; every other scope is
// derived from its parent with Child, so a row is visible only if its whole
// chain of parents ends at the user.
//
// Table and column names are fixed by the services; only values go through
// placeholders.
type Scope struct {
	table string
	joins []string
	conds []string
	args  []any
}

// OwnedProjects scopes projects to those owned by userID.
func OwnedProjects(userID string) Scope {
	return Scope{
		table: "projects",
		conds: []string{"projects.owner_id = ?"},
		args:  []any{userID},
	}
}

// Child scopes table, whose fk column references the rows of s.
func (s Scope) Child(table, fk string) Scope {
	joins := make([]string, 0, len(s.joins)+1)
	joins = append(joins, fmt.Sprintf("JOIN %s ON %s.id = %s.%s", s.table, s.table, table, fk))
	joins = append(joins, s.joins...)
	return Scope{
		table: table,
		joins: joins,
		conds: append([]string(nil), s.conds...),
		args:  append([]any(nil), s.args...),
	}
}

// Where narrows the scope with an extra condition.
func (s Scope) Where(cond string, args ...any) Scope {
	out := Scope{
		table: s.table,
		joins: s.joins,
		conds: make([]string, 0, len(s.conds)+1),
		args:  make([]any, 0, len(s.args)+len(args)),
	}
	out.conds = append(append(out.conds, s.conds...), cond)
	out.args = append(append(out.args, s.args...), args...)
	return out
}

// ByID narrows the scope to the row with the given primary key.
func (s Scope) ByID(id string) Scope {
	return s.Where(s.table+".id = ?", id)
}

// Table returns the name of the scoped table.
func (s Scope) Table() string {
	return s.table
}

func (s Scope) from() string {
	if len(s.joins) == 0 {
		return s.table
	}
	return s.table + " " + strings.Join(s.joins, " ")
}

func (s Scope) where() string {
	return strings.Join(s.conds, " AND ")
}

// Select builds a query returning cols for every row in scope.
func (s Scope) Select(cols, orderBy string) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", cols, s.from(), s.where())
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	return query, s.args
}

// IDs builds a subquery returning the primary keys in scope.
func (s Scope) IDs() (string, []any) {
	return s.Select(s.table+".id", "")
}

// Exists builds an EXISTS predicate that holds when the scope is non-empty.
func (s Scope) Exists() (string, []any) {
	query, args := s.Select("1", "")
	return "EXISTS (" + query + ")", args
}

// exists reports whether any row is in scope.
func exists(ctx context.Context, db DBTX, s Scope) (bool, error) {
	pred, args := s.Exists()
	var found bool
	if err := db.QueryRowContext(ctx, "SELECT "+pred, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("checking %s scope: %w", s.table, err)
	}
	return found, nil
}

// insertUnder inserts one row into table only if parent is non-empty. The
// check and the insert are a single statement. It returns ErrNotFound when
// the parent is not visible to the user.
func insertUnder(ctx context.Context, db DBTX, parent Scope, table string, cols []string, vals []any) error {
	pred, predArgs := parent.Exists()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s WHERE %s",
		table, strings.Join(cols, ", "), placeholders, pred)

	args := make([]any, 0, len(vals)+len(predArgs))
	args = append(append(args, vals...), predArgs...)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(res, parent.table)
}

// updateScoped applies assignments to the rows in scope.
func updateScoped(ctx context.Context, db DBTX, s Scope, assignments []string, vals []any) error {
	sub, subArgs := s.IDs()
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id IN (%s)", s.table, strings.Join(assignments, ", "), sub)

	args := make([]any, 0, len(vals)+len(subArgs))
	args = append(append(args, vals...), subArgs...)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(res, s.table)
}

// deleteScoped removes the rows in scope. Descendants go with them through
// ON DELETE CASCADE.
func deleteScoped(ctx context.Context, db DBTX, s Scope) error {
	sub, args := s.IDs()
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", s.table, sub), args...)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", s.table, err)
	}
	return expectRow(res, s.table)
}

func expectRow(res sql.Result, table string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows on %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

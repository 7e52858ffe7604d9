// Package duck backs the catalog with an in-memory DuckDB database.
package duck

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	nt "guichet/entity"
	"guichet/query"
)

type Duck struct {
	db     *sql.DB
	logger nt.Logger
}

func New(lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}

	dk = &Duck{
		db:     db,
		logger: lgr,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Name returns the name of the data source.
func (dk *Duck) Name() string {
	return "duck"
}

// Ping verifies the store is reachable.  Only this auxiliary check carries
// a client-side timeout; callers bound it with their own context.
func (dk *Duck) Ping(ctx context.Context) (err error) {
	err = dk.db.PingContext(ctx)
	err = errors.Wrapf(err, "failed to ping duck")
	return
}

// Search runs one paginated fetch: the filter tree rendered to a WHERE
// clause with placeholder params, a count for totalSize, then the page.
func (dk *Duck) Search(ctx context.Context, kind nt.Kind, node query.Node, sort nt.Sort, page nt.Page) (rows []nt.Row, total int, err error) {

	spec, err := nt.SpecFor(kind)
	if err != nil {
		return
	}

	where, args, err := whereSQL(node)
	if err != nil {
		return
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", spec.Table, where)
	err = dk.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		err = errors.Wrapf(err, "failed to count %s", spec.Table)
		return
	}

	order := ""
	if sort.Field != "" {
		dir := "ASC"
		if sort.Desc {
			dir = "DESC"
		}
		order = fmt.Sprintf("ORDER BY %s %s", sort.Field, dir)
	}

	pageQuery := fmt.Sprintf("SELECT * FROM %s %s %s LIMIT %d OFFSET %d",
		spec.Table, where, order, page.Size, page.Offset())

	rows, err = dk.selectRows(ctx, spec, pageQuery, args...)
	return
}

// Update applies the changed fields, records the audit row, and returns
// the row as stored; string values are trimmed on the way in, so the
// caller must display what comes back, not what it sent.
func (dk *Duck) Update(ctx context.Context, input nt.UpdateInput) (row nt.Row, err error) {

	spec, err := nt.SpecFor(input.Kind)
	if err != nil {
		return
	}
	if len(input.Changes) == 0 {
		err = errors.Errorf("no changes for %s %s", spec.Title, input.Id)
		return
	}

	var sets []string
	var args []any
	for field, value := range input.Changes {
		if text, ok := value.(string); ok {
			sets = append(sets, fmt.Sprintf("%s = TRIM(?)", field))
			args = append(args, text)
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = ?", field))
		args = append(args, value)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, input.Id)

	updateQuery := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		spec.Table, strings.Join(sets, ", "), spec.IdField)

	// the change and its audit row commit together or not at all
	tx, err := dk.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrapf(err, "failed to begin update tx")
		return
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, updateQuery, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to update %s", spec.Table)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		err = errors.Errorf("%s %s not found", spec.Title, input.Id)
		return
	}

	err = dk.audit(ctx, tx, input.Kind, input.Id, "update", input.Changes, input.Audit)
	if err != nil {
		return
	}

	err = tx.Commit()
	if err != nil {
		err = errors.Wrapf(err, "failed to commit update")
		return
	}

	row, err = dk.getRow(ctx, spec, input.Id)
	return
}

// Delete removes the row and records the audit trail.  Dependent checking
// is the caller's responsibility ahead of the confirmation gate.
func (dk *Duck) Delete(ctx context.Context, input nt.DeleteInput) (err error) {

	spec, err := nt.SpecFor(input.Kind)
	if err != nil {
		return
	}

	tx, err := dk.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrapf(err, "failed to begin delete tx")
		return
	}
	defer tx.Rollback()

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", spec.Table, spec.IdField)
	result, err := tx.ExecContext(ctx, deleteQuery, input.Id)
	if err != nil {
		err = errors.Wrapf(err, "failed to delete from %s", spec.Table)
		return
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		err = errors.Errorf("%s %s not found", spec.Title, input.Id)
		return
	}

	err = dk.audit(ctx, tx, input.Kind, input.Id, "delete", input.Extras, input.Audit)
	if err != nil {
		return
	}

	err = tx.Commit()
	err = errors.Wrapf(err, "failed to commit delete")
	return
}

// Dependents lists records of other kinds still referencing the subject,
// formatted for the confirmation gate's blocked view.
func (dk *Duck) Dependents(ctx context.Context, kind nt.Kind, row nt.Row) (blockers []string, err error) {

	spec, err := nt.SpecFor(kind)
	if err != nil {
		return
	}

	for _, ref := range spec.Dependents {

		var refSpec nt.KindSpec
		refSpec, err = nt.SpecFor(ref.Kind)
		if err != nil {
			return
		}

		key := row.Get(ref.KeyField).String()

		var count int
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", refSpec.Table, ref.Field)
		err = dk.db.QueryRowContext(ctx, countQuery, key).Scan(&count)
		if err != nil {
			err = errors.Wrapf(err, "failed to count dependents in %s", refSpec.Table)
			return
		}
		if count == 0 {
			continue
		}

		sampleQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 3",
			refSpec.IdField, refSpec.Table, ref.Field)
		var sample []string
		sample, err = dk.selectIds(ctx, sampleQuery, key)
		if err != nil {
			return
		}

		blocker := fmt.Sprintf("%d %s record(s) via %s: %s",
			count, refSpec.Title, ref.Field, strings.Join(sample, ", "))
		if count > len(sample) {
			blocker += ", …"
		}
		blockers = append(blockers, blocker)
	}

	return
}

// unexported

func (dk *Duck) audit(ctx context.Context, tx *sql.Tx, kind nt.Kind, id, action string, changes map[string]any, audit nt.Audit) (err error) {

	detail, err := json.Marshal(changes)
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal audit detail")
		return
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, entity_kind, entity_id, action, detail, reason, category, reference_url, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), string(kind), id, action, string(detail),
		audit.Reason, audit.Category, audit.ReferenceUrl, time.Now())
	err = errors.Wrapf(err, "failed to write audit row")
	return
}

func (dk *Duck) getRow(ctx context.Context, spec nt.KindSpec, id string) (row nt.Row, err error) {

	selectQuery := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", spec.Table, spec.IdField)
	rows, err := dk.selectRows(ctx, spec, selectQuery, id)
	if err != nil {
		return
	}
	if len(rows) == 0 {
		err = errors.Errorf("%s %s not found", spec.Title, id)
		return
	}

	row = rows[0]
	return
}

func (dk *Duck) selectRows(ctx context.Context, spec nt.KindSpec, sqlQuery string, args ...any) (out []nt.Row, err error) {

	rows, err := dk.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query %s", spec.Table)
		return
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		err = errors.Wrapf(err, "failed to get cols from query rows")
		return
	}

	for rows.Next() {
		var vals []any
		vals, err = scanRow(rows, len(cols))
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}

		raw := make(map[string]any, len(cols))
		for i, col := range cols {
			raw[col] = vals[i]
		}

		row := nt.NewRow(nt.Value{Raw: raw[spec.IdField]}.String(), raw)
		out = append(out, row)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

func (dk *Duck) selectIds(ctx context.Context, sqlQuery string, args ...any) (ids []string, err error) {

	rows, err := dk.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query ids")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			err = errors.Wrapf(err, "failed to scan id")
			return
		}
		ids = append(ids, id)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating ids")
	return
}

func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {
	vals := make([]any, columnCount)
	ptrs := make([]any, columnCount)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	err := rows.Scan(ptrs...)
	return vals, err
}

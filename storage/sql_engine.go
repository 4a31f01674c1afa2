package storage

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mvkdcrypto/treeview/api"
	"github.com/mvkdcrypto/treeview/logger"
	"github.com/mvkdcrypto/treeview/snapshot"
	"github.com/pkg/errors"
)

// SQLEngine implements Engine over sqlite or postgres. Queries are written
// with '?' placeholders and rebound for the driver in use.
type SQLEngine struct {
	db *sqlx.DB
}

var _ Engine = (*SQLEngine)(nil)

func NewSQLEngine(db *sqlx.DB) *SQLEngine {
	return &SQLEngine{db: db}
}

// OpenSQLEngine connects with driver ("sqlite3" or "postgres") and makes
// sure the schema exists.
func OpenSQLEngine(driver, dsn string) (*SQLEngine, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", driver)
	}
	if driver == "sqlite3" {
		// sqlite serializes writers; one connection also keeps ":memory:"
		// databases from splitting per connection.
		db.SetMaxOpenConns(1)
	}
	m := NewSQLEngine(db)
	if err := m.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

const treesTable = `trees(
		id bigint,
		type text NOT NULL,
		nodes bytea,
		PRIMARY KEY (id)
	)`

const countersTable = `counters(
		name text,
		value bigint NOT NULL,
		PRIMARY KEY (name)
	)`

const treeCounter = "trees"

func (m *SQLEngine) seedCounter(tx *sqlx.Tx) error {
	q, args, err := sq.Insert("counters").
		Columns("name", "value").
		Values(treeCounter, 0).
		Suffix("on conflict (name) do nothing").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build seed")
	}
	_, err = tx.Exec(m.db.Rebind(q), args...)
	return errors.Wrap(err, "seed counter")
}

// Init creates the schema if it is missing.
func (m *SQLEngine) Init() error {
	tx, err := m.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS ` + treesTable); err != nil {
		return errors.Wrap(err, "create trees")
	}
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS ` + countersTable); err != nil {
		return errors.Wrap(err, "create counters")
	}
	if err := m.seedCounter(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// Reset drops every tree and restarts id assignment.
func (m *SQLEngine) Reset() error {
	tx := m.db.MustBegin()
	defer tx.Rollback()
	tx.MustExec(`DROP TABLE IF EXISTS trees`)
	tx.MustExec(`CREATE TABLE ` + treesTable)
	tx.MustExec(`DROP TABLE IF EXISTS counters`)
	tx.MustExec(`CREATE TABLE ` + countersTable)
	if err := m.seedCounter(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (m *SQLEngine) Close() error {
	return m.db.Close()
}

func (m *SQLEngine) CreateTree(ctx logger.ContextInterface, variant snapshot.Variant) (api.TreeHandle, error) {
	tx, err := m.db.BeginTxx(ctx.Ctx(), nil)
	if err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	q, args, err := sq.Update("counters").
		Set("value", sq.Expr("value + 1")).
		Where(sq.Eq{"name": treeCounter}).
		ToSql()
	if err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "build counter update")
	}
	if _, err := tx.ExecContext(ctx.Ctx(), m.db.Rebind(q), args...); err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "bump counter")
	}

	var next uint64
	q, args, err = sq.Select("value").From("counters").Where(sq.Eq{"name": treeCounter}).ToSql()
	if err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "build counter select")
	}
	if err := tx.GetContext(ctx.Ctx(), &next, m.db.Rebind(q), args...); err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "read counter")
	}

	empty, err := encodeNodes(nil)
	if err != nil {
		return api.TreeHandle{}, err
	}
	q, args, err = sq.Insert("trees").
		Columns("id", "type", "nodes").
		Values(next, string(variant), empty).
		ToSql()
	if err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "build insert")
	}
	if _, err := tx.ExecContext(ctx.Ctx(), m.db.Rebind(q), args...); err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "insert tree")
	}
	if err := tx.Commit(); err != nil {
		return api.TreeHandle{}, errors.Wrap(err, "commit")
	}

	h := api.TreeHandle{ID: formatID(next), Type: variant}
	ctx.Debug("SQLEngine: created %s", h)
	return h, nil
}

type treeRow struct {
	ID    uint64 `db:"id"`
	Type  string `db:"type"`
	Nodes []byte `db:"nodes"`
}

func (r treeRow) handle() api.TreeHandle {
	return api.TreeHandle{ID: formatID(r.ID), Type: snapshot.Variant(r.Type)}
}

func (m *SQLEngine) ListTrees(ctx logger.ContextInterface) ([]api.TreeHandle, error) {
	q, args, err := sq.Select("id", "type").From("trees").OrderBy("id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build select")
	}
	var rows []treeRow
	if err := m.db.SelectContext(ctx.Ctx(), &rows, m.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "list trees")
	}
	ret := make([]api.TreeHandle, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.handle())
	}
	return ret, nil
}

func (m *SQLEngine) LookupTree(ctx logger.ContextInterface, id string) (api.TreeHandle, []snapshot.NodeRecord, error) {
	n, ok := parseID(id)
	if !ok {
		return api.TreeHandle{}, nil, newTreeNotFoundError(id)
	}
	q, args, err := sq.Select("id", "type", "nodes").From("trees").Where(sq.Eq{"id": n}).ToSql()
	if err != nil {
		return api.TreeHandle{}, nil, errors.Wrap(err, "build select")
	}
	var row treeRow
	err = m.db.GetContext(ctx.Ctx(), &row, m.db.Rebind(q), args...)
	switch err {
	case nil:
	case sql.ErrNoRows:
		return api.TreeHandle{}, nil, newTreeNotFoundError(id)
	default:
		return api.TreeHandle{}, nil, errors.Wrapf(err, "lookup tree %s", id)
	}
	nodes, err := decodeNodes(row.Nodes)
	if err != nil {
		return api.TreeHandle{}, nil, errors.Wrapf(err, "tree %s", id)
	}
	return row.handle(), nodes, nil
}

func (m *SQLEngine) StoreSnapshot(ctx logger.ContextInterface, id string, nodes []snapshot.NodeRecord) error {
	n, ok := parseID(id)
	if !ok {
		return newTreeNotFoundError(id)
	}
	enc, err := encodeNodes(nodes)
	if err != nil {
		return err
	}
	q, args, err := sq.Update("trees").Set("nodes", enc).Where(sq.Eq{"id": n}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build update")
	}
	res, err := m.db.ExecContext(ctx.Ctx(), m.db.Rebind(q), args...)
	if err != nil {
		return errors.Wrapf(err, "store snapshot %s", id)
	}
	return checkAffected(res, id)
}

func (m *SQLEngine) DeleteTree(ctx logger.ContextInterface, id string) error {
	n, ok := parseID(id)
	if !ok {
		return newTreeNotFoundError(id)
	}
	q, args, err := sq.Delete("trees").Where(sq.Eq{"id": n}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete")
	}
	res, err := m.db.ExecContext(ctx.Ctx(), m.db.Rebind(q), args...)
	if err != nil {
		return errors.Wrapf(err, "delete tree %s", id)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return newTreeNotFoundError(id)
	}
	return nil
}

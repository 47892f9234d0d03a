package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/quirks/internal/harness"
)

// SQLite has no enum types. A lookup table plays the enum: its rows are the
// allowed values in declaration order, and the users.status foreign key
// with ON UPDATE CASCADE makes renaming a value a single UPDATE. Changing
// the column default needs a table rebuild.

// StatementInvalid wraps a statement the database rejected.
type StatementInvalid struct {
	Statement string
	Err       error
}

func (e *StatementInvalid) Error() string { return e.Err.Error() }

func (e *StatementInvalid) Unwrap() error { return e.Err }

type enumMigration struct {
	name string
	sql  string
}

// rebuildUsers recreates users with a new status default, keeping rows.
func rebuildUsers(defaultStatus string) string {
	return fmt.Sprintf(`
		CREATE TABLE users_new (
			id     INTEGER PRIMARY KEY,
			status TEXT NOT NULL DEFAULT '%s' REFERENCES user_status(value) ON UPDATE CASCADE
		);
		INSERT INTO users_new (id, status) SELECT id, status FROM users;
		DROP TABLE users;
		ALTER TABLE users_new RENAME TO users;
	`, defaultStatus)
}

var enumMigrations = []enumMigration{
	{
		name: "create user_status",
		sql: `
			CREATE TABLE user_status (
				value    TEXT PRIMARY KEY,
				position INTEGER NOT NULL UNIQUE
			);
			INSERT INTO user_status (value, position) VALUES ('pending', 1), ('active', 2), ('archived', 4);
			CREATE TABLE users (
				id     INTEGER PRIMARY KEY,
				status TEXT NOT NULL DEFAULT 'pending' REFERENCES user_status(value) ON UPDATE CASCADE
			);
		`,
	},
	{
		name: "add disabled after active",
		sql:  `INSERT INTO user_status (value, position) VALUES ('disabled', 3);`,
	},
	{
		name: "rename pending to waiting",
		sql: `UPDATE user_status SET value = 'waiting' WHERE value = 'pending';` +
			rebuildUsers("waiting"),
	},
	{
		name: "remove waiting and disabled",
		sql: `
			UPDATE users SET status = 'active' WHERE status = 'waiting';
			DELETE FROM user_status WHERE value IN ('waiting', 'disabled');
			INSERT INTO user_status (value, position) VALUES ('pending', 1);
		` + rebuildUsers("pending"),
	},
}

// migrateEnum applies migrations [from, to), each in its own transaction.
func migrateEnum(ctx context.Context, env *harness.Env, db *sql.DB, from, to int) error {
	for _, m := range enumMigrations[from:to] {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin %s: %w", m.name, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			tx.Rollback() //nolint:errcheck // the exec error is the one to report
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.name, err)
		}
		env.Logger().Debug("migration applied", "name", m.name)
	}
	return nil
}

func enumValues(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx, `SELECT value FROM user_status ORDER BY position`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return "", err
		}
		values = append(values, v)
	}
	return strings.Join(values, ","), rows.Err()
}

// insertUser inserts a user, with the column default when status is empty,
// and returns the stored status.
func insertUser(ctx context.Context, db *sql.DB, status string) (int64, string, error) {
	query, args := `INSERT INTO users DEFAULT VALUES`, []any{}
	if status != "" {
		query, args = `INSERT INTO users (status) VALUES (?)`, []any{status}
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, "", &StatementInvalid{Statement: query, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", err
	}
	stored, err := userStatus(ctx, db, id)
	return id, stored, err
}

func userStatus(ctx context.Context, db *sql.DB, id int64) (string, error) {
	var status string
	err := db.QueryRowContext(ctx, `SELECT status FROM users WHERE id = ?`, id).Scan(&status)
	return status, err
}

func countStatus(ctx context.Context, db *sql.DB, status string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE status = ?`, status).Scan(&n)
	return n, err
}

// enumStage migrates the sandbox up to version and then runs its checks.
type enumStage struct {
	version int
	run     func(ctx context.Context, db *sql.DB) error
}

// runEnumStages runs the stages of an enum scenario in order.
func runEnumStages(env *harness.Env, stages ...enumStage) error {
	db, err := env.DB()
	if err != nil {
		return err
	}
	ctx := env.Context()
	applied := 0
	for _, st := range stages {
		if err := migrateEnum(ctx, env, db, applied, st.version); err != nil {
			return err
		}
		applied = st.version
		if err := st.run(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func printValues(env *harness.Env) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		values, err := enumValues(ctx, db)
		if err != nil {
			return err
		}
		env.Printf("values=%s", values)
		return nil
	}
}

func printInsert(env *harness.Env, status string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		id, stored, err := insertUser(ctx, db, status)
		if err != nil {
			return err
		}
		env.Printf("user %d status=%s", id, stored)
		return nil
	}
}

func printUser(env *harness.Env, id int64) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		status, err := userStatus(ctx, db, id)
		if err != nil {
			return err
		}
		env.Printf("user %d status=%s", id, status)
		return nil
	}
}

// all runs checks in order, stopping at the first error.
func all(checks ...func(context.Context, *sql.DB) error) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		for _, check := range checks {
			if err := check(ctx, db); err != nil {
				return err
			}
		}
		return nil
	}
}

func enumsScenarios() []harness.Scenario {
	return []harness.Scenario{
		{
			Name:        "enums/default",
			Description: "a new user gets the default status",
			Body: func(env *harness.Env) error {
				return runEnumStages(env, enumStage{version: 2, run: all(
					printValues(env),
					printInsert(env, ""),
					func(ctx context.Context, db *sql.DB) error {
						pending, err := countStatus(ctx, db, "pending")
						if err != nil {
							return err
						}
						active, err := countStatus(ctx, db, "active")
						if err != nil {
							return err
						}
						env.Printf("pending=%d active=%d", pending, active)
						return nil
					},
				)})
			},
			Expected: harness.Lines(
				"values=pending,active,disabled,archived",
				"user 1 status=pending",
				"pending=1 active=0",
			),
		},
		{
			Name:        "enums/rename",
			Description: "renaming a value cascades to rows and the old name is rejected",
			Body: func(env *harness.Env) error {
				return runEnumStages(env,
					enumStage{version: 2, run: printInsert(env, "")},
					enumStage{version: 3, run: all(
						printValues(env),
						printUser(env, 1),
						printInsert(env, ""),
						printInsert(env, "pending"),
					)},
				)
			},
			Expected: []harness.Expectation{
				harness.Line("user 1 status=pending"),
				harness.Line("values=waiting,active,disabled,archived"),
				harness.Line("user 1 status=waiting"),
				harness.Line("user 2 status=waiting"),
				harness.Error("StatementInvalid", "FOREIGN KEY constraint failed"),
			},
		},
		{
			Name:        "enums/remove",
			Description: "removing a value means moving its rows and rebuilding the table",
			Body: func(env *harness.Env) error {
				return runEnumStages(env,
					enumStage{version: 3, run: printInsert(env, "")},
					enumStage{version: 4, run: all(
						printValues(env),
						printUser(env, 1),
						printInsert(env, ""),
					)},
				)
			},
			Expected: harness.Lines(
				"user 1 status=waiting",
				"values=pending,active,archived",
				"user 1 status=active",
				"user 2 status=pending",
			),
		},
	}
}

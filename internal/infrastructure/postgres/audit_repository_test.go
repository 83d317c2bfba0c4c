package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
)

type fakeExec struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExec) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = arguments
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestRecordFillsDefaults(t *testing.T) {
	db := &fakeExec{}
	repo := NewAuditRepository(db)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	err := repo.Record(context.Background(), entity.AuditEvent{
		Email:  "john@example.com",
		Action: entity.AuditLoginFailure,
	})
	require.NoError(t, err)

	require.Len(t, db.args, 6)
	_, err = uuid.Parse(db.args[0].(string))
	assert.NoError(t, err)
	assert.Nil(t, db.args[1].(*string))
	assert.Equal(t, "john@example.com", db.args[2])
	assert.Equal(t, "login_failure", db.args[3])
	assert.JSONEq(t, `{}`, string(db.args[4].([]byte)))
	assert.Equal(t, fixed, db.args[5])
	assert.Contains(t, db.sql, "INSERT INTO auth_audit_logs")
}

func TestRecordKeepsGivenFields(t *testing.T) {
	db := &fakeExec{}
	repo := NewAuditRepository(db)
	at := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	err := repo.Record(context.Background(), entity.AuditEvent{
		ID:        "0b8f7a2e-8f43-4a4e-9c0b-3d6e2f1a9b77",
		UserID:    "60d5ec4f9e7f9b3d84399a6b",
		Action:    entity.AuditRegister,
		Metadata:  map[string]any{"source": "graphql"},
		CreatedAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, "0b8f7a2e-8f43-4a4e-9c0b-3d6e2f1a9b77", db.args[0])
	assert.Equal(t, "60d5ec4f9e7f9b3d84399a6b", *db.args[1].(*string))
	var meta map[string]string
	require.NoError(t, json.Unmarshal(db.args[4].([]byte), &meta))
	assert.Equal(t, "graphql", meta["source"])
	assert.Equal(t, at, db.args[5])
}

func TestRecordPropagatesExecError(t *testing.T) {
	db := &fakeExec{err: errors.New("relation does not exist")}
	err := NewAuditRepository(db).Record(context.Background(), entity.AuditEvent{Action: entity.AuditRegister})
	assert.EqualError(t, err, "relation does not exist")
}

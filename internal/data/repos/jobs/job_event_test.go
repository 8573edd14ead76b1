package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

func TestJobEventLifecycle(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewJobEventRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	externalID := uuid.New()
	created, err := repo.Create(dbc, &types.JobEvent{
		ExternalID: externalID,
		Type:       types.JobSourcingDataImport,
		Status:     types.JobProcessing,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("job id not assigned")
	}

	if err := repo.SetData(dbc, created.ID, map[string]any{"warnings": []string{"row 3: partial match"}}); err != nil {
		t.Fatalf("set data: %v", err)
	}
	if err := repo.UpdateStatus(dbc, created.ID, types.JobCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}

	loaded, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded.Status != types.JobCompleted {
		t.Fatalf("status: got=%s want=%s", loaded.Status, types.JobCompleted)
	}
	if len(loaded.Data) == 0 {
		t.Fatal("job data not persisted")
	}
}

func TestJobEventGetLatestByExternalID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewJobEventRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	externalID := uuid.New()
	first, err := repo.Create(dbc, &types.JobEvent{
		ExternalID: externalID,
		Type:       types.JobSourcingDataImport,
		Status:     types.JobFailed,
	})
	if err != nil {
		t.Fatalf("create first job: %v", err)
	}
	// created_at has second precision on some backends, keep the rows apart.
	time.Sleep(1100 * time.Millisecond)
	second, err := repo.Create(dbc, &types.JobEvent{
		ExternalID: externalID,
		Type:       types.JobSourcingDataImport,
		Status:     types.JobProcessing,
	})
	if err != nil {
		t.Fatalf("create second job: %v", err)
	}

	latest, err := repo.GetLatestByExternalID(dbc, externalID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.ID != second.ID {
		t.Fatalf("latest job: got=%s want=%s (first was %s)", latest.ID, second.ID, first.ID)
	}

	if _, err := repo.GetLatestByExternalID(dbc, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unexpected error for unknown entity: %v", err)
	}
}

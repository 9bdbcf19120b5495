package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/Expenditious/qac-system/internal/qac/testutil"
)

func fptr(v float64) *float64 { return &v }

func seedMasterGraph(t *testing.T, repo *repository.InspectionRepository, formID, no string) *entity.InspectionMaster {
	t.Helper()

	master := &entity.InspectionMaster{
		ID:             testutil.NewID(),
		InspectionNo:   no,
		FormID:         formID,
		InspectionDate: "2026-08-20",
		InspectionTime: "09:00:00",
		Inspector:      "inspector1",
		Status:         entity.StatusCompleted,
		OverallResult:  entity.ResultPass,
		CreatedBy:      "inspector1",
	}
	details := []entity.InspectionDetail{
		{ID: testutil.NewID(), ParameterID: "p1", ParameterName: "Bottle Weight", ParameterType: entity.ParamTypeNumeric, SortOrder: 1, ValueNumeric: fptr(25.0), IsStandard: true},
		{ID: testutil.NewID(), ParameterID: "p2", ParameterName: "Line", ParameterType: entity.ParamTypeSelect, SortOrder: 2, ValueText: strPtr("Line 1"), IsStandard: true},
	}
	bottles := []entity.BottleInspection{
		{ID: testutil.NewID(), BottleNumber: 1, BottleWeight: fptr(25.0), ResultStatus: entity.BottlePass},
	}
	if err := repo.CreateGraph(context.Background(), master, details, bottles); err != nil {
		t.Fatalf("CreateGraph failed: %v", err)
	}
	return master
}

func strPtr(s string) *string { return &s }

func TestCreateGraphRollsBackOnChildFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)
	form, _, _ := testutil.SeedBottleForm(t, db)

	// Two details sharing one primary key force the second insert to fail
	// after the master and first detail were already written.
	dupID := testutil.NewID()
	master := &entity.InspectionMaster{
		ID:             testutil.NewID(),
		InspectionNo:   "QAC-ROLLBACK-1",
		FormID:         form.ID,
		InspectionDate: "2026-08-20",
		InspectionTime: "09:00:00",
		Inspector:      "inspector1",
		Status:         entity.StatusCompleted,
		OverallResult:  entity.ResultPass,
		CreatedBy:      "inspector1",
	}
	details := []entity.InspectionDetail{
		{ID: dupID, ParameterID: "p1", ParameterName: "A", ParameterType: entity.ParamTypeText, ValueText: strPtr("x")},
		{ID: dupID, ParameterID: "p2", ParameterName: "B", ParameterType: entity.ParamTypeText, ValueText: strPtr("y")},
	}

	err := repo.CreateGraph(context.Background(), master, details, nil)
	if err == nil {
		t.Fatal("duplicate child id accepted, want error")
	}

	var masters int64
	db.Model(&entity.InspectionMaster{}).Count(&masters)
	if masters != 0 {
		t.Errorf("failed graph left %d master rows", masters)
	}
	var detailRows int64
	db.Model(&entity.InspectionDetail{}).Count(&detailRows)
	if detailRows != 0 {
		t.Errorf("failed graph left %d detail rows", detailRows)
	}
}

func TestCreateGraphDuplicateNumberTranslated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)
	form, _, _ := testutil.SeedBottleForm(t, db)

	seedMasterGraph(t, repo, form.ID, "QAC-20260820-090000-001")

	clash := &entity.InspectionMaster{
		ID:             testutil.NewID(),
		InspectionNo:   "QAC-20260820-090000-001",
		FormID:         form.ID,
		InspectionDate: "2026-08-20",
		InspectionTime: "09:00:01",
		Inspector:      "inspector2",
		Status:         entity.StatusCompleted,
		OverallResult:  entity.ResultPass,
		CreatedBy:      "inspector2",
	}
	err := repo.CreateGraph(context.Background(), clash, nil, nil)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestReplaceGraphSwapsChildrenAtomically(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)
	form, _, _ := testutil.SeedBottleForm(t, db)

	master := seedMasterGraph(t, repo, form.ID, "QAC-20260820-090000-001")

	newDetails := []entity.InspectionDetail{
		{ID: testutil.NewID(), ParameterID: "p3", ParameterName: "Visual OK", ParameterType: entity.ParamTypeBoolean, SortOrder: 3, ValueBoolean: boolPtr(true), IsStandard: true},
	}
	history := &entity.EditHistory{
		ID:           testutil.NewID(),
		InspectionID: master.ID,
		EditBy:       "supervisor1",
		EditReason:   "re-check",
		OldValues:    entity.JSONB{"k": "old"},
		NewValues:    entity.JSONB{"k": "new"},
	}
	master.Shift = "B"
	if err := repo.ReplaceGraph(context.Background(), master, newDetails, nil, history); err != nil {
		t.Fatalf("ReplaceGraph failed: %v", err)
	}

	got, err := repo.FindByID(context.Background(), master.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Shift != "B" {
		t.Errorf("shift = %q, want B", got.Shift)
	}
	if len(got.Details) != 1 || got.Details[0].ParameterID != "p3" {
		t.Errorf("details not swapped: %+v", got.Details)
	}
	if len(got.Bottles) != 0 {
		t.Errorf("bottles not cleared: %d rows", len(got.Bottles))
	}

	entries, err := repo.ListEditHistory(context.Background(), master.ID)
	if err != nil {
		t.Fatalf("ListEditHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].EditReason != "re-check" {
		t.Errorf("history not written: %+v", entries)
	}
}

func TestReplaceGraphFailureKeepsPriorChildren(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)
	form, _, _ := testutil.SeedBottleForm(t, db)

	master := seedMasterGraph(t, repo, form.ID, "QAC-20260820-090000-001")

	dupID := testutil.NewID()
	badDetails := []entity.InspectionDetail{
		{ID: dupID, ParameterID: "p1", ParameterName: "A", ParameterType: entity.ParamTypeText, ValueText: strPtr("x")},
		{ID: dupID, ParameterID: "p2", ParameterName: "B", ParameterType: entity.ParamTypeText, ValueText: strPtr("y")},
	}
	history := &entity.EditHistory{ID: testutil.NewID(), InspectionID: master.ID, EditBy: "e"}

	if err := repo.ReplaceGraph(context.Background(), master, badDetails, nil, history); err == nil {
		t.Fatal("duplicate child id accepted, want error")
	}

	// The delete inside the failed transaction must have been rolled back.
	got, err := repo.FindByID(context.Background(), master.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(got.Details) != 2 {
		t.Errorf("prior details lost: got %d, want 2", len(got.Details))
	}
	if len(got.Bottles) != 1 {
		t.Errorf("prior bottles lost: got %d, want 1", len(got.Bottles))
	}

	entries, _ := repo.ListEditHistory(context.Background(), master.ID)
	if len(entries) != 0 {
		t.Errorf("failed update wrote %d history rows", len(entries))
	}
}

func TestFindByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCountCreatedSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInspectionRepository(db)
	form, _, _ := testutil.SeedBottleForm(t, db)

	seedMasterGraph(t, repo, form.ID, "QAC-A")
	seedMasterGraph(t, repo, form.ID, "QAC-B")

	count, err := repo.CountCreatedSince(context.Background(), time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountCreatedSince failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = repo.CountCreatedSince(context.Background(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CountCreatedSince failed: %v", err)
	}
	if count != 0 {
		t.Errorf("future cutoff count = %d, want 0", count)
	}
}

func boolPtr(b bool) *bool { return &b }

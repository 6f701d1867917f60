package services

import (
	"testing"

	"buildflow/internal/models"
	"buildflow/internal/testutil"
)

func TestCreatePhoto(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhotoService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		photo, err := svc.Create(project.ID, "AgACAgIAAxkBAAIB", models.StageElectric)
		testutil.AssertNoError(t, err)

		if photo.ID == 0 {
			t.Fatal("expected non-zero photo ID")
		}
		if photo.Stage != models.StageElectric {
			t.Errorf("expected stage electric, got %s", photo.Stage)
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhotoService(db)

		_, err := svc.Create(9999, "file_id", models.StageDraft)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestListPhotos(t *testing.T) {
	t.Run("by_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhotoService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		testutil.CreateTestPhoto(t, db, project.ID, models.StageDraft)
		testutil.CreateTestPhoto(t, db, project.ID, models.StageFinish)

		photos, err := svc.ListByProject(project.ID)
		testutil.AssertNoError(t, err)

		if len(photos) != 2 {
			t.Errorf("expected 2 photos, got %d", len(photos))
		}
	})

	t.Run("by_stage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPhotoService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		testutil.CreateTestPhoto(t, db, project.ID, models.StageDraft)
		testutil.CreateTestPhoto(t, db, project.ID, models.StageDraft)
		testutil.CreateTestPhoto(t, db, project.ID, models.StageFinish)

		draft, err := svc.ListByStage(project.ID, models.StageDraft)
		testutil.AssertNoError(t, err)

		if len(draft) != 2 {
			t.Errorf("expected 2 draft photos, got %d", len(draft))
		}
	})
}

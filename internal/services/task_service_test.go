package services

import (
	"testing"
	"time"

	"buildflow/internal/testutil"
)

func TestCreateTask(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		desc := "Закупить кабель"
		task, err := svc.Create(project.ID, "Электрика", &desc, &user.ID, nil)
		testutil.AssertNoError(t, err)

		if task.ID == 0 {
			t.Fatal("expected non-zero task ID")
		}
		if task.IsCompleted {
			t.Error("expected new task to be open")
		}
		if task.AssignedToID == nil || *task.AssignedToID != user.ID {
			t.Errorf("expected assignee %d, got %v", user.ID, task.AssignedToID)
		}
	})

	t.Run("without_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		task, err := svc.Create(project.ID, "Завезти песок", nil, nil, nil)
		testutil.AssertNoError(t, err)

		if task.Description != nil {
			t.Errorf("expected nil description, got %q", *task.Description)
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		_, err := svc.Create(9999, "Задача", nil, nil, nil)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestCompleteTask(t *testing.T) {
	t.Run("marks_done", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		completed, err := svc.Complete(task.ID)
		testutil.AssertNoError(t, err)

		if !completed.IsCompleted {
			t.Error("expected task to be completed")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		_, err := svc.Complete(task.ID)
		testutil.AssertNoError(t, err)
		again, err := svc.Complete(task.ID)
		testutil.AssertNoError(t, err)

		if !again.IsCompleted {
			t.Error("expected task to stay completed")
		}
	})

	t.Run("unknown_task", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		_, err := svc.Complete(9999)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestListTasks(t *testing.T) {
	t.Run("by_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		testutil.CreateTestTask(t, db, project.ID)
		done := testutil.CreateTestTask(t, db, project.ID)

		_, err := svc.Complete(done.ID)
		testutil.AssertNoError(t, err)

		all, err := svc.ListByProject(project.ID, false)
		testutil.AssertNoError(t, err)
		if len(all) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(all))
		}

		completed, err := svc.ListByProject(project.ID, true)
		testutil.AssertNoError(t, err)
		if len(completed) != 1 {
			t.Errorf("expected 1 completed task, got %d", len(completed))
		}
	})

	t.Run("assigned_open_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)

		open, err := svc.Create(project.ID, "Открытая", nil, &user.ID, nil)
		testutil.AssertNoError(t, err)
		closed, err := svc.Create(project.ID, "Закрытая", nil, &user.ID, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.Complete(closed.ID)
		testutil.AssertNoError(t, err)

		tasks, err := svc.ListAssigned(user.ID)
		testutil.AssertNoError(t, err)

		if len(tasks) != 1 {
			t.Fatalf("expected 1 open task, got %d", len(tasks))
		}
		if tasks[0].ID != open.ID {
			t.Errorf("expected task %d, got %d", open.ID, tasks[0].ID)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		due := time.Now().AddDate(0, 0, 7)
		updated, err := svc.Update(task.ID, nil, nil, &due)
		testutil.AssertNoError(t, err)

		if updated.Title != task.Title {
			t.Errorf("expected title unchanged, got %s", updated.Title)
		}

		reloaded, err := svc.GetByID(task.ID)
		testutil.AssertNoError(t, err)
		if reloaded.DueDate == nil {
			t.Error("expected due date to be set")
		}
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)
		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		task := testutil.CreateTestTask(t, db, project.ID)

		err := svc.Delete(task.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetByID(task.ID)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})

	t.Run("unknown_task", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTaskService(db)

		err := svc.Delete(9999)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

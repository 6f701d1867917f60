package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"buildflow/internal/models"
	"buildflow/internal/testutil"
)

func TestCreateChangeOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		tx := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(5000), models.CategoryMaterials)

		order, err := svc.Create(tx.ID, foreman.ID)
		testutil.AssertNoError(t, err)

		if order.Status != models.ChangeOrderPending {
			t.Errorf("expected status pending, got %s", order.Status)
		}
		if order.TransactionID != tx.ID {
			t.Errorf("expected transaction %d, got %d", tx.ID, order.TransactionID)
		}
	})

	t.Run("unknown_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)

		_, err := svc.Create(9999, foreman.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestApproveChangeOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		tx := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(5000), models.CategoryMaterials)
		order := testutil.CreateTestChangeOrder(t, db, tx.ID, foreman.ID)

		approved, err := svc.Approve(order.ID, client.ID)
		testutil.AssertNoError(t, err)

		if approved.Status != models.ChangeOrderApproved {
			t.Errorf("expected status approved, got %s", approved.Status)
		}
		if approved.ApprovedByID == nil || *approved.ApprovedByID != client.ID {
			t.Errorf("expected approver %d, got %v", client.ID, approved.ApprovedByID)
		}
	})

	t.Run("second_resolution_fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		tx := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(5000), models.CategoryMaterials)
		order := testutil.CreateTestChangeOrder(t, db, tx.ID, foreman.ID)

		_, err := svc.Approve(order.ID, client.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.Reject(order.ID, client.ID, "Превышен бюджет")
		testutil.AssertAppError(t, err, "CHANGE_ORDER_RESOLVED")

		// The first resolution must stand.
		reloaded, err := svc.GetByID(order.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Status != models.ChangeOrderApproved {
			t.Errorf("expected status approved to stand, got %s", reloaded.Status)
		}
	})

	t.Run("unknown_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)

		_, err := svc.Approve(9999, client.ID)
		testutil.AssertAppError(t, err, "CHANGE_ORDER_NOT_FOUND")
	})
}

func TestRejectChangeOrder(t *testing.T) {
	t.Run("stores_reason", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		tx := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(5000), models.CategoryMaterials)
		order := testutil.CreateTestChangeOrder(t, db, tx.ID, foreman.ID)

		rejected, err := svc.Reject(order.ID, client.ID, "Превышен бюджет")
		testutil.AssertNoError(t, err)

		if rejected.Status != models.ChangeOrderRejected {
			t.Errorf("expected status rejected, got %s", rejected.Status)
		}
		if rejected.RejectionReason == nil || *rejected.RejectionReason != "Превышен бюджет" {
			t.Errorf("expected rejection reason to be stored, got %v", rejected.RejectionReason)
		}
	})
}

func TestListChangeOrders(t *testing.T) {
	t.Run("pending_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		tx1 := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(100), models.CategoryMaterials)
		tx2 := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(200), models.CategoryLabor)
		pending := testutil.CreateTestChangeOrder(t, db, tx1.ID, foreman.ID)
		resolved := testutil.CreateTestChangeOrder(t, db, tx2.ID, foreman.ID)

		_, err := svc.Approve(resolved.ID, client.ID)
		testutil.AssertNoError(t, err)

		orders, err := svc.ListPending()
		testutil.AssertNoError(t, err)

		if len(orders) != 1 {
			t.Fatalf("expected 1 pending order, got %d", len(orders))
		}
		if orders[0].ID != pending.ID {
			t.Errorf("expected order %d, got %d", pending.ID, orders[0].ID)
		}
	})

	t.Run("for_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChangeOrderService(db)
		foreman := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, foreman.ID)
		other := testutil.CreateTestProject(t, db, foreman.ID)
		tx1 := testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(100), models.CategoryMaterials)
		tx2 := testutil.CreateTestTransaction(t, db, other.ID, decimal.NewFromInt(200), models.CategoryLabor)
		testutil.CreateTestChangeOrder(t, db, tx1.ID, foreman.ID)
		testutil.CreateTestChangeOrder(t, db, tx2.ID, foreman.ID)

		orders, err := svc.ListForProject(project.ID)
		testutil.AssertNoError(t, err)

		if len(orders) != 1 {
			t.Errorf("expected 1 order for project, got %d", len(orders))
		}
	})
}

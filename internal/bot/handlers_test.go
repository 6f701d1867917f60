package bot

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"buildflow/internal/dialog"
	apperrors "buildflow/internal/errors"
	"buildflow/internal/models"
	"buildflow/internal/services"
	"buildflow/internal/testutil"
)

// fakeTelegram satisfies the Bot API's HTTP client and records every call
// instead of talking to Telegram.
type fakeTelegram struct {
	mu    sync.Mutex
	calls []apiCall
}

type apiCall struct {
	method string
	params url.Values
}

func (f *fakeTelegram) Do(req *http.Request) (*http.Response, error) {
	params := url.Values{}
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		params, _ = url.ParseQuery(string(body))
	}
	path := req.URL.Path
	method := path[strings.LastIndex(path, "/")+1:]

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, params: params})
	f.mu.Unlock()

	const body = `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Test","username":"buildflow_test_bot"}}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

// sent returns the recorded params of every call to the given API method.
func (f *fakeTelegram) sent(method string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []url.Values
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c.params)
		}
	}
	return out
}

func newTestBot(t *testing.T, db *gorm.DB) (*Bot, *fakeTelegram) {
	t.Helper()

	tg := &fakeTelegram{}
	api, err := tgbotapi.NewBotAPIWithClient("test-token", tgbotapi.APIEndpoint, tg)
	if err != nil {
		t.Fatalf("failed to build test bot api: %v", err)
	}

	return &Bot{
		api:     api,
		dialogs: dialog.NewManager(),
		deps: Deps{
			Users:        services.NewUserService(db),
			Projects:     services.NewProjectService(db),
			Transactions: services.NewTransactionService(db),
			Photos:       services.NewPhotoService(db),
			ChangeOrders: services.NewChangeOrderService(db),
			Tasks:        services.NewTaskService(db),
			Reports:      services.NewReportService(db),
			Audit:        services.NewAuditService(db),
		},
	}, tg
}

func textMessage(chatID, tgID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: tgID, FirstName: "Test"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}
}

func callbackQuery(chatID, tgID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: tgID, FirstName: "Test"},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}
}

// failingProjects stands in for the project service when a test needs the
// terminal write to fail.
type failingProjects struct {
	services.ProjectServicer
}

func (failingProjects) Create(name, address string, budget decimal.Decimal, ownerID uint) (*models.Project, error) {
	return nil, apperrors.ErrInternalServer
}

func TestProjectCreationDialog(t *testing.T) {
	t.Run("failed_write_keeps_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b, _ := newTestBot(t, db)
		b.deps.Projects = failingProjects{b.deps.Projects}

		user := testutil.CreateTestUser(t, db)
		chatID := user.TgID
		b.dialogs.Set(chatID, dialog.Session{
			Step:    dialog.StepProjectBudget,
			Project: &dialog.ProjectForm{Name: "Дом", Address: "ул. Лесная, 10"},
		})

		b.handleMessage(context.Background(), textMessage(chatID, user.TgID, "50000"))

		s := b.dialogs.Get(chatID)
		if s.Step != dialog.StepProjectBudget {
			t.Errorf("expected the session to stay on the budget step, got %q", s.Step)
		}
		if s.Project == nil || s.Project.Name != "Дом" {
			t.Error("expected the collected form to survive a failed write")
		}
	})

	t.Run("successful_write_resets_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b, _ := newTestBot(t, db)

		user := testutil.CreateTestUser(t, db)
		chatID := user.TgID
		b.dialogs.Set(chatID, dialog.Session{
			Step:    dialog.StepProjectBudget,
			Project: &dialog.ProjectForm{Name: "Дом", Address: "ул. Лесная, 10"},
		})

		b.handleMessage(context.Background(), textMessage(chatID, user.TgID, "50000"))

		if b.dialogs.Get(chatID).Active() {
			t.Error("expected the session to reset after a confirmed write")
		}
		var count int64
		db.Model(&models.Project{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 project, got %d", count)
		}
	})

	t.Run("invalid_amount_reprompts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b, _ := newTestBot(t, db)

		user := testutil.CreateTestUser(t, db)
		chatID := user.TgID
		b.dialogs.Set(chatID, dialog.Session{
			Step:    dialog.StepProjectBudget,
			Project: &dialog.ProjectForm{Name: "Дом", Address: "ул. Лесная, 10"},
		})

		b.handleMessage(context.Background(), textMessage(chatID, user.TgID, "-5"))

		if b.dialogs.Get(chatID).Step != dialog.StepProjectBudget {
			t.Error("expected invalid input to keep the budget step")
		}
		var count int64
		db.Model(&models.Project{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no project, got %d", count)
		}
	})
}

func TestConfirmExpense(t *testing.T) {
	t.Run("rejects_invalid_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b, _ := newTestBot(t, db)

		user := testutil.CreateTestUser(t, db)
		project := testutil.CreateTestProject(t, db, user.ID)
		chatID := user.TgID
		b.dialogs.Set(chatID, dialog.Session{
			Step: dialog.StepExpenseConfirm,
			Expense: &dialog.ExpenseForm{
				ProjectID: project.ID,
				Category:  "fuel",
				Amount:    decimal.NewFromInt(100),
			},
		})

		b.handleCallback(context.Background(), callbackQuery(chatID, user.TgID, "confirm_expense"))

		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no transaction for an unknown category, got %d", count)
		}
	})

	t.Run("client_expense_notifies_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		b, tg := newTestBot(t, db)

		owner := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestUserWithRole(t, db, models.RoleClient)
		project := testutil.CreateTestProject(t, db, owner.ID)
		chatID := client.TgID
		b.dialogs.Set(chatID, dialog.Session{
			Step: dialog.StepExpenseConfirm,
			Expense: &dialog.ExpenseForm{
				ProjectID: project.ID,
				Category:  "materials",
				Amount:    decimal.RequireFromString("1250.50"),
			},
		})

		b.handleCallback(context.Background(), callbackQuery(chatID, client.TgID, "confirm_expense"))

		var orders int64
		db.Model(&models.ChangeOrder{}).Count(&orders)
		if orders != 1 {
			t.Fatalf("expected 1 change order, got %d", orders)
		}

		ownerChat := strconv.FormatInt(owner.TgID, 10)
		notified := false
		for _, msg := range tg.sent("sendMessage") {
			if msg.Get("chat_id") == ownerChat && strings.Contains(msg.Get("text"), "Новый запрос на согласование") {
				notified = true
			}
		}
		if !notified {
			t.Error("expected the project owner to receive the approval notification")
		}
		if b.dialogs.Get(chatID).Active() {
			t.Error("expected the session to reset after the expense was saved")
		}
	})
}

func TestCreateTaskCallback_RejectsEmptyTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	b, _ := newTestBot(t, db)

	user := testutil.CreateTestUser(t, db)
	project := testutil.CreateTestProject(t, db, user.ID)
	chatID := user.TgID
	b.dialogs.Set(chatID, dialog.Session{
		Step: dialog.StepTaskProject,
		Task: &dialog.TaskForm{},
	})

	b.handleCallback(context.Background(),
		callbackQuery(chatID, user.TgID, "task_proj_"+strconv.FormatUint(uint64(project.ID), 10)))

	var count int64
	db.Model(&models.Task{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no task for an empty title, got %d", count)
	}
}

func TestVoiceProjectCallback_RejectsInvalidForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	b, _ := newTestBot(t, db)

	user := testutil.CreateTestUser(t, db)
	project := testutil.CreateTestProject(t, db, user.ID)
	chatID := user.TgID
	b.dialogs.Set(chatID, dialog.Session{
		Step: dialog.StepVoiceProject,
		Voice: &dialog.VoiceForm{
			Amount:   decimal.NewFromInt(50),
			Category: "fuel",
		},
	})

	b.handleCallback(context.Background(),
		callbackQuery(chatID, user.TgID, "voice_proj_"+strconv.FormatUint(uint64(project.ID), 10)))

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no transaction for an invalid parsed expense, got %d", count)
	}
}

func TestProjectDetails_ShowsBudgetHealth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	b, tg := newTestBot(t, db)

	user := testutil.CreateTestUser(t, db)
	project := testutil.CreateTestProjectWithBudget(t, db, user.ID, decimal.NewFromInt(1000))
	testutil.CreateTestTransaction(t, db, project.ID, decimal.NewFromInt(250), models.CategoryMaterials)

	b.handleCallback(context.Background(),
		callbackQuery(user.TgID, user.TgID, "proj_details_"+strconv.FormatUint(uint64(project.ID), 10)))

	edits := tg.sent("editMessageText")
	if len(edits) == 0 {
		t.Fatal("expected the details view to be rendered")
	}
	text := edits[len(edits)-1].Get("text")
	if !strings.Contains(text, "Хорошо (25%)") {
		t.Errorf("expected the budget health line in the details view, got %q", text)
	}
}

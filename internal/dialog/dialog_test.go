package dialog

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestManager(t *testing.T) {
	t.Run("idle_by_default", func(t *testing.T) {
		m := NewManager()

		s := m.Get(42)
		if s.Active() {
			t.Error("expected new chat to be idle")
		}
	})

	t.Run("update_advances_step", func(t *testing.T) {
		m := NewManager()

		m.Update(42, func(s *Session) {
			s.Step = StepProjectName
			s.Project = &ProjectForm{}
		})
		m.Update(42, func(s *Session) {
			s.Project.Name = "Дом"
			s.Step = StepProjectAddress
		})

		s := m.Get(42)
		if s.Step != StepProjectAddress {
			t.Errorf("expected step project_address, got %s", s.Step)
		}
		if s.Project == nil || s.Project.Name != "Дом" {
			t.Error("expected form to carry collected answers")
		}
	})

	t.Run("reset_returns_to_idle", func(t *testing.T) {
		m := NewManager()

		m.Update(42, func(s *Session) {
			s.Step = StepExpenseAmount
			s.Expense = &ExpenseForm{ProjectID: 1}
		})
		m.Reset(42)

		s := m.Get(42)
		if s.Active() {
			t.Error("expected chat to be idle after reset")
		}
		if s.Expense != nil {
			t.Error("expected form to be dropped after reset")
		}
	})

	t.Run("chats_are_independent", func(t *testing.T) {
		m := NewManager()

		m.Update(1, func(s *Session) { s.Step = StepPhotoUpload })
		m.Update(2, func(s *Session) { s.Step = StepTaskTitle })

		if m.Get(1).Step != StepPhotoUpload {
			t.Error("chat 1 state leaked")
		}
		if m.Get(2).Step != StepTaskTitle {
			t.Error("chat 2 state leaked")
		}
	})

	t.Run("concurrent_updates", func(t *testing.T) {
		m := NewManager()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(chatID int64) {
				defer wg.Done()
				m.Update(chatID, func(s *Session) { s.Step = StepExpenseProject })
				m.Reset(chatID)
			}(int64(i % 5))
		}
		wg.Wait()
	})
}

func TestForms(t *testing.T) {
	t.Run("project_form_valid", func(t *testing.T) {
		f := &ProjectForm{Name: "Дом на Лесной", Address: "ул. Лесная, 10", Budget: decimal.NewFromInt(50000)}
		if err := f.Validate(); err != nil {
			t.Errorf("expected valid form, got %v", err)
		}
	})

	t.Run("project_form_short_address", func(t *testing.T) {
		f := &ProjectForm{Name: "Дом", Address: "ул."}
		if err := f.Validate(); err == nil {
			t.Error("expected short address to fail validation")
		}
	})

	t.Run("expense_form_bad_category", func(t *testing.T) {
		f := &ExpenseForm{ProjectID: 1, Category: "misc"}
		if err := f.Validate(); err == nil {
			t.Error("expected unknown category to fail validation")
		}
	})

	t.Run("photo_form_valid_stage", func(t *testing.T) {
		f := &PhotoForm{ProjectID: 1, Stage: "electric"}
		if err := f.Validate(); err != nil {
			t.Errorf("expected valid stage, got %v", err)
		}
	})

	t.Run("task_form_requires_title", func(t *testing.T) {
		f := &TaskForm{}
		if err := f.Validate(); err == nil {
			t.Error("expected empty title to fail validation")
		}
	})

	t.Run("voice_form_requires_known_category", func(t *testing.T) {
		f := &VoiceForm{Amount: decimal.NewFromInt(100), Category: "labor"}
		if err := f.Validate(); err != nil {
			t.Errorf("expected valid voice form, got %v", err)
		}
	})
}

// Package format contains pure presentation functions: mapping domain
// values to display strings and validating raw user input. No state, no
// side effects beyond string construction.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"buildflow/internal/models"
)

// Currency used for all money displays.
const Currency = "BYN"

// MaxAmount is the upper bound for a single monetary input.
var MaxAmount = decimal.RequireFromString("999999.99")

// Price renders an amount as "1 250.50 BYN" (space-grouped thousands).
func Price(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart := parts[0]

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%s %s", sign, grouped.String(), parts[1], Currency)
}

// DateTime renders a timestamp as ДД.ММ.ГГГГ ЧЧ:ММ.
func DateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// Date renders a date as ДД.ММ.ГГГГ.
func Date(t time.Time) string {
	return t.Format("02.01.2006")
}

// Category localizes an expense category.
func Category(c models.TransactionCategory) string {
	switch c {
	case models.CategoryMaterials:
		return "🏗️ Материалы"
	case models.CategoryLabor:
		return "👷 Работа"
	case models.CategoryOther:
		return "📦 Прочее"
	}
	return string(c)
}

// Stage localizes a construction stage.
func Stage(s models.ProjectStage) string {
	switch s {
	case models.StageDraft:
		return "📋 Эскиз"
	case models.StageElectric:
		return "⚡ Электрика"
	case models.StageFinish:
		return "🎨 Отделка"
	}
	return string(s)
}

// Role localizes a user role.
func Role(r models.UserRole) string {
	switch r {
	case models.RoleForeman:
		return "👷 Прораб"
	case models.RoleClient:
		return "👤 Заказчик"
	case models.RoleAdmin:
		return "🔧 Администратор"
	}
	return string(r)
}

// ParseAmount parses a monetary input, accepting either "." or "," as the
// decimal separator. Valid iff 0 < amount <= 999999.99.
func ParseAmount(text string) (decimal.Decimal, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	if !amount.IsPositive() || amount.GreaterThan(MaxAmount) {
		return decimal.Zero, false
	}
	return amount, true
}

// ValidProjectName reports whether the text fits the name length bounds [1, 255].
func ValidProjectName(text string) bool {
	n := len([]rune(text))
	return n >= 1 && n <= 255
}

// ValidProjectAddress reports whether the text fits the address length bounds [5, 512].
func ValidProjectAddress(text string) bool {
	n := len([]rune(text))
	return n >= 5 && n <= 512
}

// ProjectReport holds the plan/fact numbers rendered for a single project.
type ProjectReport struct {
	ID                uint
	Name              string
	Address           string
	BudgetPlan        decimal.Decimal
	BudgetSpent       decimal.Decimal
	BudgetRemaining   decimal.Decimal
	TransactionsCount int
	PhotosCount       int
	CreatedAt         time.Time
}

// Report renders the plan/fact project report.
func Report(r ProjectReport) string {
	return fmt.Sprintf(
		"📦 <b>%s</b>\n"+
			"📍 Адрес: <code>%s</code>\n"+
			"📅 Дата создания: %s\n"+
			"\n"+
			"💰 <b>Бюджет:</b>\n"+
			"  План: %s\n"+
			"  Потрачено: %s\n"+
			"  Осталось: %s\n"+
			"\n"+
			"📊 <b>Статистика:</b>\n"+
			"  Операций: %d\n"+
			"  Фотографий: %d",
		r.Name, r.Address, Date(r.CreatedAt),
		Price(r.BudgetPlan), Price(r.BudgetSpent), Price(r.BudgetRemaining),
		r.TransactionsCount, r.PhotosCount,
	)
}

// ExpenseSummary renders the confirmation text shown before an expense is saved.
func ExpenseSummary(amount decimal.Decimal, category models.TransactionCategory, description *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>Проверьте данные расхода:</b>\n")
	fmt.Fprintf(&b, "Сумма: %s\n", Price(amount))
	fmt.Fprintf(&b, "Категория: %s\n", Category(category))
	if description != nil && *description != "" {
		fmt.Fprintf(&b, "Описание: <code>%s</code>\n", *description)
	}
	return b.String()
}

// ExpenseEntry renders one history row.
func ExpenseEntry(amount decimal.Decimal, category models.TransactionCategory, description *string, createdAt time.Time) string {
	desc := ""
	if description != nil && *description != "" {
		desc = fmt.Sprintf("\n   Примечание: <code>%s</code>", *description)
	}
	return fmt.Sprintf(
		"💰 %s\n   Категория: %s\n   Дата: %s%s",
		Price(amount), Category(category), DateTime(createdAt), desc,
	)
}

// ExpenseStatistics renders the per-category spending breakdown.
func ExpenseStatistics(stats map[models.TransactionCategory]decimal.Decimal) string {
	total := decimal.Zero
	for _, v := range stats {
		total = total.Add(v)
	}
	return fmt.Sprintf(
		"📊 <b>Расходы по категориям:</b>\n\n"+
			"🏗️ Материалы: %s\n"+
			"👷 Работа: %s\n"+
			"📦 Прочее: %s\n\n"+
			"<b>Всего:</b> %s",
		Price(stats[models.CategoryMaterials]),
		Price(stats[models.CategoryLabor]),
		Price(stats[models.CategoryOther]),
		Price(total),
	)
}

// ProgressStats renders the per-stage photo counts.
func ProgressStats(stages map[models.ProjectStage]int) string {
	total := 0
	for _, n := range stages {
		total += n
	}
	return fmt.Sprintf(
		"📈 <b>Прогресс работ:</b>\n\n"+
			"📋 Эскиз: %d фото\n"+
			"⚡ Электрика: %d фото\n"+
			"🎨 Отделка: %d фото\n\n"+
			"<b>Всего:</b> %d фотографий",
		stages[models.StageDraft],
		stages[models.StageElectric],
		stages[models.StageFinish],
		total,
	)
}

// BudgetStatus renders the budget health line ("Хорошо"/"Внимание"/...).
func BudgetStatus(plan, spent decimal.Decimal) string {
	if plan.IsZero() {
		return "📊 Бюджет не установлен"
	}

	percent, _ := spent.Div(plan).Mul(decimal.NewFromInt(100)).Round(0).Float64()
	switch {
	case percent <= 50:
		return fmt.Sprintf("✅ Хорошо (%.0f%%)", percent)
	case percent <= 80:
		return fmt.Sprintf("⚠️ Внимание (%.0f%%)", percent)
	case percent <= 100:
		return fmt.Sprintf("🔴 Критично (%.0f%%)", percent)
	default:
		return fmt.Sprintf("🚨 Превышен (%.0f%%)", percent)
	}
}

// ChangeOrderNotification renders the message sent when a new approval
// request is created.
func ChangeOrderNotification(amount decimal.Decimal, category models.TransactionCategory, description, requesterName string) string {
	return fmt.Sprintf(
		"📋 <b>Новый запрос на согласование!</b>\n\n"+
			"👷 <b>От:</b> %s\n"+
			"💰 <b>Сумма:</b> %s\n"+
			"📂 <b>Категория:</b> %s\n"+
			"📝 <b>Описание:</b> %s\n\n"+
			"Нажмите кнопку ниже для одобрения или отклонения",
		requesterName, Price(amount), Category(category), description,
	)
}

// TaskLine renders one task row for a list.
func TaskLine(t models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 <b>%s</b>\n", t.Title)
	if t.Description != nil && *t.Description != "" {
		fmt.Fprintf(&b, "   %s\n", *t.Description)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, "   ⏰ Срок: %s\n", Date(*t.DueDate))
	}
	return b.String()
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/food-ledger/internal/models"
)

func TestDay(t *testing.T) {
	records := []models.Record{
		{Date: "2026-02-11", Name: "Rice, white, cooked", Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
		{Date: "2026-02-11", Name: "Soup\nwith bread", Calories: 300, Protein: 10, Carbs: 40, Fat: 8},
	}

	out := Day("Food log for 2026-02-11", records, models.Totals{Calories: 430, Protein: 12.7, Carbs: 68, Fat: 8.3})

	assert.Contains(t, out, "Food log for 2026-02-11")
	assert.Contains(t, out, "Calories")
	assert.Contains(t, out, "Rice, white, cooked")
	assert.Contains(t, out, "Soup with bread")
	assert.Contains(t, out, "2.7")
	assert.Contains(t, out, "Total: 430 kcal, protein 12.7g, carbs 68g, fat 8.3g")
}

func TestDayEmpty(t *testing.T) {
	out := Day("Food log for 2026-02-12", nil, models.Totals{})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Total: 0 kcal, protein 0g, carbs 0g, fat 0g")
}

func TestTotals(t *testing.T) {
	got := Totals(models.Totals{Calories: 500, Protein: 35, Carbs: 50, Fat: 15})
	assert.Equal(t, "Total: 500 kcal, protein 35g, carbs 50g, fat 15g", got)
}

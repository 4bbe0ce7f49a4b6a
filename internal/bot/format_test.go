package bot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/service"
	"github.com/lacasita/telegram-bot-go/internal/timeutil"
)

func TestFormatHousehold(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skip("tzdata not available")
	}
	dates := timeutil.NewFormatter(santiago)
	last := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)
	surname := "Pérez"

	got := formatHousehold(&service.HouseholdSummary{
		Household: model.Household{Name: "Casa_Sol"},
		Members: []model.User{
			{FirstName: "Ana", LastName: &surname, Role: model.RoleAdmin},
			{FirstName: "", Role: model.RoleMember},
		},
		RecordCount:    4,
		LastRecordedAt: &last,
	}, dates)

	assert.Contains(t, got, `🏠 *Casa\_Sol*`)
	assert.Contains(t, got, "👥 *Miembros* (2)")
	assert.Contains(t, got, "• Ana Pérez (Admin ⭐)")
	assert.Contains(t, got, "• Usuario (Miembro)")
	assert.Contains(t, got, "• Total de registros: 4")
	assert.Contains(t, got, "• Último registro: 15/01/2026 00:00")
}

func TestFormatHouseholdWithoutRecords(t *testing.T) {
	got := formatHousehold(&service.HouseholdSummary{
		Household: model.Household{Name: "Casa"},
	}, timeutil.NewFormatter(time.UTC))

	assert.Contains(t, got, "• Último registro: Sin registros")
}

func TestFormatRecordData(t *testing.T) {
	tests := []struct {
		name     string
		slug     string
		data     string
		expected string
	}{
		{name: "pressure with pulse", slug: "presion-arterial", data: `{"sistolica":120,"diastolica":80,"pulso":70}`, expected: "🩸 120/80 | 💓 70"},
		{name: "pressure without pulse", slug: "presion-arterial", data: `{"sistolica":135,"diastolica":90}`, expected: "🩸 135/90"},
		{name: "other subcategory", slug: "glucosa", data: `{"valor":95}`, expected: `{"valor":95}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := formatRecordData(model.RecordSummary{SubcategorySlug: tc.slug, Data: json.RawMessage(tc.data)})
			assert.Equal(t, tc.expected, got)
		})
	}
}

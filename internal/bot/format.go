package bot

import (
	"encoding/json"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/service"
	"github.com/lacasita/telegram-bot-go/internal/timeutil"
)

const defaultRecordIcon = "📄"

// escape protects user supplied text inside legacy Markdown replies
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatHousehold(s *service.HouseholdSummary, dates *timeutil.Formatter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏠 *%s*\n\n", escape(s.Household.Name))
	fmt.Fprintf(&b, "👥 *Miembros* (%d)\n", len(s.Members))
	for _, m := range s.Members {
		name := strings.TrimSpace(m.DisplayName())
		if name == "" {
			name = "Usuario"
		}
		role := "Miembro"
		if m.Role == model.RoleAdmin {
			role = "Admin ⭐"
		}
		fmt.Fprintf(&b, "• %s (%s)\n", escape(name), role)
	}

	last := "Sin registros"
	if s.LastRecordedAt != nil {
		last = dates.Format(*s.LastRecordedAt)
	}
	b.WriteString("\n📊 *Estadísticas*\n")
	fmt.Fprintf(&b, "• Total de registros: %d\n", s.RecordCount)
	fmt.Fprintf(&b, "• Último registro: %s\n", last)
	b.WriteString("\n🔗 Usa /invitar para agregar más miembros")

	return b.String()
}

func formatLatest(records []model.RecordSummary, dates *timeutil.Formatter) string {
	var b strings.Builder
	b.WriteString("📊 *Últimos Registros*\n\n")

	for _, r := range records {
		icon := defaultRecordIcon
		if r.SubcategoryIcon != nil && *r.SubcategoryIcon != "" {
			icon = *r.SubcategoryIcon
		}
		author := "Usuario"
		if r.AuthorFirstName != nil && *r.AuthorFirstName != "" {
			author = *r.AuthorFirstName
		}

		fmt.Fprintf(&b, "%s *%s* - %s\n", icon, escape(r.SubcategoryName), escape(author))
		fmt.Fprintf(&b, "📅 %s\n", dates.Format(r.RecordedAt))
		fmt.Fprintf(&b, "%s\n\n", formatRecordData(r))
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatRecordData(r model.RecordSummary) string {
	if r.SubcategorySlug != bloodpressure.Slug {
		return escape(string(r.Data))
	}

	var d bloodpressure.Data
	if err := json.Unmarshal(r.Data, &d); err != nil || d.Sistolica == nil || d.Diastolica == nil {
		return escape(string(r.Data))
	}
	out := fmt.Sprintf("🩸 %d/%d", *d.Sistolica, *d.Diastolica)
	if d.Pulso != nil {
		out += fmt.Sprintf(" | 💓 %d", *d.Pulso)
	}
	return out
}

func formatInvite(invite *model.HouseholdInvite, dates *timeutil.Formatter) string {
	return "🔑 *Código de Invitación Generado*\n\n" +
		"`" + invite.InviteCode + "`\n\n" +
		"Envía este código a la persona que deseas invitar. " +
		"Un administrador lo usa para completar su registro en el hogar; " +
		"luego podrá usar /start.\n\n" +
		fmt.Sprintf("⏳ Válido hasta el %s. Uso único.", dates.Format(invite.ExpiresAt))
}

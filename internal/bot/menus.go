package bot

import (
	"context"
	"fmt"

	"github.com/lacasita/telegram-bot-go/internal/flow/bloodpressure"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
)

// Callback payloads of the menus
const (
	actionCreateHousehold = "create_household"
	actionJoinHousehold   = "join_household"
	actionMenuRegister    = "menu_register"
	actionMenuLatest      = "menu_latest"
	actionMenuHousehold   = "menu_household"
	actionMenuHelp        = "menu_help"
	actionMenuMain        = "menu_main"
	actionMenuInvite      = "menu_invite"
	actionRegisterPresion = "register_presion"
	actionCancelRegister  = "cancel_register"
	actionNoop            = "noop"
)

const (
	msgWelcome = "👋 ¡Hola! Soy *LaCasita Bot*.\n\n" +
		"Te ayudaré a gestionar la información de tu hogar de forma segura y privada.\n\n" +
		"Para comenzar, ¿qué deseas hacer?"
	msgCancelled      = "❌ Operación cancelada."
	msgHowCanIHelp    = "¿En qué puedo ayudarte?"
	msgNotRegistered  = "⚠️ Debes registrarte primero. Usa /start para comenzar."
	msgUnexpected     = "😔 Ocurrió un error inesperado. Por favor intenta nuevamente.\nSi el problema persiste, usa /ayuda para contactar soporte."
	msgRegisterChoice = "📝 *¿Qué deseas registrar?*"
	msgComingSoon     = "Próximamente..."

	msgHelp = `📖 *Comandos Disponibles*

🏠 *General*
/start - Iniciar o ver menú principal
/mihogar - Ver información de tu hogar
/ayuda - Mostrar esta ayuda

📝 *Registro de Datos*
/registrar - Registrar datos de salud
/ultimos - Ver últimos 10 registros

👥 *Gestión de Hogar*
/invitar - Generar código de invitación (solo admins)

⚙️ *Utilidades*
/cancelar - Cancelar operación actual

ℹ️ *Consejos*
• Puedes cancelar cualquier operación con /cancelar
• Los datos se guardan automáticamente
• Todos los miembros del hogar pueden ver los registros compartidos

¿Necesitas más ayuda? Escribe a @soporte_lacasita`
)

// Menus renders the static menus. It is the cancellation boundary shared by
// the interceptor, the /cancelar command and wizard cancellation.
type Menus struct{}

var _ bloodpressure.Canceller = Menus{}

// ShowCancelled confirms the cancellation and offers the next step
func (m Menus) ShowCancelled(_ context.Context, user *model.User, out *reply.Outbox) {
	out.Send(msgCancelled)
	if user != nil {
		m.Main(user, out)
		return
	}
	out.Send(msgHowCanIHelp, reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("🏠 Crear hogar", actionCreateHousehold)),
		reply.Row(reply.Data("🔑 Unirse a hogar", actionJoinHousehold)),
	)))
}

// Main shows the main menu of a registered user
func (Menus) Main(user *model.User, out *reply.Outbox) {
	household := user.HouseholdName
	if household == "" {
		household = "Mi Hogar"
	}
	text := fmt.Sprintf("🏠 *Hogar: %s*\n\nHola %s, ¿qué deseas hacer hoy?",
		escape(household), escape(user.FirstName))
	out.Send(text, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("📝 Registrar datos", actionMenuRegister)),
		reply.Row(reply.Data("📊 Ver últimos registros", actionMenuLatest)),
		reply.Row(reply.Data("👥 Mi hogar", actionMenuHousehold)),
		reply.Row(reply.Data("❓ Ayuda", actionMenuHelp)),
	)))
}

// Welcome greets a user with no household
func (Menus) Welcome(out *reply.Outbox) {
	out.Send(msgWelcome, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("🏠 Crear nuevo hogar", actionCreateHousehold)),
		reply.Row(reply.Data("🔑 Tengo un código de invitación", actionJoinHousehold)),
	)))
}

func (Menus) Help(out *reply.Outbox) {
	out.Send(msgHelp, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("🔙 Volver al Menú", actionMenuMain)),
	)))
}

// Register lists the subcategories that can be recorded
func (Menus) Register(out *reply.Outbox) {
	out.Send(msgRegisterChoice, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("💉 Presión Arterial", actionRegisterPresion)),
		reply.Row(reply.Data("🔜 Glucosa (Pronto)", actionNoop)),
		reply.Row(reply.Data("🔜 Peso (Pronto)", actionNoop)),
		reply.Row(reply.Data("❌ Cancelar", actionCancelRegister)),
	)))
}

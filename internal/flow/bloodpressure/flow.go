// Package bloodpressure defines the blood-pressure registration wizard.
package bloodpressure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/measurement"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
	"github.com/lacasita/telegram-bot-go/internal/validator"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

const (
	SceneID = "PRESION_FLOW"
	Slug    = "presion-arterial"
)

const (
	StateMethod        wizard.StateID = "method"
	StateQuick         wizard.StateID = "quick"
	StateSystolic      wizard.StateID = "systolic"
	StateDiastolic     wizard.StateID = "diastolic"
	StatePulsePrompt   wizard.StateID = "pulse_prompt"
	StatePulse         wizard.StateID = "pulse"
	StateFastingPrompt wizard.StateID = "fasting_prompt"
	StateFasting       wizard.StateID = "fasting"
	StateArmPrompt     wizard.StateID = "arm_prompt"
	StateArm           wizard.StateID = "arm"
	StateConfirmPrompt wizard.StateID = "confirm_prompt"
	StateConfirm       wizard.StateID = "confirm"
)

// Button payloads
const (
	ActionMethodQuick = "method_quick"
	ActionMethodStep  = "method_step"
	ActionCancelFlow  = "cancel_flow"
	ActionSkipPulse   = "skip_pulso"
	ActionFastingYes  = "ayunas_yes"
	ActionFastingNo   = "ayunas_no"
	ActionSkipFasting = "skip_ayunas"
	ActionArmLeft     = "arm_left"
	ActionArmRight    = "arm_right"
	ActionSkipArm     = "skip_arm"
	ActionConfirmSave = "confirm_save"
	ActionCancelSave  = "cancel_save"
)

const (
	MsgSaved           = "✅ ¡Registro guardado exitosamente!"
	MsgSaving          = "⏳ Guardando..."
	MsgSaveFailed      = "❌ Error al guardar en la base de datos."
	msgMethod          = "📊 *Registro de Presión Arterial*\n\nPuedes ingresar los datos de dos formas:"
	msgQuickPrompt     = "Escribe tu presión y pulso (ejemplo: *120/80 75*):"
	msgSystolicPrompt  = "Ingresa la presión *SISTÓLICA* (la alta, ej: 120):"
	msgDiastolicPrompt = "Ahora ingresa la presión *DIASTÓLICA* (la baja, ej: 80):"
	msgUnrecognized    = "⚠️ Formato no reconocido. Usa \"120/80 75\" o selecciona una opción:"
	msgQuickInvalid    = "⚠️ Formato inválido.\nIntenta: *120/80* ó *120/80 75*"
	msgPulsePrompt     = "💓 ¿Cuál es tu *Pulso*? (Opcional)"
	msgPulseInvalid    = "⚠️ Pulso inválido (30-250). Ingresa un número o presiona Omitir."
	msgFastingPrompt   = "🍽️ ¿Estás en *ayunas*?"
	msgFastingInvalid  = "⚠️ Responde Sí, No u Omitir."
	msgArmPrompt       = "💪 ¿En qué *brazo*?"
	msgArmInvalid      = "⚠️ Responde Izquierdo, Derecho u Omitir."
	msgConfirmInvalid  = "Usa los botones para confirmar o cancelar."
)

// Recorder commits a validated record. Validation failures carry
// apperrors.ErrCodeValidation with validator.Errors as details.
type Recorder interface {
	Create(ctx context.Context, user *model.User, slug string, record map[string]any) (*model.Record, error)
}

// Canceller shows the shared cancellation response
type Canceller interface {
	ShowCancelled(ctx context.Context, user *model.User, out *reply.Outbox)
}

type flow struct {
	recorder  Recorder
	canceller Canceller
}

// New builds the blood-pressure scene
func New(recorder Recorder, canceller Canceller) *wizard.Scene[Data] {
	f := &flow{recorder: recorder, canceller: canceller}

	steps := []wizard.Step[Data]{
		{ID: StateMethod, Handle: f.method, Allowed: []wizard.StateID{StateQuick, StateSystolic, StatePulsePrompt}},
		{ID: StateQuick, Handle: f.quick, Allowed: []wizard.StateID{StatePulsePrompt}},
		{ID: StateSystolic, Handle: f.systolic},
		{ID: StateDiastolic, Handle: f.diastolic, Allowed: []wizard.StateID{StatePulsePrompt}},
		{ID: StatePulsePrompt, Handle: f.pulsePrompt, Allowed: []wizard.StateID{StateFastingPrompt}},
		{ID: StatePulse, Handle: f.pulse, Allowed: []wizard.StateID{StateFastingPrompt}},
		{ID: StateFastingPrompt, Handle: f.fastingPrompt},
		{ID: StateFasting, Handle: f.fasting, Allowed: []wizard.StateID{StateArmPrompt}},
		{ID: StateArmPrompt, Handle: f.armPrompt},
		{ID: StateArm, Handle: f.arm, Allowed: []wizard.StateID{StateConfirmPrompt}},
		{ID: StateConfirmPrompt, Handle: f.confirmPrompt},
		{ID: StateConfirm, Handle: f.confirm},
	}

	return wizard.MustScene(SceneID, steps,
		wizard.OnEnter(f.enter),
		wizard.OnCancel(f.cancel),
	)
}

func methodKeyboard() reply.Keyboard {
	return reply.Rows(
		reply.Row(reply.Data("⚡ Rápido (ej: 120/80 70)", ActionMethodQuick)),
		reply.Row(reply.Data("👣 Paso a paso", ActionMethodStep)),
		reply.Row(reply.Data("❌ Cancelar", ActionCancelFlow)),
	)
}

func (f *flow) enter(_ context.Context, c *wizard.Context[Data]) error {
	c.Reply.Send(msgMethod, reply.Markdown(), reply.WithKeyboard(methodKeyboard()))
	return nil
}

func (f *flow) cancel(ctx context.Context, c *wizard.Context[Data]) error {
	f.canceller.ShowCancelled(ctx, c.User, c.Reply)
	return nil
}

func (f *flow) method(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	switch c.Event.Callback {
	case ActionCancelFlow:
		return wizard.Cancel(), nil
	case ActionMethodQuick:
		c.Reply.Send(msgQuickPrompt, reply.Markdown())
		return wizard.Jump(StateQuick), nil
	case ActionMethodStep:
		c.Reply.Send(msgSystolicPrompt, reply.Markdown())
		return wizard.Jump(StateSystolic), nil
	}

	if c.Event.Text == "" || c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	if storeShorthand(c) {
		return wizard.Reenter(StatePulsePrompt), nil
	}
	c.Reply.Send(msgUnrecognized, reply.WithKeyboard(methodKeyboard()))
	return wizard.Stay(), nil
}

func (f *flow) quick(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.Text == "" || c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	if storeShorthand(c) {
		return wizard.Reenter(StatePulsePrompt), nil
	}
	c.Reply.Send(msgQuickInvalid, reply.Markdown())
	return wizard.Stay(), nil
}

// storeShorthand parses a full reading and acknowledges it
func storeShorthand(c *wizard.Context[Data]) bool {
	r, ok := measurement.Parse(c.Event.Text)
	if !ok {
		return false
	}
	sys, dia := r.Systolic, r.Diastolic
	c.Data.Sistolica = &sys
	c.Data.Diastolica = &dia

	ack := fmt.Sprintf("✅ Leído: %d/%d", sys, dia)
	if r.HasPulse() {
		p := *r.Pulse
		c.Data.Pulso = &p
		ack += fmt.Sprintf(" | 💓 %d", p)
	}
	c.Reply.Send(ack)
	return true
}

func (f *flow) systolic(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.Text == "" || c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	v, ok := measurement.ParseInt(c.Event.Text)
	if !ok || !measurement.InRange(v, measurement.SystolicMin, measurement.SystolicMax) {
		c.Reply.Send(fmt.Sprintf("⚠️ Valor inválido. Ingresa un número entre %d y %d:",
			measurement.SystolicMin, measurement.SystolicMax))
		return wizard.Stay(), nil
	}
	c.Data.Sistolica = &v
	c.Reply.Send(msgDiastolicPrompt, reply.Markdown())
	return wizard.Advance(), nil
}

func (f *flow) diastolic(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.Text == "" || c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	v, ok := measurement.ParseInt(c.Event.Text)
	if !ok || !measurement.InRange(v, measurement.DiastolicMin, measurement.DiastolicMax) {
		c.Reply.Send(fmt.Sprintf("⚠️ Valor inválido. Ingresa un número entre %d y %d:",
			measurement.DiastolicMin, measurement.DiastolicMax))
		return wizard.Stay(), nil
	}
	if c.Data.Sistolica != nil && v >= *c.Data.Sistolica {
		c.Reply.Send(fmt.Sprintf("⚠️ La diastólica debe ser menor que la sistólica (%d). Ingresa otro valor:",
			*c.Data.Sistolica))
		return wizard.Stay(), nil
	}
	c.Data.Diastolica = &v
	return wizard.Reenter(StatePulsePrompt), nil
}

func (f *flow) pulsePrompt(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Data.Pulso != nil {
		return wizard.Satisfied(StateFastingPrompt), nil
	}
	c.Reply.Send(msgPulsePrompt, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("⏭️ Omitir", ActionSkipPulse)),
	)))
	return wizard.Advance(), nil
}

func (f *flow) pulse(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.Callback == ActionSkipPulse {
		return wizard.Reenter(StateFastingPrompt), nil
	}
	if c.Event.Text == "" || c.Event.IsCommand() {
		if c.Event.Callback != "" {
			c.Reply.Send(msgPulseInvalid)
		}
		return wizard.Stay(), nil
	}
	v, ok := measurement.ParseInt(c.Event.Text)
	if !ok || !measurement.InRange(v, measurement.PulseMin, measurement.PulseMax) {
		c.Reply.Send(msgPulseInvalid)
		return wizard.Stay(), nil
	}
	c.Data.Pulso = &v
	return wizard.Reenter(StateFastingPrompt), nil
}

func (f *flow) fastingPrompt(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	c.Reply.Send(msgFastingPrompt, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("Sí", ActionFastingYes), reply.Data("No", ActionFastingNo)),
		reply.Row(reply.Data("⏭️ Omitir", ActionSkipFasting)),
	)))
	return wizard.Advance(), nil
}

func (f *flow) fasting(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	answer := c.Event.Callback
	if answer == "" {
		switch normalize(c.Event.Text) {
		case "si", "sí":
			answer = ActionFastingYes
		case "no":
			answer = ActionFastingNo
		case "omitir":
			answer = ActionSkipFasting
		}
	}

	switch answer {
	case ActionFastingYes:
		yes := true
		c.Data.EnAyunas = &yes
	case ActionFastingNo:
		no := false
		c.Data.EnAyunas = &no
	case ActionSkipFasting:
	default:
		if c.Event.Text == "" && c.Event.Callback == "" {
			return wizard.Stay(), nil
		}
		c.Reply.Send(msgFastingInvalid)
		return wizard.Stay(), nil
	}
	return wizard.Reenter(StateArmPrompt), nil
}

func (f *flow) armPrompt(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	c.Reply.Send(msgArmPrompt, reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("Izquierdo", ActionArmLeft), reply.Data("Derecho", ActionArmRight)),
		reply.Row(reply.Data("⏭️ Omitir", ActionSkipArm)),
	)))
	return wizard.Advance(), nil
}

func (f *flow) arm(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	if c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	answer := c.Event.Callback
	if answer == "" {
		switch normalize(c.Event.Text) {
		case ArmLeft:
			answer = ActionArmLeft
		case ArmRight:
			answer = ActionArmRight
		case "omitir":
			answer = ActionSkipArm
		}
	}

	switch answer {
	case ActionArmLeft:
		c.Data.Brazo = ArmLeft
	case ActionArmRight:
		c.Data.Brazo = ArmRight
	case ActionSkipArm:
	default:
		if c.Event.Text == "" && c.Event.Callback == "" {
			return wizard.Stay(), nil
		}
		c.Reply.Send(msgArmInvalid)
		return wizard.Stay(), nil
	}
	return wizard.Reenter(StateConfirmPrompt), nil
}

func (f *flow) confirmPrompt(_ context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	c.Reply.Send(c.Data.Summary(), reply.Markdown(), reply.WithKeyboard(reply.Rows(
		reply.Row(reply.Data("✅ Confirmar y Guardar", ActionConfirmSave)),
		reply.Row(reply.Data("❌ Cancelar", ActionCancelSave)),
	)))
	return wizard.Advance(), nil
}

func (f *flow) confirm(ctx context.Context, c *wizard.Context[Data]) (wizard.Transition, error) {
	switch c.Event.Callback {
	case ActionCancelSave:
		return wizard.Cancel(), nil
	case ActionConfirmSave:
		f.commit(ctx, c)
		return wizard.Leave(), nil
	}
	if (c.Event.Text == "" && c.Event.Callback == "") || c.Event.IsCommand() {
		return wizard.Stay(), nil
	}
	c.Reply.Send(msgConfirmInvalid)
	return wizard.Stay(), nil
}

// commit validates and persists the reading. Every outcome ends the wizard.
func (f *flow) commit(ctx context.Context, c *wizard.Context[Data]) {
	logger := zerolog.Ctx(ctx)
	c.Reply.Send(MsgSaving)

	if c.User == nil {
		logger.Error().Msg("Blood pressure commit without user")
		c.Reply.Send(MsgSaveFailed)
		return
	}

	_, err := f.recorder.Create(ctx, c.User, Slug, c.Data.Record())
	if err == nil {
		c.Reply.Send(MsgSaved)
		return
	}

	if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code == apperrors.ErrCodeValidation {
		var verrs validator.Errors
		if d, ok := appErr.Details.(validator.Errors); ok {
			verrs = d
		}
		logger.Warn().Strs("violations", verrs.Strings()).Msg("Blood pressure record rejected")
		c.Reply.Send("⚠️ Error de validación:\n" + strings.Join(verrs.Strings(), "\n"))
		return
	}

	logger.Error().Err(err).Msg("Failed to save blood pressure record")
	c.Reply.Send(MsgSaveFailed)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

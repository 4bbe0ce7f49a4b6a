package bloodpressure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lacasita/telegram-bot-go/internal/errors"
	"github.com/lacasita/telegram-bot-go/internal/model"
	"github.com/lacasita/telegram-bot-go/internal/reply"
	"github.com/lacasita/telegram-bot-go/internal/validator"
	"github.com/lacasita/telegram-bot-go/internal/wizard"
)

type fakeRecorder struct {
	calls   []map[string]any
	slug    string
	err     error
	created *model.Record
}

func (f *fakeRecorder) Create(_ context.Context, _ *model.User, slug string, record map[string]any) (*model.Record, error) {
	f.calls = append(f.calls, record)
	f.slug = slug
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

type fakeCanceller struct {
	calls int
}

func (f *fakeCanceller) ShowCancelled(_ context.Context, _ *model.User, out *reply.Outbox) {
	f.calls++
	out.Send("❌ Operación cancelada.")
}

type harness struct {
	t         *testing.T
	scene     *wizard.Scene[Data]
	recorder  *fakeRecorder
	canceller *fakeCanceller
	user      *model.User
	state     *model.WizardState
	last      wizard.Result
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:         t,
		recorder:  &fakeRecorder{created: &model.Record{}},
		canceller: &fakeCanceller{},
		user:      &model.User{ID: "u-1", FirstName: "Ana", HouseholdID: "h-1"},
	}
	h.scene = New(h.recorder, h.canceller)
	return h
}

func (h *harness) enter() []string {
	h.t.Helper()
	out := reply.New(1, "")
	res, err := h.scene.Enter(context.Background(), wizard.Input{User: h.user, Reply: out})
	require.NoError(h.t, err)
	h.state = res.State
	h.last = res
	return out.Texts()
}

func (h *harness) send(ev wizard.Event) []string {
	h.t.Helper()
	require.NotNil(h.t, h.state, "wizard already finished")
	out := reply.New(1, "")
	res, err := h.scene.Handle(context.Background(), *h.state, wizard.Input{Event: ev, User: h.user, Reply: out})
	require.NoError(h.t, err)
	h.state = res.State
	h.last = res
	return out.Texts()
}

func (h *harness) text(s string) []string  { return h.send(wizard.Event{Text: s}) }
func (h *harness) press(s string) []string { return h.send(wizard.Event{Callback: s}) }

func (h *harness) cursor() wizard.StateID {
	if h.state == nil {
		return ""
	}
	return wizard.StateID(h.state.Cursor)
}

func (h *harness) data() Data {
	h.t.Helper()
	var d Data
	require.NoError(h.t, json.Unmarshal(h.state.Data, &d))
	return d
}

func TestFlow_Enter(t *testing.T) {
	h := newHarness(t)
	texts := h.enter()

	assert.Equal(t, StateMethod, h.cursor())
	assert.Equal(t, []string{msgMethod}, texts)
	assert.Equal(t, Data{}, h.data())
}

func TestFlow_ShorthandWithPulseSkipsPulseQuestion(t *testing.T) {
	for _, viaQuick := range []bool{false, true} {
		name := "from method"
		if viaQuick {
			name = "from quick"
		}
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.enter()
			if viaQuick {
				h.press(ActionMethodQuick)
				require.Equal(t, StateQuick, h.cursor())
			}

			texts := h.text("120/80 75")

			assert.Equal(t, []string{"✅ Leído: 120/80 | 💓 75", msgFastingPrompt}, texts)
			assert.NotContains(t, texts, msgPulsePrompt)
			assert.Equal(t, StateFasting, h.cursor())
			assert.Equal(t, []wizard.StateID{StatePulsePrompt}, h.last.Satisfied)

			d := h.data()
			require.NotNil(t, d.Pulso)
			assert.Equal(t, 75, *d.Pulso)
		})
	}
}

func TestFlow_ShorthandWithoutPulseAsksPulse(t *testing.T) {
	h := newHarness(t)
	h.enter()

	texts := h.text("120/80")

	assert.Equal(t, []string{"✅ Leído: 120/80", msgPulsePrompt}, texts)
	assert.Equal(t, StatePulse, h.cursor())
	assert.Nil(t, h.data().Pulso)
}

func TestFlow_StepByStepToSave(t *testing.T) {
	h := newHarness(t)
	h.enter()

	assert.Equal(t, []string{msgSystolicPrompt}, h.press(ActionMethodStep))
	assert.Equal(t, StateSystolic, h.cursor())

	assert.Equal(t, []string{msgDiastolicPrompt}, h.text("130"))
	assert.Equal(t, StateDiastolic, h.cursor())

	texts := h.text("140")
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "menor que la sistólica")
	assert.Equal(t, StateDiastolic, h.cursor())

	assert.Equal(t, []string{msgPulsePrompt}, h.text("85"))
	assert.Equal(t, StatePulse, h.cursor())

	assert.Equal(t, []string{msgFastingPrompt}, h.text("72"))
	assert.Equal(t, StateFasting, h.cursor())

	assert.Equal(t, []string{msgArmPrompt}, h.press(ActionFastingYes))
	assert.Equal(t, StateArm, h.cursor())

	texts = h.text("Izquierdo")
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "🩸 Presión: *130/85* mmHg")
	assert.Contains(t, texts[0], "💓 Pulso: 72 bpm")
	assert.Contains(t, texts[0], "🍽️ Ayunas: Sí")
	assert.Contains(t, texts[0], "💪 Brazo: Izquierdo")
	assert.Equal(t, StateConfirm, h.cursor())

	texts = h.press(ActionConfirmSave)
	assert.Equal(t, []string{MsgSaving, MsgSaved}, texts)
	assert.True(t, h.last.Done())
	assert.False(t, h.last.Cancelled)

	require.Len(t, h.recorder.calls, 1)
	assert.Equal(t, Slug, h.recorder.slug)
	want := map[string]any{"sistolica": 130, "diastolica": 85, "pulso": 72, "en_ayunas": true, "brazo": ArmLeft}
	if diff := cmp.Diff(want, h.recorder.calls[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestFlow_SkipsLeaveOptionalFieldsOut(t *testing.T) {
	h := newHarness(t)
	h.enter()
	h.text("120/80")
	h.press(ActionSkipPulse)
	assert.Equal(t, StateFasting, h.cursor())
	h.press(ActionSkipFasting)
	texts := h.press(ActionSkipArm)

	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "💓 Pulso: -")
	assert.Contains(t, texts[0], "🍽️ Ayunas: -")
	assert.Contains(t, texts[0], "💪 Brazo: -")

	h.press(ActionConfirmSave)
	require.Len(t, h.recorder.calls, 1)
	assert.Equal(t, map[string]any{"sistolica": 120, "diastolica": 80}, h.recorder.calls[0])
}

func TestFlow_RepromptIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
		input string
		state wizard.StateID
	}{
		{"method", func(h *harness) {}, "hola", StateMethod},
		{"quick", func(h *harness) { h.press(ActionMethodQuick) }, "120", StateQuick},
		{"systolic", func(h *harness) { h.press(ActionMethodStep) }, "abc", StateSystolic},
		{"systolic out of range", func(h *harness) { h.press(ActionMethodStep) }, "400", StateSystolic},
		{"diastolic", func(h *harness) { h.press(ActionMethodStep); h.text("120") }, "20", StateDiastolic},
		{"pulse", func(h *harness) { h.text("120/80") }, "300", StatePulse},
		{"fasting", func(h *harness) { h.text("120/80 70") }, "quizás", StateFasting},
		{"arm", func(h *harness) { h.text("120/80 70"); h.press(ActionFastingNo) }, "ambos", StateArm},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.enter()
			tc.setup(h)
			before := *h.state

			first := h.text(tc.input)
			afterFirst := *h.state
			second := h.text(tc.input)

			assert.Equal(t, tc.state, h.cursor())
			assert.Len(t, first, 1)
			assert.Equal(t, first, second)
			assert.Equal(t, before, afterFirst)
			assert.Equal(t, afterFirst, *h.state)
		})
	}
}

func TestFlow_CommandsIgnoredInSteps(t *testing.T) {
	h := newHarness(t)
	h.enter()
	h.press(ActionMethodStep)
	before := *h.state

	texts := h.text("/mihogar")

	assert.Empty(t, texts)
	assert.Equal(t, before, *h.state)
}

func TestFlow_Cancel(t *testing.T) {
	t.Run("cancel_flow on method", func(t *testing.T) {
		h := newHarness(t)
		h.enter()

		texts := h.press(ActionCancelFlow)

		assert.True(t, h.last.Cancelled)
		assert.Nil(t, h.state)
		assert.Equal(t, 1, h.canceller.calls)
		assert.Equal(t, []string{"❌ Operación cancelada."}, texts)
	})

	t.Run("cancel_save on confirm", func(t *testing.T) {
		h := newHarness(t)
		h.enter()
		h.text("120/80 70")
		h.press(ActionSkipFasting)
		h.press(ActionSkipArm)

		h.press(ActionCancelSave)

		assert.True(t, h.last.Cancelled)
		assert.Equal(t, 1, h.canceller.calls)
		assert.Empty(t, h.recorder.calls)
	})
}

func TestFlow_CommitFailures(t *testing.T) {
	toConfirm := func(h *harness) {
		h.enter()
		h.text("120/80 70")
		h.press(ActionSkipFasting)
		h.press(ActionSkipArm)
		require.Equal(h.t, StateConfirm, h.cursor())
	}

	t.Run("validation errors are listed", func(t *testing.T) {
		h := newHarness(t)
		h.recorder.err = apperrors.ValidationError("Record failed validation").
			WithDetails(validator.Errors{{Field: "sistolica", Message: "debe ser menor o igual a 250"}})
		toConfirm(h)

		texts := h.press(ActionConfirmSave)

		assert.Equal(t, []string{MsgSaving, "⚠️ Error de validación:\nsistolica: debe ser menor o igual a 250"}, texts)
		assert.True(t, h.last.Done())
		assert.False(t, h.last.Cancelled)
	})

	t.Run("backend failure apologises and leaves", func(t *testing.T) {
		h := newHarness(t)
		h.recorder.err = apperrors.Database(errors.New("connection reset"))
		toConfirm(h)

		texts := h.press(ActionConfirmSave)

		assert.Equal(t, []string{MsgSaving, MsgSaveFailed}, texts)
		assert.True(t, h.last.Done())
	})
}

func TestData_Summary(t *testing.T) {
	sys, dia := 118, 76
	no := false
	d := Data{Sistolica: &sys, Diastolica: &dia, EnAyunas: &no, Brazo: ArmRight}

	want := "📋 *Resumen del Registro*\n\n" +
		"🩸 Presión: *118/76* mmHg\n" +
		"💓 Pulso: -\n" +
		"🍽️ Ayunas: No\n" +
		"💪 Brazo: Derecho"
	assert.Equal(t, want, d.Summary())
}

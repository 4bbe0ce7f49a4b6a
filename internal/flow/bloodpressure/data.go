package bloodpressure

import (
	"fmt"
	"strings"
)

const (
	ArmLeft  = "izquierdo"
	ArmRight = "derecho"
)

// Data is the working data of the blood-pressure wizard
type Data struct {
	Sistolica  *int   `json:"sistolica,omitempty"`
	Diastolica *int   `json:"diastolica,omitempty"`
	Pulso      *int   `json:"pulso,omitempty"`
	EnAyunas   *bool  `json:"en_ayunas,omitempty"`
	Brazo      string `json:"brazo,omitempty"`
}

// Record builds the candidate record. Unset optional values are left out.
func (d Data) Record() map[string]any {
	rec := make(map[string]any, 5)
	if d.Sistolica != nil {
		rec["sistolica"] = *d.Sistolica
	}
	if d.Diastolica != nil {
		rec["diastolica"] = *d.Diastolica
	}
	if d.Pulso != nil {
		rec["pulso"] = *d.Pulso
	}
	if d.EnAyunas != nil {
		rec["en_ayunas"] = *d.EnAyunas
	}
	if d.Brazo != "" {
		rec["brazo"] = d.Brazo
	}
	return rec
}

// Summary renders the confirmation message in a fixed order
func (d Data) Summary() string {
	var b strings.Builder
	b.WriteString("📋 *Resumen del Registro*\n\n")
	fmt.Fprintf(&b, "🩸 Presión: *%s/%s* mmHg\n", intOrDash(d.Sistolica), intOrDash(d.Diastolica))

	pulse := "-"
	if d.Pulso != nil {
		pulse = fmt.Sprintf("%d bpm", *d.Pulso)
	}
	fmt.Fprintf(&b, "💓 Pulso: %s\n", pulse)

	fasting := "-"
	if d.EnAyunas != nil {
		fasting = "No"
		if *d.EnAyunas {
			fasting = "Sí"
		}
	}
	fmt.Fprintf(&b, "🍽️ Ayunas: %s\n", fasting)

	arm := "-"
	switch d.Brazo {
	case ArmLeft:
		arm = "Izquierdo"
	case ArmRight:
		arm = "Derecho"
	}
	fmt.Fprintf(&b, "💪 Brazo: %s", arm)
	return b.String()
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

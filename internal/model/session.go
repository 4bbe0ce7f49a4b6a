package model

import (
	"encoding/json"
	"maps"
	"time"
)

// Session is the per-conversation state persisted between turns. Exactly one of
// AdHoc and Wizard is set, matching Flow; use the Enter*/Clear methods to change it.
type Session struct {
	Flow   FlowKind     `json:"flow,omitempty"`
	AdHoc  *AdHocScene  `json:"adhoc,omitempty"`
	Wizard *WizardState `json:"wizard,omitempty"`
}

type AdHocScene struct {
	Kind    AdHocKind         `json:"kind"`
	Scratch map[string]string `json:"scratch,omitempty"`
}

// Remember keeps an intermediate answer of a multi-turn ad-hoc scene
func (a *AdHocScene) Remember(key, value string) {
	if a.Scratch == nil {
		a.Scratch = map[string]string{}
	}
	a.Scratch[key] = value
}

func (a *AdHocScene) Recall(key string) (string, bool) {
	v, ok := a.Scratch[key]
	return v, ok
}

type WizardState struct {
	SceneID string          `json:"sceneId"`
	Cursor  string          `json:"cursor"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func NewSession() *Session {
	return &Session{Flow: FlowNone}
}

func (s *Session) HasWizard() bool {
	return s != nil && s.Flow == FlowWizard && s.Wizard != nil
}

func (s *Session) HasAdHoc() bool {
	return s != nil && s.Flow == FlowAdHoc && s.AdHoc != nil
}

func (s *Session) IsEmpty() bool {
	return !s.HasWizard() && !s.HasAdHoc()
}

func (s *Session) EnterWizard(sceneID, cursor string, data json.RawMessage) {
	s.Flow = FlowWizard
	s.AdHoc = nil
	s.Wizard = &WizardState{SceneID: sceneID, Cursor: cursor, Data: data}
}

func (s *Session) EnterAdHoc(kind AdHocKind) {
	s.Flow = FlowAdHoc
	s.Wizard = nil
	s.AdHoc = &AdHocScene{Kind: kind, Scratch: map[string]string{}}
}

// Clear drops any active flow together with its working data.
func (s *Session) Clear() {
	s.Flow = FlowNone
	s.AdHoc = nil
	s.Wizard = nil
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{Flow: s.Flow}
	if s.AdHoc != nil {
		out.AdHoc = &AdHocScene{Kind: s.AdHoc.Kind, Scratch: maps.Clone(s.AdHoc.Scratch)}
	}
	if s.Wizard != nil {
		w := *s.Wizard
		if s.Wizard.Data != nil {
			w.Data = append(json.RawMessage(nil), s.Wizard.Data...)
		}
		out.Wizard = &w
	}
	return out
}

// StoredSession is the row shape of the sessions table.
type StoredSession struct {
	Key       string          `db:"key" json:"key"`
	Session   json.RawMessage `db:"session" json:"session"`
	ExpiresAt time.Time       `db:"expires_at" json:"expiresAt"`
}

package question

// Type is the widget kind a question expects.
type Type string

const (
	TypeText      Type = "text"
	TypeEmail     Type = "email"
	TypeSelect    Type = "select"
	TypeDate      Type = "date"
	TypeCheckbox  Type = "checkbox"
	TypeSignature Type = "signature"
)

// DateLayout is the wire format for date answers.
const DateLayout = "2006-01-02"

// Valid reports whether t is one of the known question types.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeEmail, TypeSelect, TypeDate, TypeCheckbox, TypeSignature:
		return true
	default:
		return false
	}
}

// Condition gates a question on an earlier boolean answer. A nil *Condition
// means the question is always shown.
type Condition struct {
	DependsOn string `json:"dependsOn" yaml:"dependsOn"`
	ShowIf    bool   `json:"showIf" yaml:"showIf"`
}

// Question describes a single prompt.
type Question struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Prompt      string     `json:"prompt"`
	PromptHTML  string     `json:"promptHtml,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Conditional *Condition `json:"conditional,omitempty"`
	IsWelcome   bool       `json:"isWelcome,omitempty"`
}

// Unconditional reports whether the question is always visible.
func (q Question) Unconditional() bool {
	return q.Conditional == nil
}

// Clone returns a deep copy so callers can localise without aliasing.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Conditional != nil {
		cond := *q.Conditional
		out.Conditional = &cond
	}
	return out
}

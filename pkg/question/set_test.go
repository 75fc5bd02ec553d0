package question

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-intake/pkg/answer"
)

func sampleSet() Set {
	return Set{
		{ID: "welcome", Type: TypeText, IsWelcome: true},
		{ID: "fullName", Type: TypeText},
		{ID: "hasChildren", Type: TypeCheckbox, Options: []string{"Yes", "No"}},
		{ID: "childrenNames", Type: TypeText, Conditional: &Condition{DependsOn: "hasChildren", ShowIf: true}},
		{ID: "signature", Type: TypeSignature},
	}
}

func TestSetValidate_AcceptsBackwardReference(t *testing.T) {
	if err := sampleSet().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestSetValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(Set) Set
		want   string
	}{
		{
			name: "forward reference",
			mutate: func(s Set) Set {
				s[1].Conditional = &Condition{DependsOn: "hasChildren", ShowIf: true}
				return s
			},
			want: "later question",
		},
		{
			name: "self reference",
			mutate: func(s Set) Set {
				s[3].Conditional = &Condition{DependsOn: "childrenNames", ShowIf: true}
				return s
			},
			want: "depends on itself",
		},
		{
			name: "unknown parent",
			mutate: func(s Set) Set {
				s[3].Conditional = &Condition{DependsOn: "ghost", ShowIf: true}
				return s
			},
			want: "unknown question",
		},
		{
			name: "non checkbox parent",
			mutate: func(s Set) Set {
				s[3].Conditional = &Condition{DependsOn: "fullName", ShowIf: true}
				return s
			},
			want: "not a checkbox",
		},
		{
			name: "duplicate id",
			mutate: func(s Set) Set {
				s[1].ID = "welcome"
				return s
			},
			want: "duplicate",
		},
		{
			name: "unknown type",
			mutate: func(s Set) Set {
				s[1].Type = "slider"
				return s
			},
			want: "unknown type",
		},
		{
			name: "select without options",
			mutate: func(s Set) Set {
				s[1].Type = TypeSelect
				return s
			},
			want: "no options",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(sampleSet()).Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !IsConfigurationError(err) {
				t.Fatalf("expected ConfigurationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestSetSameShape_IgnoresText(t *testing.T) {
	a := sampleSet()
	b := sampleSet().Clone()
	b[1].Prompt = "Nombre completo"
	b[2].Options = []string{"Sí", "No"}
	if !a.SameShape(b) {
		t.Fatalf("expected same shape when only text differs")
	}
	b[3].Conditional.ShowIf = false
	if a.SameShape(b) {
		t.Fatalf("expected shape mismatch when condition changes")
	}
	if a[3].Conditional.ShowIf != true {
		t.Fatalf("clone aliased the original condition")
	}
}

func TestValidateAnswer(t *testing.T) {
	nationality := Question{ID: "nationality", Type: TypeSelect, Options: []string{"Kenya", "Botswana"}}
	cases := []struct {
		name string
		q    Question
		v    answer.Value
		ok   bool
	}{
		{"text ok", Question{ID: "fullName", Type: TypeText}, answer.Text("Jane Doe"), true},
		{"text blank", Question{ID: "fullName", Type: TypeText}, answer.Text("  "), false},
		{"text given bool", Question{ID: "fullName", Type: TypeText}, answer.Bool(true), false},
		{"welcome accepts anything", Question{ID: "welcome", Type: TypeText, IsWelcome: true}, answer.Text(""), true},
		{"email ok", Question{ID: "email", Type: TypeEmail}, answer.Text("jane@x.com"), true},
		{"email with name rejected", Question{ID: "email", Type: TypeEmail}, answer.Text("Jane <jane@x.com>"), false},
		{"email bad", Question{ID: "email", Type: TypeEmail}, answer.Text("jane"), false},
		{"date ok", Question{ID: "birthday", Type: TypeDate}, answer.Text("1990-01-01"), true},
		{"date bad", Question{ID: "birthday", Type: TypeDate}, answer.Text("01/01/1990"), false},
		{"select ok", nationality, answer.Text("Kenya"), true},
		{"select unknown", nationality, answer.Text("Atlantis"), false},
		{"checkbox true", Question{ID: "hasChildren", Type: TypeCheckbox}, answer.Bool(true), true},
		{"checkbox label rejected", Question{ID: "hasChildren", Type: TypeCheckbox}, answer.Text("Yes"), false},
		{"signature ok", Question{ID: "signature", Type: TypeSignature}, answer.Text("data:image/png;base64,AA=="), true},
		{"signature raw", Question{ID: "signature", Type: TypeSignature}, answer.Text("AA=="), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.ValidateAnswer(tc.v)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !errors.Is(err, ErrInvalidAnswer) {
					t.Fatalf("expected ErrInvalidAnswer, got %v", err)
				}
			}
		})
	}
}

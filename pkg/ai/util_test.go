package ai

import (
	"errors"
	"testing"

	"github.com/kgraphrag/backend/pkg/common"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  person
	}{
		{
			name:  "valid json object",
			input: `{"name":"John"}`,
			want:  person{Name: "John"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'John'}`,
			want:  person{Name: "John"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"John",}`,
			want:  person{Name: "John"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"John`,
			want:  person{Name: "John"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'John'}"`,
			want:  person{Name: "John"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"John\"\n}\n",
			want:  person{Name: "John"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got person
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want.Name || got.Age != tc.want.Age {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ArrayVariants(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}

	input := `[{name:'A'},{name:'B',}]`
	var got []person
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two persons A,B", got)
	}
}

func TestUnmarshalFlexible_UnrecoverableWrapsMalformedOutput(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}

	var got person
	err := UnmarshalFlexible("the model refused to answer", &got)
	if err == nil {
		t.Fatal("expected an error for prose input")
	}
	if !errors.Is(err, common.ErrMalformedOutput) {
		t.Fatalf("expected error wrapping ErrMalformedOutput, got %v", err)
	}
}

func TestGenerateSchema(t *testing.T) {
	type inner struct {
		Value string `json:"value" jsonschema_description:"A value."`
	}
	type outer struct {
		Items []inner `json:"items"`
	}

	if schema := GenerateSchema(outer{}); schema == nil {
		t.Fatal("expected a non-nil schema for a struct value")
	}
	if schema := GenerateSchema(&outer{}); schema == nil {
		t.Fatal("expected a non-nil schema for a pointer value")
	}
}

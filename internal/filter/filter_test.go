package filter

import (
	"bytes"
	"reflect"
	"testing"
)

func TestApply_EmptyExpression(t *testing.T) {
	data := map[string]any{"forename": "Ada"}
	result, err := Apply(data, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(map[string]any)["forename"] != "Ada" {
		t.Error("empty expression should return data unchanged")
	}
}

func TestApply_SelectField(t *testing.T) {
	result, err := Apply(map[string]any{"forename": "Ada", "uid": 1}, ".forename")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Ada" {
		t.Errorf("expected 'Ada', got %v", result)
	}
}

func TestApply_TypedRecords(t *testing.T) {
	records := []map[string]any{
		{"ug_id": 1, "ug_name": "Chess"},
		{"ug_id": 2, "ug_name": "Climbing"},
	}

	result, err := Apply(records, `[.[] | .ug_name]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []any{"Chess", "Climbing"}; !reflect.DeepEqual(result, want) {
		t.Errorf("got %v, want %v", result, want)
	}
}

func TestApply_MultipleResults(t *testing.T) {
	data := []any{
		map[string]any{"status": "open"},
		map[string]any{"status": "closed"},
		map[string]any{"status": "open"},
	}
	result, err := Apply(data, `.[] | select(.status == "open") | .status`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []any{"open", "open"}; !reflect.DeepEqual(result, want) {
		t.Errorf("got %v, want %v", result, want)
	}
}

func TestApply_ShellEscapedOperator(t *testing.T) {
	data := []any{map[string]any{"n": 1.0}, map[string]any{"n": 2.0}}
	result, err := Apply(data, `[.[] | select(.n \!= 1)] | length`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 1 {
		t.Errorf("expected 1, got %v (%T)", result, result)
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	if _, err := Apply(map[string]any{}, "invalid[[["); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestApply_RuntimeError(t *testing.T) {
	if _, err := Apply("text", ".a"); err == nil {
		t.Error("expected error selecting a field of a string")
	}
}

func TestApplyToJSON(t *testing.T) {
	result, err := ApplyToJSON([]byte(`{"data":[{"uid":1}]}`), ".data[0].uid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "1" {
		t.Errorf("got %s", result)
	}

	jsonData := []byte(`{"name": "test"}`)
	result, err = ApplyToJSON(jsonData, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(jsonData, result) {
		t.Error("empty expression should return original JSON unchanged")
	}

	if _, err := ApplyToJSON([]byte(`{invalid}`), ".name"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNormalizeExpression(t *testing.T) {
	if got := NormalizeExpression(`.a \!= .b`); got != `.a != .b` {
		t.Errorf("got %q", got)
	}
}

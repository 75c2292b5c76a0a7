package types

import (
	"encoding/json"
	"testing"
)

func TestOptionalDistinguishesAbsentFromNull(t *testing.T) {
	var payload struct {
		Description Optional[string] `json:"description"`
		Category    Optional[string] `json:"category"`
	}

	if err := json.Unmarshal([]byte(`{"description":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !payload.Description.Set || payload.Description.Value != nil {
		t.Fatalf("explicit null must be set with nil value, got %+v", payload.Description)
	}
	if payload.Category.Set {
		t.Fatal("absent field must stay unset")
	}
}

func TestOptionalCarriesValue(t *testing.T) {
	var payload struct {
		Category Optional[string] `json:"category"`
	}

	if err := json.Unmarshal([]byte(`{"category":"chairs"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Category.Set || payload.Category.Value == nil || *payload.Category.Value != "chairs" {
		t.Fatalf("expected present value, got %+v", payload.Category)
	}
}

func TestOptionalMarshal(t *testing.T) {
	out, err := json.Marshal(Some("chairs"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"chairs"` {
		t.Fatalf("got %s", out)
	}

	out, err = json.Marshal(Null[string]())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "null" {
		t.Fatalf("got %s", out)
	}
}

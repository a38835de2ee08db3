package core

import "testing"

func TestRedactSensitiveMap(t *testing.T) {
	input := map[string]any{
		"identity":     "@alice:example.org",
		"phone":        "+15550001111",
		"bot_token":    "123:abc",
		"errcode":      "phone_code_invalid",
		"failure_kind": "phone_code_invalid",
		"nested": map[string]any{
			"password": "hunter2",
			"attempt":  2,
		},
		"list": []any{map[string]any{"code": "12345"}},
	}

	out := RedactSensitiveMap(input)

	if out["identity"] != "@alice:example.org" || out["errcode"] != "phone_code_invalid" || out["failure_kind"] != "phone_code_invalid" {
		t.Fatalf("expected traceability keys to survive, got %+v", out)
	}
	if out["phone"] != RedactedValue || out["bot_token"] != RedactedValue {
		t.Fatalf("expected credentials to be redacted, got %+v", out)
	}
	nested := out["nested"].(map[string]any)
	if nested["password"] != RedactedValue || nested["attempt"] != 2 {
		t.Fatalf("unexpected nested redaction %+v", nested)
	}
	list := out["list"].([]any)
	if list[0].(map[string]any)["code"] != RedactedValue {
		t.Fatalf("expected code inside list to be redacted")
	}
	if input["phone"] != "+15550001111" {
		t.Fatalf("expected input map to be left untouched")
	}
}

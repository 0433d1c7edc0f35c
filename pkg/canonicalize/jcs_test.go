package canonicalize

import (
	"encoding/json"
	"testing"
)

func TestJCS_Sorting(t *testing.T) {
	input := map[string]interface{}{
		"c": 3,
		"a": 1,
		"b": 2,
	}

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}
	if string(b) != `{"a":1,"b":2,"c":3}` {
		t.Errorf("unexpected canonical form %s", b)
	}
}

func TestJCS_StructTagsAndNesting(t *testing.T) {
	type attr struct {
		Value string `json:"value"`
		Trait string `json:"trait_type"`
	}
	input := struct {
		Name  string `json:"name"`
		Attrs []attr `json:"attributes"`
	}{"Bag #1", []attr{{Value: "Katana", Trait: "Weapon"}}}

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}
	expected := `{"attributes":[{"trait_type":"Weapon","value":"Katana"}],"name":"Bag #1"}`
	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, b)
	}
}

func TestJCS_NoHTMLEscaping(t *testing.T) {
	input := map[string]string{"svg": `<text x="10">&</text>`}

	b, err := JCS(input)
	if err != nil {
		t.Fatalf("JCS failed: %v", err)
	}
	expected := `{"svg":"<text x=\"10\">&</text>"}`
	if string(b) != expected {
		t.Errorf("Expected %s, got %s", expected, b)
	}
}

func TestJCS_NormalizesUnicode(t *testing.T) {
	// "é" as e + combining acute vs the precomposed code point.
	decomposed := map[string]string{"name": "Cafe\u0301"}
	composed := map[string]string{"name": "Caf\u00e9"}

	h1, err := CanonicalHash(decomposed)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := CanonicalHash(composed)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("NFC-equivalent documents hashed differently: %s vs %s", h1, h2)
	}
}

func TestJCS_RoundTripsAsJSON(t *testing.T) {
	s, err := JCSString(map[string]interface{}{"n": 1.5, "ok": true, "nil": nil})
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]interface{}
	if err := json.Unmarshal([]byte(s), &back); err != nil {
		t.Fatalf("canonical output is not JSON: %v", err)
	}
	if back["n"] != 1.5 || back["ok"] != true {
		t.Errorf("unexpected decode %v", back)
	}
}

func TestHashBytes(t *testing.T) {
	// sha256("")
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := HashBytes(nil); got != want {
		t.Errorf("HashBytes(nil) = %s", got)
	}
}

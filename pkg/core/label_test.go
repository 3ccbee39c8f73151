package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/aretw0/boardsync/pkg/core"
)

func TestDecodeLabel(t *testing.T) {
	tests := []struct {
		label string
		name  string
		id    string
	}{
		{label: "Todo (L1)", name: "Todo", id: "L1"},
		{label: "Todo", name: "Todo"},
		{label: "", name: ""},
		{label: "trailing ", name: "trailing "},
		{label: " (x)", name: "", id: "x"},
		{label: "open (abc", name: "open", id: "abc"},
		{label: "tail (abc) rest", name: "tail", id: "abc"},
		{label: "empty ()", name: "empty"},
		{label: "f(x)", name: "f(x)"},
		{label: "(x)", name: "(x)"},
		{label: "f(x) (id)", name: "f(x) (id)"},
		{label: "-Buy milk (c1)", name: "-Buy milk", id: "c1"},
		{label: "two words (5f0c1a)", name: "two words", id: "5f0c1a"},
		{label: `f\(x) (c1)`, name: "f(x)", id: "c1"},
		{label: `Call \(mom) (c1)`, name: "Call (mom)", id: "c1"},
		{label: `\-dash (c1)`, name: "-dash", id: "c1"},
		{label: `back\\slash (c1)`, name: `back\slash`, id: "c1"},
		{label: `C:\path (c1)`, name: `C:\path`, id: "c1"},
		{label: `f\(x)`, name: "f(x)"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			name, id := core.DecodeLabel(tt.label)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestEncodeLabel(t *testing.T) {
	assert.Equal(t, "Todo (L1)", core.EncodeLabel("Todo", "L1"))
	assert.Equal(t, "Todo", core.EncodeLabel("Todo", ""))
	assert.Equal(t, " (x)", core.EncodeLabel("", "x"))
	assert.Equal(t, `f\(x) (c1)`, core.EncodeLabel("f(x)", "c1"))
	assert.Equal(t, `\-dash`, core.EncodeLabel("-dash", ""))
	assert.Equal(t, "a-b", core.EncodeLabel("a-b", ""))
	assert.Equal(t, `a\\b`, core.EncodeLabel(`a\b`, ""))
}

func TestIsRemoval(t *testing.T) {
	assert.True(t, core.IsRemoval("-Buy milk (c1)"))
	assert.True(t, core.IsRemoval("-"))
	assert.False(t, core.IsRemoval("Buy milk"))
	assert.False(t, core.IsRemoval(""))
	assert.False(t, core.IsRemoval("a-b"))
	assert.False(t, core.IsRemoval(core.EncodeLabel("-dash", "c1")))
}

func testLabel_Roundtrip_Properties(t *rapid.T) {
	name := rapid.String().Draw(t, "name")
	id := rapid.StringMatching(`[^)]{0,16}`).Draw(t, "id")

	gotName, gotID := core.DecodeLabel(core.EncodeLabel(name, id))
	if gotName != name || gotID != id {
		t.Fatalf("round trip of (%q, %q) gave (%q, %q)", name, id, gotName, gotID)
	}
}

func TestLabel_Roundtrip_Properties(t *testing.T) {
	rapid.Check(t, testLabel_Roundtrip_Properties)
}

func FuzzLabel_Roundtrip_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testLabel_Roundtrip_Properties))
}

func TestEncodeLabel_NeverRemoval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		id := rapid.StringMatching(`[^)]{0,16}`).Draw(t, "id")
		if core.IsRemoval(core.EncodeLabel(name, id)) {
			t.Fatalf("encoded name %q reads as a removal", name)
		}
	})
}

func TestDecodeLabel_NameIsPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.StringMatching(`[^\\]{0,40}`).Draw(t, "label")
		name, _ := core.DecodeLabel(label)
		if !strings.HasPrefix(label, name) {
			t.Fatalf("label %q decoded to name %q which is not a prefix", label, name)
		}
	})
}

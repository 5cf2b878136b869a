package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestScanType_Basic(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"simple", `{"type":"hello"}`, "hello"},
		{"whitespace", " \t\n{ \"type\" : \"message\" }", "message"},
		{"type not first", `{"channel":"C1","user":"U1","type":"message"}`, "message"},
		{"unknown kind", `{"type":"unknown_kind"}`, "unknown_kind"},
		{"nested object before", `{"item":{"type":"file"},"type":"reaction_added"}`, "reaction_added"},
		{"nested array before", `{"ids":[1,2,{"type":"x"}],"type":"hello"}`, "hello"},
		{"escaped content before", `{"text":"say \"hi\"","type":"hello"}`, "hello"},
		{"escaped value", `{"type":"he\u006clo"}`, "hello"},
		{"string with brackets", `{"text":"{[\"}","type":"message"}`, "message"},
		{"numbers and literals", `{"n":-1.5e3,"b":true,"x":null,"type":"hello"}`, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanType(tt.payload))
		})
	}
}

func TestScanType_NoDiscriminator(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not an object", `["type","hello"]`},
		{"bare string", `"type"`},
		{"empty object", `{}`},
		{"absent field", `{"channel":"C1"}`},
		{"nested only", `{"item":{"type":"message"}}`},
		{"non-string type", `{"type":42}`},
		{"null type", `{"type":null}`},
		{"object type", `{"type":{"x":1}}`},
		{"truncated", `{"type":"hel`},
		{"truncated value", `{"channel":`},
		{"garbage", `%%%%`},
		{"unterminated escape", `{"type":"a\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "", ScanType(tt.payload))
		})
	}
}

// The scanner only guarantees extraction for a top-level field; a "type"
// key inside a nested value must never be picked up.
func TestScanType_IgnoresNestedType(t *testing.T) {
	payload := `{"item":{"type":"file","nested":{"type":"deep"}},"list":[{"type":"inner"}],"type":"reaction_added"}`
	assert.Equal(t, "reaction_added", ScanType(payload))
}

// Property: for any object that encoding/json can marshal with a string
// "type" field, the scanner agrees with a full parse.
func TestScanType_MatchesFullParse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.StringMatching(`[a-z_]{1,20}`).Draw(t, "kind")
		obj := map[string]any{"type": kind}

		extra := rapid.IntRange(0, 5).Draw(t, "extra")
		for i := 0; i < extra; i++ {
			key := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "key")
			if key == "type" {
				continue
			}
			switch rapid.IntRange(0, 3).Draw(t, "valKind") {
			case 0:
				obj[key] = rapid.String().Draw(t, "strVal")
			case 1:
				obj[key] = rapid.Float64Range(-1e9, 1e9).Draw(t, "numVal")
			case 2:
				obj[key] = map[string]any{"type": rapid.String().Draw(t, "nestedType")}
			default:
				obj[key] = []any{rapid.Int().Draw(t, "elem"), nil, true}
			}
		}

		data, err := json.Marshal(obj)
		require.NoError(t, err)

		assert.Equal(t, kind, ScanType(string(data)))
	})
}

// Property: arbitrary input never panics and absent discriminators come
// back empty rather than as an error.
func TestScanType_ArbitraryInputSafe(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.String().Draw(t, "payload")
		_ = ScanType(payload)
	})
}

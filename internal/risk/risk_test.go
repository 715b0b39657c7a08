package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"This system is PROHIBITED under Article 5.", Prohibited},
		{"It qualifies as High-Risk (Annex III).", High},
		{"high \n  risk", High},
		{"Limited risk: transparency obligations apply.", Limited},
		{"minimal-risk", Minimal},
		{"Not high risk but limited risk.", High},
		{"unacceptable risk", Unknown},
		{"highrisk", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.in))
		})
	}
}

func TestCategoryScale(t *testing.T) {
	assert.Equal(t, "Prohibited", Prohibited.String())
	assert.Equal(t, 37.5, High.Position())
	assert.Equal(t, 100.0, Unknown.Position())
	assert.Equal(t, "#008000", Minimal.Color())
	for c := Prohibited; c < Minimal; c++ {
		assert.Less(t, c.Position(), (c + 1).Position())
	}
}

func TestCategoryJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Category{"risk_category": Limited})
	require.NoError(t, err)
	assert.JSONEq(t, `{"risk_category":"Limited Risk"}`, string(out))
}

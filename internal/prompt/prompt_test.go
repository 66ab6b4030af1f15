package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data := map[string]any{"tier": "vip", "issue": "billing", "tools": []string{"a", "b"}}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "You are support.", "You are support."},
		{"fields", "Serve {{.tier}} customers with {{.issue}} issues.", "Serve vip customers with billing issues."},
		{"helpers", "{{upper .tier}} {{title .issue}} {{join \", \" .tools}}", "VIP Billing a, b"},
		{"default", "{{default \"none\" .missing}}", "none"},
		{"no escaping", "{{.tier}} <b>&</b>", "vip <b>&</b>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.text, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ParseError(t *testing.T) {
	_, err := Render("{{.tier", nil)
	assert.Error(t, err)
}

package support

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier_Tier(t *testing.T) {
	c := NewKeywordClassifier()
	tests := []struct {
		text string
		want Tier
	}{
		{"I'm a VIP customer", TierVIP},
		{"premium plan here", TierVIP},
		{"PREMIUM", TierVIP},
		{"just a regular question", TierStandard},
		{"", TierStandard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ClassifyTier(tt.text), tt.text)
	}
}

func TestKeywordClassifier_Issue(t *testing.T) {
	c := NewKeywordClassifier()
	tests := []struct {
		text string
		want IssueType
	}{
		{"issue a refund", IssueBilling},
		{"Billing question", IssueBilling},
		{"REFUND NOW", IssueBilling},
		{"where is my order", IssueGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ClassifyIssue(tt.text), tt.text)
	}
}

func TestKeywordClassifier_CustomKeywords(t *testing.T) {
	c := &KeywordClassifier{VIPKeywords: []string{"Gold"}, BillingKeywords: []string{"invoice", ""}}
	assert.Equal(t, TierVIP, c.ClassifyTier("gold member"))
	assert.Equal(t, TierStandard, c.ClassifyTier("vip"))
	assert.Equal(t, IssueBilling, c.ClassifyIssue("my INVOICE"))
	assert.Equal(t, IssueGeneral, c.ClassifyIssue("anything"))
}

func TestClassifierNodes(t *testing.T) {
	c := NewKeywordClassifier()
	s := NewState("VIP here, need a refund")

	require.NoError(t, CheckTierNode(c)(context.Background(), s))
	assert.Equal(t, TierVIP, s.UserTier)
	assert.Equal(t, IssueUnset, s.IssueType)

	require.NoError(t, ClassifyIssueNode(c)(context.Background(), s))
	assert.Equal(t, IssueBilling, s.IssueType)
	assert.True(t, s.Classified())
	assert.Equal(t, 1, s.Len())
}

func TestClassifierNodes_EmptyConversation(t *testing.T) {
	c := NewKeywordClassifier()
	assert.ErrorIs(t, CheckTierNode(c)(context.Background(), &State{}), ErrEmptyConversation)
	assert.ErrorIs(t, ClassifyIssueNode(c)(context.Background(), &State{}), ErrEmptyConversation)
}

package support

import (
	"context"
	"errors"
	"strings"

	"github.com/hupe1980/supportmesh/graph"
)

// ErrEmptyConversation is returned by the classifier nodes when the state
// carries no seed message.
var ErrEmptyConversation = errors.New("support: empty conversation")

// TierClassifier resolves the customer tier from the seed message text.
type TierClassifier interface {
	ClassifyTier(text string) Tier
}

// IssueClassifier resolves the issue type from the seed message text.
type IssueClassifier interface {
	ClassifyIssue(text string) IssueType
}

// KeywordClassifier implements both classifiers by case-insensitive substring
// search. Keywords are checked in order; the first hit wins.
type KeywordClassifier struct {
	VIPKeywords     []string
	BillingKeywords []string
}

// NewKeywordClassifier returns a classifier with the default keyword lists.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		VIPKeywords:     []string{"vip", "premium"},
		BillingKeywords: []string{"refund", "billing"},
	}
}

// ClassifyTier implements TierClassifier.
func (c *KeywordClassifier) ClassifyTier(text string) Tier {
	if containsAny(text, c.VIPKeywords) {
		return TierVIP
	}
	return TierStandard
}

// ClassifyIssue implements IssueClassifier.
func (c *KeywordClassifier) ClassifyIssue(text string) IssueType {
	if containsAny(text, c.BillingKeywords) {
		return IssueBilling
	}
	return IssueGeneral
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// CheckTierNode writes State.UserTier from the seed message.
func CheckTierNode(c TierClassifier) graph.NodeFunc[*State] {
	return func(_ context.Context, s *State) error {
		first, ok := s.First()
		if !ok {
			return ErrEmptyConversation
		}
		s.UserTier = c.ClassifyTier(first.Text())
		return nil
	}
}

// ClassifyIssueNode writes State.IssueType from the seed message.
func ClassifyIssueNode(c IssueClassifier) graph.NodeFunc[*State] {
	return func(_ context.Context, s *State) error {
		first, ok := s.First()
		if !ok {
			return ErrEmptyConversation
		}
		s.IssueType = c.ClassifyIssue(first.Text())
		return nil
	}
}

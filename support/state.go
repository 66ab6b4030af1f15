package support

import (
	"time"

	"github.com/hupe1980/supportmesh/core"
)

// Tier is the customer tier resolved by the tier classifier.
type Tier string

// Tier values.
const (
	TierUnset    Tier = ""
	TierStandard Tier = "standard"
	TierVIP      Tier = "vip"
)

// IssueType is the issue category resolved by the issue classifier.
type IssueType string

// IssueType values.
const (
	IssueUnset   IssueType = ""
	IssueGeneral IssueType = "general"
	IssueBilling IssueType = "billing"
)

// State is the conversation threaded through one workflow run. The message
// history is append-only; the scalar fields are written by the classifier and
// agent nodes. A State belongs to a single run and is not safe for concurrent
// use.
type State struct {
	messages []core.Message

	IssueType IssueType
	UserTier  Tier
	// ShouldEscalate is set by the vip agent. No router reads it.
	ShouldEscalate bool
}

// NewState creates a state seeded with one user message.
func NewState(seed string) *State {
	s := &State{}
	s.Append(core.NewUserMessage(seed))
	return s
}

// Append adds messages in order, filling in a missing id or timestamp.
func (s *State) Append(msgs ...core.Message) {
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = core.NewID()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = time.Now().UTC()
		}
		s.messages = append(s.messages, m)
	}
}

// Messages returns a copy of the history.
func (s *State) Messages() []core.Message {
	out := make([]core.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// First returns the seed message.
func (s *State) First() (core.Message, bool) {
	if len(s.messages) == 0 {
		return core.Message{}, false
	}
	return s.messages[0], true
}

// Last returns the most recent message.
func (s *State) Last() (core.Message, bool) {
	if len(s.messages) == 0 {
		return core.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Len returns the number of messages.
func (s *State) Len() int { return len(s.messages) }

// Classified reports whether both tier and issue have been resolved.
func (s *State) Classified() bool {
	return s.UserTier != TierUnset && s.IssueType != IssueUnset
}

package automation

import (
	"context"
	"sort"
)

// RuleStore loads enabled rules for one church and trigger type
type RuleStore interface {
	FindEnabled(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error)
}

type RuleSelector struct {
	store RuleStore
}

func NewRuleSelector(repo AutomationRepository, cache *RuleCache) *RuleSelector {
	var store RuleStore = repo
	if cache.Enabled() {
		store = &cachedRuleStore{store: repo, cache: cache}
	}
	return &RuleSelector{store: store}
}

// Select returns enabled rules ordered by priority desc, then oldest first.
// No matching rules is an empty slice, not an error.
func (s *RuleSelector) Select(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error) {
	rules, err := s.store.FindEnabled(ctx, churchID, triggerType)
	if err != nil {
		return nil, &RuleSelectionError{Err: err}
	}

	selected := make([]AutomationRule, 0, len(rules))
	for _, rule := range rules {
		// stores may over-fetch; the filter is re-applied here
		if rule.Enabled && rule.ChurchID == churchID && rule.TriggerType == triggerType {
			selected = append(selected, rule)
		}
	}

	sortRules(selected)
	return selected, nil
}

func sortRules(rules []AutomationRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
}

package automation

import (
	"khesed-tek/pkg/utils"
)

// ValidateRule checks struct tags and the per-kind operator rules
func ValidateRule(rule *AutomationRule) error {
	if err := utils.ValidateStruct(rule); err != nil {
		return invalidRule("%v", err)
	}
	if !rule.TriggerType.Valid() {
		return invalidRule("unknown trigger type %q", rule.TriggerType)
	}
	for i, cond := range rule.Conditions {
		if err := validateCondition(cond); err != nil {
			return invalidRule("condition %d: %v", i, err)
		}
	}
	for i, action := range rule.Actions {
		if !action.Type.Valid() {
			return invalidRule("action %d: unknown action type %q", i, action.Type)
		}
		if err := validateActionConfig(action); err != nil {
			return invalidRule("action %d: %v", i, err)
		}
	}
	return nil
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func validateCondition(cond Condition) error {
	kind := cond.Value.Kind()
	switch cond.Operator {
	case OperatorEquals, OperatorNotEquals:
		if kind == KindNone {
			return fieldError(string(cond.Operator) + " needs a value")
		}
	case OperatorContains:
		if kind == KindNone {
			return fieldError("contains needs a value")
		}
	case OperatorGreaterThan, OperatorLessThan:
		if kind != KindNumber {
			return fieldError(string(cond.Operator) + " needs a number value")
		}
	case OperatorIsSet, OperatorIsNotSet:
	default:
		return fieldError("unknown operator " + string(cond.Operator))
	}
	return nil
}

var requiredConfig = map[ActionType][]string{
	ActionSendEmail:          {"to", "subject"},
	ActionSendSMS:            {"to", "message"},
	ActionSendWhatsApp:       {"to", "message"},
	ActionCreateTask:         {"title"},
	ActionTagRecord:          {"tag"},
	ActionCreateNotification: {"title"},
}

func validateActionConfig(action Action) error {
	for _, key := range requiredConfig[action.Type] {
		v, ok := action.Config[key]
		if !ok || v == nil {
			return fieldError("config." + key + " is required")
		}
		if s, isString := v.(string); isString && s == "" {
			return fieldError("config." + key + " is required")
		}
	}
	return nil
}

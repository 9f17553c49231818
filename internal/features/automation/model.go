package automation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TriggerType string

const (
	TriggerVisitorFirstTime       TriggerType = "VISITOR_FIRST_TIME"
	TriggerVisitorCheckedIn       TriggerType = "VISITOR_CHECKED_IN"
	TriggerVisitorReturning       TriggerType = "VISITOR_RETURNING"
	TriggerPrayerRequestSubmitted TriggerType = "PRAYER_REQUEST_SUBMITTED"
	TriggerPrayerRequestUrgent    TriggerType = "PRAYER_REQUEST_URGENT"
	TriggerMemberCreated          TriggerType = "MEMBER_CREATED"
	TriggerDonationReceived       TriggerType = "DONATION_RECEIVED"
	TriggerEventRegistration      TriggerType = "EVENT_REGISTRATION"
	TriggerVolunteerAssigned      TriggerType = "VOLUNTEER_ASSIGNED"
)

var triggerTypes = map[TriggerType]bool{
	TriggerVisitorFirstTime:       true,
	TriggerVisitorCheckedIn:       true,
	TriggerVisitorReturning:       true,
	TriggerPrayerRequestSubmitted: true,
	TriggerPrayerRequestUrgent:    true,
	TriggerMemberCreated:          true,
	TriggerDonationReceived:       true,
	TriggerEventRegistration:      true,
	TriggerVolunteerAssigned:      true,
}

func (t TriggerType) Valid() bool {
	return triggerTypes[t]
}

type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorIsSet       Operator = "is_set"
	OperatorIsNotSet    Operator = "is_not_set"
)

type ActionType string

const (
	ActionSendEmail          ActionType = "SEND_EMAIL"
	ActionSendSMS            ActionType = "SEND_SMS"
	ActionSendWhatsApp       ActionType = "SEND_WHATSAPP"
	ActionCreateTask         ActionType = "CREATE_TASK"
	ActionTagRecord          ActionType = "TAG_RECORD"
	ActionCreateNotification ActionType = "CREATE_NOTIFICATION"
)

var actionTypes = map[ActionType]bool{
	ActionSendEmail:          true,
	ActionSendSMS:            true,
	ActionSendWhatsApp:       true,
	ActionCreateTask:         true,
	ActionTagRecord:          true,
	ActionCreateNotification: true,
}

func (a ActionType) Valid() bool {
	return actionTypes[a]
}

type Condition struct {
	Field    string   `json:"field" bson:"field" validate:"required"`
	Operator Operator `json:"operator" bson:"operator" validate:"required"`
	Value    Value    `json:"value" bson:"value"`
}

type Action struct {
	Type   ActionType             `json:"type" bson:"type" validate:"required"`
	Config map[string]interface{} `json:"config" bson:"config"`
}

type AutomationRule struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChurchID    string             `json:"church_id" bson:"church_id"`
	Name        string             `json:"name" bson:"name" validate:"required,max=120"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	TriggerType TriggerType        `json:"trigger_type" bson:"trigger_type" validate:"required"`
	Priority    int                `json:"priority" bson:"priority"`
	Enabled     bool               `json:"enabled" bson:"enabled"`
	Conditions  []Condition        `json:"conditions" bson:"conditions" validate:"dive"`
	Actions     []Action           `json:"actions" bson:"actions" validate:"min=1,dive"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// SourceRef points at the record whose creation raised the event
type SourceRef struct {
	Type string `json:"source_type" bson:"source_type"`
	ID   string `json:"source_id" bson:"source_id"`
}

func (s SourceRef) IsZero() bool {
	return s.Type == "" || s.ID == ""
}

type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionPartial ExecutionStatus = "PARTIAL"
	ExecutionFailed  ExecutionStatus = "FAILED"
)

type ActionOutcome struct {
	ActionType ActionType `json:"action_type" bson:"action_type"`
	Success    bool       `json:"success" bson:"success"`
	Error      string     `json:"error,omitempty" bson:"error,omitempty"`
	ExecutedAt time.Time  `json:"executed_at" bson:"executed_at"`
}

// AutomationExecution is append-only; rule name and trigger are copied so the
// row stays readable after the rule is deleted.
type AutomationExecution struct {
	ID          primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ChurchID    string                 `json:"church_id" bson:"church_id"`
	RuleID      primitive.ObjectID     `json:"rule_id" bson:"rule_id"`
	RuleName    string                 `json:"rule_name" bson:"rule_name"`
	TriggerType TriggerType            `json:"trigger_type" bson:"trigger_type"`
	SourceType  string                 `json:"source_type,omitempty" bson:"source_type,omitempty"`
	SourceID    string                 `json:"source_id,omitempty" bson:"source_id,omitempty"`
	EventData   map[string]interface{} `json:"event_data,omitempty" bson:"event_data,omitempty"`
	Outcomes    []ActionOutcome        `json:"outcomes" bson:"outcomes"`
	Status      ExecutionStatus        `json:"status" bson:"status"`
	CreatedAt   time.Time              `json:"created_at" bson:"created_at"`
}

type TriggerRequest struct {
	Type       TriggerType            `json:"type" validate:"required"`
	ChurchID   string                 `json:"church_id"`
	Data       map[string]interface{} `json:"data"`
	SourceType string                 `json:"source_type,omitempty"`
	SourceID   string                 `json:"source_id,omitempty"`
}

func (r TriggerRequest) Source() SourceRef {
	return SourceRef{Type: r.SourceType, ID: r.SourceID}
}

type RuleResult struct {
	RuleID      string          `json:"rule_id"`
	RuleName    string          `json:"rule_name"`
	ExecutionID string          `json:"execution_id,omitempty"`
	Status      ExecutionStatus `json:"status"`
	Outcomes    []ActionOutcome `json:"outcomes"`
}

type TriggerSummary struct {
	RulesEvaluated   int          `json:"rules_evaluated"`
	RulesTriggered   int          `json:"rules_triggered"`
	ExecutionIDs     []string     `json:"execution_ids"`
	AlreadyTriggered bool         `json:"already_triggered,omitempty"`
	Results          []RuleResult `json:"results,omitempty"`
}

type RuleFilter struct {
	TriggerType TriggerType
	Enabled     *bool
}

type ExecutionFilter struct {
	RuleID     string
	SourceType string
	SourceID   string
	Limit      int64
}

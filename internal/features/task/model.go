package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Task is a follow-up item, usually created by an automation
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID    string             `bson:"church_id" json:"church_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	AssignedTo  string             `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Status      Status             `bson:"status" json:"status"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	SourceType  string             `bson:"source_type,omitempty" json:"source_type,omitempty"`
	SourceID    string             `bson:"source_id,omitempty" json:"source_id,omitempty"`
	RuleID      string             `bson:"rule_id,omitempty" json:"rule_id,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityHigh:
		return Priority(s)
	}
	return PriorityMedium
}

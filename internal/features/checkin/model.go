package checkin

import (
	"time"

	"khesed-tek/internal/features/source"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckIn struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID    string             `bson:"church_id" json:"church_id"`
	FirstName   string             `bson:"first_name" json:"first_name" validate:"required,max=80"`
	LastName    string             `bson:"last_name" json:"last_name" validate:"max=80"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=32"`
	IsFirstTime bool               `bson:"is_first_time" json:"is_first_time"`
	ServiceName string             `bson:"service_name,omitempty" json:"service_name,omitempty"`
	HowHeard    string             `bson:"how_heard,omitempty" json:"how_heard,omitempty"`
	CheckedInAt time.Time          `bson:"checked_in_at" json:"checked_in_at"`

	source.Flags `bson:",inline"`
}

// EventData is the payload handed to automation rules for this check-in
func (ci *CheckIn) EventData() map[string]interface{} {
	return map[string]interface{}{
		"checkInId":    ci.ID.Hex(),
		"visitorName":  fullName(ci.FirstName, ci.LastName),
		"firstName":    ci.FirstName,
		"lastName":     ci.LastName,
		"visitorEmail": ci.Email,
		"visitorPhone": ci.Phone,
		"isFirstTime":  ci.IsFirstTime,
		"serviceName":  ci.ServiceName,
		"howHeard":     ci.HowHeard,
		"checkedInAt":  ci.CheckedInAt,
	}
}

func fullName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}

package prayer

import (
	"time"

	"khesed-tek/internal/features/source"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusPraying  Status = "PRAYING"
	StatusAnswered Status = "ANSWERED"
)

type PrayerRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChurchID       string             `bson:"church_id" json:"church_id"`
	RequesterName  string             `bson:"requester_name" json:"requester_name" validate:"required_unless=IsAnonymous true,max=120"`
	RequesterEmail string             `bson:"requester_email,omitempty" json:"requester_email,omitempty" validate:"omitempty,email"`
	RequesterPhone string             `bson:"requester_phone,omitempty" json:"requester_phone,omitempty"`
	Request        string             `bson:"request" json:"request" validate:"required,max=4000"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	IsUrgent       bool               `bson:"is_urgent" json:"is_urgent"`
	IsAnonymous    bool               `bson:"is_anonymous" json:"is_anonymous"`
	Status         Status             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`

	source.Flags `bson:",inline"`
}

// EventData is the automation payload. Anonymous requests hide the requester's name.
func (p *PrayerRequest) EventData() map[string]interface{} {
	name := p.RequesterName
	if p.IsAnonymous {
		name = "Anonymous"
	}
	return map[string]interface{}{
		"prayerRequestId": p.ID.Hex(),
		"requesterName":   name,
		"requesterEmail":  p.RequesterEmail,
		"requesterPhone":  p.RequesterPhone,
		"request":         p.Request,
		"category":        p.Category,
		"isUrgent":        p.IsUrgent,
		"isAnonymous":     p.IsAnonymous,
		"submittedAt":     p.CreatedAt,
	}
}

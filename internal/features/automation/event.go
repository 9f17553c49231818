package automation

import "time"

// Event is built per trigger call and never persisted
type Event struct {
	Type      TriggerType            `json:"type"`
	TenantID  string                 `json:"tenantId"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

var eventRoots = map[string]bool{"type": true, "tenantId": true, "timestamp": true, "data": true}

// NewEvent normalizes caller data into an Event. Only type and tenant are required.
func NewEvent(triggerType TriggerType, tenantID string, data map[string]interface{}) (Event, error) {
	if triggerType == "" {
		return Event{}, &InvalidEventError{Field: "type"}
	}
	if tenantID == "" {
		return Event{}, &InvalidEventError{Field: "tenantId"}
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return Event{
		Type:      triggerType,
		TenantID:  tenantID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// Record is the map view templates and conditions are resolved against
func (e Event) Record() map[string]interface{} {
	return map[string]interface{}{
		"type":      string(e.Type),
		"tenantId":  e.TenantID,
		"timestamp": e.Timestamp,
		"data":      e.Data,
	}
}

// Lookup resolves a dot path. Paths rooted at type, tenantId, timestamp or data
// address the event record; anything else is read from data.
func (e Event) Lookup(path string) (interface{}, bool) {
	root := firstSegment(path)
	if eventRoots[root] {
		return resolvePath(e.Record(), path)
	}
	return resolvePath(e.Data, path)
}

package prayer

import (
	"context"
	"errors"
	"fmt"

	"khesed-tek/internal/features/automation"
	"khesed-tek/internal/features/source"
	"khesed-tek/pkg/utils"
)

var ErrInvalidPrayerRequest = errors.New("invalid prayer request")

type AutomationDispatcher interface {
	Dispatch(ctx context.Context, req automation.TriggerRequest) <-chan automation.TriggerResult
}

type PrayerService struct {
	Repo       PrayerRepository
	Dispatcher AutomationDispatcher
}

func NewPrayerService(repo PrayerRepository, dispatcher AutomationDispatcher) *PrayerService {
	return &PrayerService{
		Repo:       repo,
		Dispatcher: dispatcher,
	}
}

// TriggerFor picks the single trigger a prayer request fires. Urgent requests
// run PRAYER_REQUEST_URGENT rules only, never PRAYER_REQUEST_SUBMITTED ones.
func TriggerFor(req *PrayerRequest) automation.TriggerType {
	if req.IsUrgent {
		return automation.TriggerPrayerRequestUrgent
	}
	return automation.TriggerPrayerRequestSubmitted
}

// Submit stores the request and hands it to automations; the automation
// outcome never affects the returned error.
func (s *PrayerService) Submit(ctx context.Context, churchID string, req *PrayerRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrayerRequest, err)
	}
	req.ChurchID = churchID
	req.Status = ""
	req.Flags = source.Flags{}

	if err := s.Repo.Create(ctx, req); err != nil {
		return err
	}

	s.Dispatcher.Dispatch(ctx, automation.TriggerRequest{
		Type:       TriggerFor(req),
		ChurchID:   churchID,
		Data:       req.EventData(),
		SourceType: source.TypePrayerRequest,
		SourceID:   req.ID.Hex(),
	})
	return nil
}

func (s *PrayerService) List(ctx context.Context, churchID string, status Status, urgentOnly bool) ([]PrayerRequest, error) {
	return s.Repo.List(ctx, churchID, status, urgentOnly)
}

package checkin

import (
	"context"
	"errors"
	"fmt"

	"khesed-tek/internal/features/automation"
	"khesed-tek/internal/features/source"
	"khesed-tek/pkg/utils"
)

var ErrInvalidCheckIn = errors.New("invalid check-in")

// AutomationDispatcher starts automations without blocking the caller
type AutomationDispatcher interface {
	Dispatch(ctx context.Context, req automation.TriggerRequest) <-chan automation.TriggerResult
}

type CheckInService interface {
	CheckIn(ctx context.Context, churchID string, checkIn *CheckIn) error
	List(ctx context.Context, churchID string, firstTimeOnly bool, limit int64) ([]CheckIn, error)
}

type CheckInServiceImpl struct {
	Repo       CheckInRepository
	Dispatcher AutomationDispatcher
}

func NewCheckInService(repo CheckInRepository, dispatcher AutomationDispatcher) CheckInService {
	return &CheckInServiceImpl{
		Repo:       repo,
		Dispatcher: dispatcher,
	}
}

// TriggerFor picks the single trigger a check-in fires. The automation flag is
// kept per check-in, so a first-time visitor fires VISITOR_FIRST_TIME rules
// only; rules that should also greet first-time visitors must be created for
// that trigger too.
func TriggerFor(checkIn *CheckIn) automation.TriggerType {
	if checkIn.IsFirstTime {
		return automation.TriggerVisitorFirstTime
	}
	return automation.TriggerVisitorCheckedIn
}

func (s *CheckInServiceImpl) CheckIn(ctx context.Context, churchID string, checkIn *CheckIn) error {
	if err := utils.ValidateStruct(checkIn); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCheckIn, err)
	}
	checkIn.ChurchID = churchID
	checkIn.Flags = source.Flags{}

	if err := s.Repo.Create(ctx, checkIn); err != nil {
		return err
	}

	s.Dispatcher.Dispatch(ctx, automation.TriggerRequest{
		Type:       TriggerFor(checkIn),
		ChurchID:   churchID,
		Data:       checkIn.EventData(),
		SourceType: source.TypeCheckIn,
		SourceID:   checkIn.ID.Hex(),
	})
	return nil
}

func (s *CheckInServiceImpl) List(ctx context.Context, churchID string, firstTimeOnly bool, limit int64) ([]CheckIn, error) {
	return s.Repo.List(ctx, churchID, firstTimeOnly, limit)
}

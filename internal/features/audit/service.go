package audit

import (
	"context"
	"errors"
	"time"

	common_models "khesed-tek/internal/common/models"
	"khesed-tek/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditService interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, churchID string, filter LogFilter) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{Repo: repo}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	actorID := "system"
	churchID, _ := ctx.Value(common_models.TenantIDKey).(string)
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		actorID = claims.UserID
		if churchID == "" {
			churchID = claims.ChurchID
		}
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		ChurchID:  churchID,
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		Changes:   changes,
		Timestamp: time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

var ErrMissingChurch = errors.New("audit logs require a church scope")

// ListLogs returns the church's audit trail, newest first
func (s *AuditServiceImpl) ListLogs(ctx context.Context, churchID string, filter LogFilter) ([]common_models.AuditLog, error) {
	if churchID == "" {
		return nil, ErrMissingChurch
	}
	filter.normalize()
	return s.Repo.List(ctx, churchID, filter)
}

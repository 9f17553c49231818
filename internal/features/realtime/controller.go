package realtime

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const churchLocal = "church_id"

type RealtimeController struct {
	Registry *Registry
	Logger   *zap.Logger
}

func NewRealtimeController(registry *Registry, logger *zap.Logger) *RealtimeController {
	return &RealtimeController{
		Registry: registry,
		Logger:   logger,
	}
}

// HandleWebSocket keeps the connection registered until the client goes away.
// Inbound frames are read and discarded; the channel is server-push only.
func (h *RealtimeController) HandleWebSocket(c *websocket.Conn) {
	churchID, _ := c.Locals(churchLocal).(string)
	if churchID == "" {
		_ = c.Close()
		return
	}

	id := h.Registry.Register(churchID, c)
	defer h.Registry.Deregister(churchID, id)

	h.Logger.Debug("Realtime client connected",
		zap.String("tenant_id", churchID),
		zap.String("connection_id", id))

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.Logger.Debug("Realtime client disconnected",
				zap.String("tenant_id", churchID),
				zap.String("connection_id", id),
				zap.Error(err))
			return
		}
	}
}

// internal/services/notification_service.go
package services

import (
	"github.com/sirupsen/logrus"
)

// NotificationService consumes triggered-alert events. No real delivery
// channel exists yet; one structured log line per event stands in for it.
type NotificationService struct {
	log *logrus.Logger
}

func NewNotificationService(log *logrus.Logger) *NotificationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &NotificationService{log: log}
}

func (s *NotificationService) NotifyTriggeredAlerts(events []TriggeredAlert) {
	for _, event := range events {
		s.log.WithFields(logrus.Fields{
			"alert_id":     event.AlertID,
			"user_id":      event.UserID,
			"product_id":   event.ProductID,
			"target_price": event.TargetPrice.String(),
			"new_price":    event.NewPrice.String(),
		}).Info("Price alert triggered")
	}
}

package lib

import (
	"bookings/src/models"
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"
)

type Notifier interface {
	ReservationCreated(ctx context.Context, r *models.Reservation) error
}

// messageSender is the part of *messaging.Client the notifier uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier pushes a data message to the provider's topic.
type FCMNotifier struct {
	sender messageSender
}

func NewFCMNotifier(sender messageSender) *FCMNotifier {
	return &FCMNotifier{sender: sender}
}

func ProviderTopic(providerID string) string {
	return fmt.Sprintf("provider_%s", providerID)
}

func (n *FCMNotifier) ReservationCreated(ctx context.Context, r *models.Reservation) error {
	msg := &messaging.Message{
		Topic: ProviderTopic(r.ProviderID),
		Data: map[string]string{
			"type":          "reservation.created",
			"reservationId": r.ID,
			"serviceId":     r.ServiceID,
			"date":          r.Date,
			"startTime":     r.StartTime,
			"endTime":       r.EndTime,
		},
		Notification: &messaging.Notification{
			Title: "New reservation",
			Body:  fmt.Sprintf("%s %s-%s", r.Date, r.StartTime, r.EndTime),
		},
	}
	id, err := n.sender.Send(ctx, msg)
	if err != nil {
		return err
	}
	log.Printf("[FCM] sent %s to %s\n", id, msg.Topic)
	return nil
}

type NoopNotifier struct{}

func (NoopNotifier) ReservationCreated(context.Context, *models.Reservation) error {
	return nil
}

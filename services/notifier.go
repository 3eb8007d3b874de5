package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderpranjal09/cystas-devsoft-Ems/logging"
	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

// Notifier sends best-effort email notifications. Delivery runs behind a
// circuit breaker so a failing SMTP endpoint degrades to skipped emails
// instead of slow requests.
type Notifier struct {
	UserCollection *mongo.Collection
	EmailBreaker   *gobreaker.CircuitBreaker
}

func NewNotifier(userCollection *mongo.Collection) *Notifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &Notifier{UserCollection: userCollection, EmailBreaker: breaker}
}

func (n *Notifier) notify(ctx context.Context, userID primitive.ObjectID, subject, body string) {
	var user models.User
	if err := n.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_RECIPIENT_NOT_FOUND, Description: Skipping notification, no user with ID %s", userID.Hex())
		return
	}

	_, err := n.EmailBreaker.Execute(func() (interface{}, error) {
		return nil, utils.SendEmail(user.Email, subject, body)
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_EMAIL_FAILED, Description: Failed to send '%s' to %s: %v", subject, user.Email, err)
		return
	}
	logging.Logger.Infof("Event ID: NOTIFY_EMAIL_SENT, Description: Sent '%s' to %s", subject, user.Email)
}

// LeaveDecided tells the employee their leave request was approved or
// rejected. Errors are logged and swallowed.
func (n *Notifier) LeaveDecided(ctx context.Context, leave models.Leave) {
	subject := fmt.Sprintf("Leave request %s", leave.Status)
	body := fmt.Sprintf(
		"Your %s leave request from %s to %s has been %s.",
		leave.Type,
		leave.StartDate.Format("2006-01-02"),
		leave.EndDate.Format("2006-01-02"),
		leave.Status,
	)
	if leave.Status == models.LeaveRejected && leave.RejectionReason != "" {
		body += "\nReason: " + leave.RejectionReason
	}
	n.notify(ctx, leave.Employee, subject, body)
}

// TaskEvaluated tells the assignee their submission was rated.
func (n *Notifier) TaskEvaluated(ctx context.Context, task models.Task) {
	if task.Evaluation == nil {
		return
	}
	subject := fmt.Sprintf("Task evaluated: %s", task.Title)
	body := fmt.Sprintf(
		"Your submission for '%s' was evaluated with a rating of %.1f out of 5.",
		task.Title, task.Evaluation.Rating,
	)
	if task.Evaluation.Feedback != "" {
		body += "\nFeedback: " + task.Evaluation.Feedback
	}
	for _, assignee := range task.AssignedTo {
		n.notify(ctx, assignee, subject, body)
	}
}

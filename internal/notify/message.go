package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-task-keeper/models"
)

// Kind names the template a message was built from.
type Kind string

const (
	KindVerifyEmail    Kind = "verify-email"
	KindPasswordReset  Kind = "password-reset"
	KindTaskAssignment Kind = "task-assignment"
)

// Message is a rendered email. It is also the JSON body posted to the mail
// relay and published to the AMQP queue.
type Message struct {
	Kind    Kind   `json:"kind"`
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// composer renders messages. Links point at the frontend.
type composer struct {
	from        string
	frontendURL string
}

func newComposer(from, frontendURL string) composer {
	return composer{
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (c composer) link(path, token string) string {
	return c.frontendURL + path + "?token=" + url.QueryEscape(token)
}

func (c composer) verification(user models.User, token string) Message {
	return Message{
		Kind:    KindVerifyEmail,
		From:    c.from,
		To:      user.Email,
		Subject: "Verify your email",
		Text: fmt.Sprintf(
			"Hi %s,\n\nconfirm your email address by opening the link below:\n%s\n\nThe link expires in 24 hours.\n",
			user.Username, c.link("/verify-email", token),
		),
	}
}

func (c composer) passwordReset(user models.User, token string) Message {
	return Message{
		Kind:    KindPasswordReset,
		From:    c.from,
		To:      user.Email,
		Subject: "Reset your password",
		Text: fmt.Sprintf(
			"Hi %s,\n\nuse the link below to choose a new password:\n%s\n\nThe link expires in 1 hour. If you did not ask for a reset, ignore this email.\n",
			user.Username, c.link("/reset-password", token),
		),
	}
}

func (c composer) taskAssignment(user models.User, task models.Task, assigner models.User) Message {
	return Message{
		Kind:    KindTaskAssignment,
		From:    c.from,
		To:      user.Email,
		Subject: "New task assigned: " + task.Title,
		Text: fmt.Sprintf(
			"Hi %s,\n\n%s assigned you a task.\n\nTitle: %s\nPriority: %s\nStatus: %s\nDue: %s\n",
			user.Username, assigner.Username, task.Title, task.Priority, task.Status,
			task.DueDate.Format("2006-01-02"),
		),
	}
}

package service

import (
	"fmt"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

func contactNotificationTemplate(contact *model.Contact, inboxURL, appName string) (string, string) {
	subject := fmt.Sprintf("New message from %s on %s", contact.Name, appName)
	body := fmt.Sprintf(`You have a new contact message.

From: %s <%s>
Received: %s

%s

Open the inbox to mark it as read: %s

The %s Team`,
		contact.Name,
		contact.Email,
		contact.CreatedAt.Format("02 Jan 2006 15:04 MST"),
		contact.Message,
		inboxURL,
		appName,
	)

	return subject, body
}

package notifications

import (
	"bytes"
	"fmt"
	"html/template"
)

// Brand accent used across all outgoing mail.
const accentColor = "#F84565"

const bookingConfirmedTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
	<h2>Hi {{.Name}},</h2>
	<p>Your booking for <strong style="color: {{.Accent}};">{{.MovieTitle}}</strong> is confirmed.</p>
	<p>
		<strong>Date:</strong> {{.ShowDate}}<br/>
		<strong>Time:</strong> {{.ShowTime}}<br/>
		<strong>Seats:</strong> {{.Seats}}
	</p>
	<p>Enjoy the show! 🍿</p>
	<p>Thanks for booking with us!<br/>- CineShow Team</p>
</div>`

const showAddedTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto;">
	<h2>Hi {{.Name}},</h2>
	<p>We just added a new show to our library:</p>
	<h3 style="color: {{.Accent}};">"{{.MovieTitle}}"</h3>
	<p>Visit our website to book your seats.</p>
	<br/>
	<p>Thanks,<br/>CineShow Team</p>
</div>`

const showReminderTemplate = `
<div style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>Hello {{.Name}},</h2>
	<p>This is a quick reminder that your movie:</p>
	<h3 style="color: {{.Accent}};">"{{.MovieTitle}}"</h3>
	<p>
		is scheduled for <strong>{{.ShowDate}}</strong> at
		<strong>{{.ShowTime}}</strong>.
	</p>
	<p>It starts in approximately <strong>8 hours</strong> - make sure you're ready!</p>
	<br/>
	<p>Enjoy the show!<br/>CineShow Team</p>
</div>`

type templateSet struct {
	templates map[MessageType]*template.Template
}

func newTemplateSet() *templateSet {
	return &templateSet{
		templates: map[MessageType]*template.Template{
			MessageTypeBookingConfirmed: template.Must(template.New(string(MessageTypeBookingConfirmed)).Parse(bookingConfirmedTemplate)),
			MessageTypeShowAdded:        template.Must(template.New(string(MessageTypeShowAdded)).Parse(showAddedTemplate)),
			MessageTypeShowReminder:     template.Must(template.New(string(MessageTypeShowReminder)).Parse(showReminderTemplate)),
		},
	}
}

// Render builds the HTML body for one recipient. Message data is merged with
// the recipient's name and the brand accent.
func (ts *templateSet) Render(msgType MessageType, recipient Recipient, data map[string]interface{}) (string, error) {
	tmpl, ok := ts.templates[msgType]
	if !ok {
		return "", fmt.Errorf("no template for message type %s", msgType)
	}

	merged := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		merged[k] = v
	}
	merged["Name"] = recipient.Name
	merged["Accent"] = accentColor

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, merged); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", msgType, err)
	}
	return buf.String(), nil
}

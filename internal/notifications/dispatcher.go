package notifications

import (
	"context"
	"sync"

	"cineshow/pkg/logger"
)

// Report is the aggregate outcome of one fan-out.
type Report struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher renders a message per recipient and sends every email in
// parallel. Delivery is best effort: one bad address never blocks the rest,
// and the caller only ever sees counts.
type Dispatcher struct {
	sender    Sender
	templates *templateSet
	logger    *logger.Logger
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		templates: newTemplateSet(),
		logger:    logger.GetDefault(),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) Report {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report Report
	)

	for _, recipient := range msg.Recipients {
		wg.Add(1)
		go func(r Recipient) {
			defer wg.Done()

			err := d.sendOne(ctx, msg, r)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				d.logger.WarnContext(ctx, "Failed to send notification email",
					"type", string(msg.Type), "to", r.Email, "error", err)
				return
			}
			report.Sent++
		}(recipient)
	}
	wg.Wait()

	return report
}

func (d *Dispatcher) sendOne(ctx context.Context, msg *Message, r Recipient) error {
	body, err := d.templates.Render(msg.Type, r, msg.Data)
	if err != nil {
		return err
	}
	return d.sender.Send(ctx, r.Email, msg.Subject, body)
}

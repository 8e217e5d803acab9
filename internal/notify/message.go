// AngelaMos | 2026
// message.go

package notify

import (
	"context"
	"fmt"
)

const (
	newsPreviewRunes = 100
	startTimeLayout  = "02/01 15:04"
)

// Message is one push notification addressed to one device token.
type Message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
	Sound string            `json:"sound"`
}

type CategoryNamer interface {
	NameForSlug(ctx context.Context, slug string) string
}

// BuildMessage renders the Swedish push text for a job. The To field is
// left empty for the caller to fill per recipient.
func BuildMessage(ctx context.Context, job Job, namer CategoryNamer) Message {
	msg := Message{Sound: "default"}

	switch job.Kind {
	case KindNewEvent:
		name := job.Category
		if namer != nil {
			name = namer.NameForSlug(ctx, job.Category)
		}
		msg.Title = "Nytt event: " + job.Title
		msg.Body = fmt.Sprintf("%s - %s", name, job.StartTime.UTC().Format(startTimeLayout))
		msg.Data = map[string]string{"event_id": job.EventID, "type": KindNewEvent}
	case KindEventUpdate:
		msg.Title = "Event uppdaterat: " + job.Title
		msg.Body = "Tid eller plats har ändrats - kolla detaljerna!"
		msg.Data = map[string]string{"event_id": job.EventID, "type": KindEventUpdate}
	case KindNews:
		msg.Title = "BORKA Nyhet: " + job.Title
		msg.Body = preview(job.Body, newsPreviewRunes)
		msg.Data = map[string]string{"news_id": job.NewsID, "type": KindNews}
	}

	return msg
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

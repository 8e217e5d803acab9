// AngelaMos | 2026
// ics.go

package calendar

import (
	"io"
	"strings"
	"time"

	"github.com/borka-sandviken/borka-api/internal/config"
)

const (
	DefaultProductID = "-//BORKA//Brädspel och Rollspel//SV"
	DefaultName      = "BORKA Kalender"
	DefaultTimezone  = "Europe/Stockholm"
	DefaultUIDDomain = "borka-sandviken.se"
	DefaultLocation  = "Odengatan 31, Sandviken"

	stampLayout = "20060102T150405Z"
	crlf        = "\r\n"
)

type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

type Exporter struct {
	productID       string
	name            string
	timezone        string
	uidDomain       string
	defaultLocation string
}

// NewExporter builds an exporter from config, using the package defaults
// for empty values.
func NewExporter(cfg config.CalendarConfig) *Exporter {
	return &Exporter{
		productID:       orDefault(cfg.ProductID, DefaultProductID),
		name:            orDefault(cfg.Name, DefaultName),
		timezone:        orDefault(cfg.Timezone, DefaultTimezone),
		uidDomain:       orDefault(cfg.UIDDomain, DefaultUIDDomain),
		defaultLocation: orDefault(cfg.DefaultLocation, DefaultLocation),
	}
}

// Render produces an iCalendar document with the default settings.
func Render(events []Event, now time.Time) string {
	return NewExporter(config.CalendarConfig{}).Render(events, now)
}

// Render emits one VCALENDAR with a VEVENT per event, in order. Every line
// ends in CRLF. Text values are written as-is; commas, semicolons and
// backslashes are not escaped.
func (e *Exporter) Render(events []Event, now time.Time) string {
	var b strings.Builder

	line := func(s string) {
		b.WriteString(s)
		b.WriteString(crlf)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + e.productID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:" + e.name)
	line("X-WR-TIMEZONE:" + e.timezone)

	stamp := formatStamp(now)

	for _, ev := range events {
		location := ev.Location
		if location == "" {
			location = e.defaultLocation
		}

		line("BEGIN:VEVENT")
		line("UID:" + ev.ID + "@" + e.uidDomain)
		line("DTSTART:" + formatStamp(ev.Start))
		line("DTEND:" + formatStamp(ev.End))
		line("SUMMARY:" + singleLine(ev.Title))
		line("DESCRIPTION:" + singleLine(ev.Description))
		line("LOCATION:" + singleLine(location))
		line("DTSTAMP:" + stamp)
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	return b.String()
}

func (e *Exporter) Write(w io.Writer, events []Event, now time.Time) error {
	_, err := io.WriteString(w, e.Render(events, now))
	return err
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func singleLine(s string) string {
	return newlineReplacer.Replace(s)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

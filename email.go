package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"

	"arbeitsrapport/models"
	"arbeitsrapport/pkg/rapport"
)

// smtpSettingsFor resolves the mail account to send with: the user's stored
// settings, or the server-wide env fallback when none are configured.
func smtpSettingsFor(user *models.User) (*models.SMTPSetting, error) {
	var s models.SMTPSetting
	if err := db.Where("user_id = ?", user.ID).First(&s).Error; err == nil {
		return &s, nil
	}
	if cfg.SMTPHost != "" {
		return &models.SMTPSetting{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPassword,
			UseTLS:    true,
			FromEmail: cfg.SMTPFrom,
		}, nil
	}
	return nil, fmt.Errorf("smtp is not configured; set it up under /settings/smtp")
}

func sendMail(s *models.SMTPSetting, to, subject, htmlBody, attachment, filename string) error {
	m := mail.NewMsg()
	if err := m.From(s.FromEmail); err != nil {
		return fmt.Errorf("invalid from address %q: %w", s.FromEmail, err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)
	if err := m.AttachReader(filename, strings.NewReader(attachment)); err != nil {
		return fmt.Errorf("attach %s: %w", filename, err)
	}

	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	}
	if s.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(m)
}

// buildReportEmail renders the HTML body: a small entry table with the hour
// total, plus the note that the full report is attached as CSV.
func buildReportEmail(name, period string, entries []rapport.Entry) string {
	totals := rapport.Aggregate(entries)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Arbeitsrapport für %s</h2>\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<p><strong>Zeitraum:</strong> %s</p>\n", html.EscapeString(period))
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">\n")
	b.WriteString("<tr><th>Datum</th><th>Objekt</th><th>Ort</th><th>Stunden</th></tr>\n")
	for _, e := range entries {
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.Format("02.01.2006")
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td align=\"right\">%.2f</td></tr>\n",
			html.EscapeString(date), html.EscapeString(e.Object), html.EscapeString(e.Location), e.Hours)
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"3\"><strong>Gesamtstunden</strong></td><td align=\"right\"><strong>%.2f</strong></td></tr>\n", totals.Hours)
	b.WriteString("</table>\n")
	b.WriteString("<p>Im Anhang finden Sie den Arbeitsrapport als CSV-Datei.</p>\n")
	return b.String()
}

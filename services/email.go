package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"

	"officeflow_app_go/config"
	"officeflow_app_go/models"
)

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []EmailAttachment
}

// EmailAttachment is a file attached to an outgoing email
type EmailAttachment struct {
	Filename string
	Content  []byte
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
	}

	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	for _, attachment := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename: attachment.Filename,
			Content:  attachment.Content,
		})
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Development Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	for _, attachment := range email.Attachments {
		log.Printf("Attachment: %s (%d bytes)", attachment.Filename, len(attachment.Content))
	}
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email asynchronously using a goroutine
// This is the recommended method for sending emails in handlers to avoid blocking HTTP responses
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Create a copy of the email to avoid race conditions
	emailCopy := &Email{
		To:          append([]string{}, email.To...),
		Subject:     email.Subject,
		HTMLBody:    email.HTMLBody,
		TextBody:    email.TextBody,
		Attachments: append([]EmailAttachment{}, email.Attachments...),
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

var invoiceEmailTemplate = template.Must(template.New("invoice_email").Parse(`<p>Geachte {{.ClientName}},</p>
<p>Hierbij ontvangt u factuur <strong>{{.Number}}</strong> van {{.CompanyName}}.</p>
<p>Het totaalbedrag is <strong>{{.Total}}</strong>, te voldoen voor {{.DueDate}}.</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
<p>Met vriendelijke groet,<br>{{.CompanyName}}</p>`))

var quoteEmailTemplate = template.Must(template.New("quote_email").Parse(`<p>Geachte {{.ClientName}},</p>
<p>Hierbij ontvangt u offerte <strong>{{.Number}}</strong> van {{.CompanyName}}.</p>
<p>Het totaalbedrag is <strong>{{.Total}}</strong>. De offerte is geldig tot {{.DueDate}}.</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
<p>Met vriendelijke groet,<br>{{.CompanyName}}</p>`))

type documentEmailData struct {
	ClientName  string
	CompanyName string
	Number      string
	Total       string
	DueDate     string
	Notes       string
}

// BuildInvoiceEmail creates the outgoing email for a sent invoice, with
// the generated PDF attached.
func BuildInvoiceEmail(invoice *models.Invoice, org *models.Organization, pdf []byte) (*Email, error) {
	totals := CalculateTotals(InvoiceLineInputs(invoice.LineItems), invoice.VATDisplay)
	data := documentEmailData{
		ClientName:  invoice.ClientName,
		CompanyName: org.Name,
		Number:      invoice.InvoiceNumber,
		Total:       FormatEUR(totals.Total),
		DueDate:     invoice.DueDate.Format("02-01-2006"),
		Notes:       invoice.Notes,
	}

	var body strings.Builder
	if err := invoiceEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to build invoice email: %w", err)
	}

	return &Email{
		To:       []string{invoice.ClientEmail},
		Subject:  fmt.Sprintf("Factuur %s van %s", invoice.InvoiceNumber, org.Name),
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Geachte %s,\n\nHierbij ontvangt u factuur %s van %s. Het totaalbedrag is %s, te voldoen voor %s.\n\nMet vriendelijke groet,\n%s",
			invoice.ClientName, invoice.InvoiceNumber, org.Name, data.Total, data.DueDate, org.Name),
		Attachments: []EmailAttachment{
			{Filename: fmt.Sprintf("%s.pdf", invoice.InvoiceNumber), Content: pdf},
		},
	}, nil
}

// BuildQuoteEmail creates the outgoing email for a sent quote.
func BuildQuoteEmail(quote *models.Quote, org *models.Organization, pdf []byte) (*Email, error) {
	totals := CalculateTotals(QuoteLineInputs(quote.LineItems), quote.VATDisplay)
	data := documentEmailData{
		ClientName:  quote.ClientName,
		CompanyName: org.Name,
		Number:      quote.QuoteNumber,
		Total:       FormatEUR(totals.Total),
		DueDate:     quote.ValidUntil.Format("02-01-2006"),
		Notes:       quote.Notes,
	}

	var body strings.Builder
	if err := quoteEmailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to build quote email: %w", err)
	}

	return &Email{
		To:       []string{quote.ClientEmail},
		Subject:  fmt.Sprintf("Offerte %s van %s", quote.QuoteNumber, org.Name),
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Geachte %s,\n\nHierbij ontvangt u offerte %s van %s. Het totaalbedrag is %s. De offerte is geldig tot %s.\n\nMet vriendelijke groet,\n%s",
			quote.ClientName, quote.QuoteNumber, org.Name, data.Total, data.DueDate, org.Name),
		Attachments: []EmailAttachment{
			{Filename: fmt.Sprintf("%s.pdf", quote.QuoteNumber), Content: pdf},
		},
	}, nil
}

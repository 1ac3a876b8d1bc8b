package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. All sends are best-effort from the
// caller's point of view: callers log failures and move on.
type Mailer struct {
	dialer      *gomail.Dialer
	senderEmail string
	enabled     bool
}

func New(host string, port int, username, password, senderEmail string) *Mailer {
	return &Mailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		enabled:     host != "" && senderEmail != "",
	}
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if !m.enabled {
		return fmt.Errorf("mailer not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.senderEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) SendReceipt(toEmail, transactionID string, amount float64) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment received</h2>
			<p>Thanks for your payment of <b>$%.2f</b>.</p>
			<p>Transaction reference: %s</p>
			<p>Enjoy your streaming!</p>
		</div>
	`, amount, transactionID)
	return m.send(toEmail, "Your payment receipt", body)
}

func (m *Mailer) SendRenewalReminder(toEmail, firstName string, daysRemaining int) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>Your subscription expires in <b>%d day(s)</b>.</p>
			<p>Renew now to keep watching without interruption.</p>
		</div>
	`, firstName, daysRemaining)
	return m.send(toEmail, "Your subscription is expiring soon", body)
}

func (m *Mailer) SendVerificationEmail(toEmail, link string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome!</h2>
			<p>Click the link below to verify your account:</p>
			<p><a href="%s">%s</a></p>
			<p>If you didn't sign up, please ignore this email.</p>
		</div>
	`, link, link)
	return m.send(toEmail, "Verify your account", body)
}

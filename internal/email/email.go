// Package email delivers the out-of-band notifications of the auth flows:
// two-factor login codes and password-reset links.
package email

// Sender delivers a single message. Implementations: SMTPSender (production)
// and test fakes.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Dispatcher renders the auth templates and hands them to a Sender.
type Dispatcher struct {
	sender  Sender
	baseURL string // public base URL for links in reset emails
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, baseURL string) *Dispatcher {
	return &Dispatcher{sender: sender, baseURL: baseURL}
}

// SendTwoFactorCode mails a login verification code.
func (d *Dispatcher) SendTwoFactorCode(to, code string) error {
	subject, html, text := renderTwoFactorCode(code)
	return d.sender.Send(to, subject, html, text)
}

// SendPasswordReset mails a password-reset link carrying the opaque token.
func (d *Dispatcher) SendPasswordReset(to, token string) error {
	subject, html, text := renderPasswordReset(d.baseURL, token)
	return d.sender.Send(to, subject, html, text)
}

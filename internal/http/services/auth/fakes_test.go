package auth

import "sync"

// fakeMailer records outgoing mail instead of sending it.
type fakeMailer struct {
	mu          sync.Mutex
	codes       []sentMail // two-factor codes
	resetTokens []sentMail
	failNext    bool
}

type sentMail struct {
	To    string
	Value string
}

func (m *fakeMailer) SendTwoFactorCode(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errSendFailed
	}
	m.codes = append(m.codes, sentMail{To: to, Value: code})
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errSendFailed
	}
	m.resetTokens = append(m.resetTokens, sentMail{To: to, Value: token})
	return nil
}

func (m *fakeMailer) lastCode() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return sentMail{}, false
	}
	return m.codes[len(m.codes)-1], true
}

func (m *fakeMailer) lastResetToken() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.resetTokens) == 0 {
		return sentMail{}, false
	}
	return m.resetTokens[len(m.resetTokens)-1], true
}

var errSendFailed = errFake("smtp unavailable")

type errFake string

func (e errFake) Error() string { return string(e) }

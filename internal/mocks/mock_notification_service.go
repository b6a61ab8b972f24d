package mocks

import "github.com/you/checkoutsvc/domain"

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error

	SMSCalls   []string
	EmailCalls []string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS records the call and delegates to SendSMSFunc when set
func (m *MockNotificationService) SendSMS(to, message string) error {
	m.SMSCalls = append(m.SMSCalls, to)
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// SendEmail records the call and delegates to SendEmailFunc when set
func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	m.EmailCalls = append(m.EmailCalls, to)
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)

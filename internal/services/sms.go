package services

import (
	"fmt"
	"log"
)

// SMSService interface for sending SMS messages
type SMSService interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSService for development - logs to console instead of sending real SMS
type MockSMSService struct{}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SendMessage(phoneNumber, message string) error {
	log.Printf("📨 MOCK SMS: Send message to %s: %s", phoneNumber, message)
	fmt.Printf("\n📱 SMS to %s:\n   %s\n\n", phoneNumber, message)
	return nil
}

package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSService implements SMSService using Twilio API
type TwilioSMSService struct {
	client         *twilio.RestClient
	fromNumber     string
	logger         *logrus.Logger
	circuitBreaker CircuitBreaker
	rateLimiter    RateLimiter
}

// CircuitBreaker interface for handling external service failures
type CircuitBreaker interface {
	State() string
	RecordSuccess()
	RecordFailure()
	Allow() bool
}

// RateLimiter interface for SMS rate limiting
type RateLimiter interface {
	Allow(phoneNumber string) error
}

// Simple in-memory circuit breaker implementation
type simpleCircuitBreaker struct {
	failures    int
	lastFailure time.Time
	threshold   int
	timeout     time.Duration
	state       string // "closed", "open", "half-open"
}

func newSimpleCircuitBreaker(threshold int, timeout time.Duration) *simpleCircuitBreaker {
	return &simpleCircuitBreaker{
		threshold: threshold,
		timeout:   timeout,
		state:     "closed",
	}
}

func (cb *simpleCircuitBreaker) State() string {
	// Check if we should transition from open to half-open
	if cb.state == "open" && time.Since(cb.lastFailure) > cb.timeout {
		cb.state = "half-open"
	}
	return cb.state
}

func (cb *simpleCircuitBreaker) Allow() bool {
	return cb.State() != "open"
}

func (cb *simpleCircuitBreaker) RecordSuccess() {
	cb.failures = 0
	cb.state = "closed"
}

func (cb *simpleCircuitBreaker) RecordFailure() {
	cb.failures++
	cb.lastFailure = time.Now()
	if cb.failures >= cb.threshold {
		cb.state = "open"
	}
}

// NewTwilioSMSService creates a new Twilio SMS service
func NewTwilioSMSService(accountSID, authToken, fromNumber string, rateLimiter RateLimiter) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSService{
		client:         client,
		fromNumber:     fromNumber,
		logger:         logrus.StandardLogger(),
		circuitBreaker: newSimpleCircuitBreaker(5, 30*time.Second), // 5 failures, 30s timeout
		rateLimiter:    rateLimiter,
	}
}

// SendMessage sends an SMS message via Twilio
func (s *TwilioSMSService) SendMessage(phoneNumber, message string) error {
	if !s.circuitBreaker.Allow() {
		s.logger.Warn("Twilio circuit breaker open, rejecting SMS")
		return fmt.Errorf("SMS service temporarily unavailable")
	}

	// Validate phone number format (E.164)
	normalizedNumber, err := s.normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalizedNumber); err != nil {
			s.logger.WithField("to", normalizedNumber).Warn("Twilio SMS rate limited")
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	// Prepare Twilio API request
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizedNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.logger.Errorf("Twilio API error: %v", err)
		return s.mapTwilioError(err)
	}
	s.circuitBreaker.RecordSuccess()

	fields := logrus.Fields{"to": normalizedNumber}
	if resp.Sid != nil {
		fields["sid"] = *resp.Sid
	}
	s.logger.WithFields(fields).Info("Twilio SMS sent")

	return nil
}

// normalizePhoneNumber ensures phone number is in E.164 format
func (s *TwilioSMSService) normalizePhoneNumber(phone string) (string, error) {
	// Remove all non-digit characters except +
	re := regexp.MustCompile(`[^\d+]`)
	cleaned := re.ReplaceAllString(phone, "")

	// Add + if not present
	if !regexp.MustCompile(`^\+`).MatchString(cleaned) {
		// Assume US number if no country code
		if regexp.MustCompile(`^\d{10}$`).MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	// Validate E.164 format
	if !regexp.MustCompile(`^\+[1-9]\d{1,14}$`).MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}

// mapTwilioError maps Twilio-specific errors to user-friendly messages
func (s *TwilioSMSService) mapTwilioError(err error) error {
	errStr := err.Error()

	// Common Twilio error patterns
	switch {
	case regexp.MustCompile(`(?i)invalid.*phone.*number`).MatchString(errStr):
		return fmt.Errorf("invalid phone number")
	case regexp.MustCompile(`(?i)unverified.*number`).MatchString(errStr):
		return fmt.Errorf("phone number not verified for trial account")
	case regexp.MustCompile(`(?i)insufficient.*funds`).MatchString(errStr):
		return fmt.Errorf("SMS service temporarily unavailable")
	case regexp.MustCompile(`(?i)rate.*limit`).MatchString(errStr):
		return fmt.Errorf("too many SMS requests, please try again later")
	case regexp.MustCompile(`(?i)blocked.*number`).MatchString(errStr):
		return fmt.Errorf("unable to send SMS to this number")
	default:
		return fmt.Errorf("failed to send SMS: %w", err)
	}
}

// Stats returns circuit breaker and service statistics
func (s *TwilioSMSService) Stats() map[string]interface{} {
	return map[string]interface{}{
		"circuit_breaker_state": s.circuitBreaker.State(),
		"service_type":          "twilio",
	}
}

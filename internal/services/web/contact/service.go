// Package contact validates contact form submissions, verifies the sender is
// human and forwards the message by mail.
package contact

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/uslusolutions/clinicweb/internal/services/web/integration/msgraph"
	apperrors "github.com/uslusolutions/clinicweb/internal/services/web/platform/errors"
)

// Client-facing failure messages.
const (
	MessageInvalidJSON  = "Invalid JSON payload"
	MessageInvalidEmail = "email must be a valid email address"
	MessageVerification = "Failed human verification"
	MessageSendFailed   = "Failed to send message"
	emailValidationTag  = "contactemail"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Verifier checks a CAPTCHA token.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Mailer delivers an accepted submission.
type Mailer interface {
	Send(ctx context.Context, sub msgraph.Submission) error
}

// Request is a trimmed contact form payload. Fields are validated in
// declaration order.
type Request struct {
	Name           string `json:"name" validate:"required,max=10000"`
	Email          string `json:"email" validate:"required,max=10000"`
	Mobile         string `json:"mobile" validate:"required,max=10000"`
	Message        string `json:"message" validate:"required,max=10000"`
	RecaptchaToken string `json:"recaptchaToken" validate:"required"`

	rawEmail string
}

// Service runs the contact flow.
type Service struct {
	verifier Verifier
	mailer   Mailer
	validate *validator.Validate
	newID    func() uuid.UUID
}

// NewService builds a contact service.
func NewService(verifier Verifier, mailer Mailer) *Service {
	return &Service{verifier: verifier, mailer: mailer, validate: newValidator(), newID: uuid.New}
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation(emailValidationTag, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("contact: register %s validation: %v", emailValidationTag, err))
	}
	return validate
}

// Decode reads and validates a JSON payload. Non-string fields count as
// missing. The email pattern is checked against the untrimmed value.
func (s *Service) Decode(body io.Reader) (Request, error) {
	var raw map[string]any
	if body == nil {
		return Request{}, apperrors.E(apperrors.KindInvalidInput, MessageInvalidJSON)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		return Request{}, apperrors.Wrap(apperrors.KindInvalidInput, MessageInvalidJSON, err)
	}
	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		return Request{}, apperrors.E(apperrors.KindInvalidInput, MessageInvalidJSON)
	}
	req := Request{
		Name:           field(raw, "name"),
		Email:          field(raw, "email"),
		Mobile:         field(raw, "mobile"),
		Message:        field(raw, "message"),
		RecaptchaToken: field(raw, "recaptchaToken"),
	}
	if email, ok := raw["email"].(string); ok {
		req.rawEmail = email
	}
	if err := s.Validate(req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate applies the required-field checks, then the email pattern.
func (s *Service) Validate(req Request) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if stderrors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			if first.Tag() == "max" {
				return apperrors.E(apperrors.KindInvalidInput, first.Field()+" is too long")
			}
			return apperrors.E(apperrors.KindInvalidInput, first.Field()+" is required")
		}
		return apperrors.Wrap(apperrors.KindInvalidInput, MessageInvalidJSON, err)
	}
	email := req.rawEmail
	if email == "" {
		email = req.Email
	}
	if err := s.validate.Var(email, emailValidationTag); err != nil {
		return apperrors.E(apperrors.KindInvalidInput, MessageInvalidEmail)
	}
	return nil
}

// Submit verifies the CAPTCHA token and sends the message. The returned id
// tags the submission in logs.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	id := s.newID().String()
	ok, err := s.verify(ctx, req.RecaptchaToken)
	if err != nil {
		log.Printf("contact: verification error submission_id=%s err=%v", id, err)
	}
	if !ok {
		log.Printf("contact: rejected submission_id=%s reason=verification", id)
		return id, apperrors.Wrap(apperrors.KindForbidden, MessageVerification, err)
	}
	if s.mailer == nil {
		log.Printf("contact: send failed submission_id=%s err=%v", id, msgraph.ErrNotConfigured)
		return id, apperrors.Wrap(apperrors.KindUnknown, MessageSendFailed, msgraph.ErrNotConfigured)
	}
	if err := s.mailer.Send(ctx, msgraph.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Message: req.Message,
	}); err != nil {
		log.Printf("contact: send failed submission_id=%s err=%v", id, err)
		return id, apperrors.Wrap(apperrors.KindUnknown, MessageSendFailed, err)
	}
	log.Printf("contact: sent submission_id=%s", id)
	return id, nil
}

func (s *Service) verify(ctx context.Context, token string) (bool, error) {
	if s.verifier == nil {
		return false, stderrors.New("contact: verifier is not configured")
	}
	return s.verifier.Verify(ctx, token)
}

func field(raw map[string]any, key string) string {
	value, ok := raw[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

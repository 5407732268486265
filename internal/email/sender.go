package email

import (
	"context"
	"errors"
	"time"
)

// Purpose identifica el motivo de un codigo de un solo uso.
type Purpose string

const (
	PurposeReset  Purpose = "reset"
	PurposeVerify Purpose = "verify"
)

// Sender define la interfaz para envio de codigos por correo.
type Sender interface {
	SendCode(ctx context.Context, toEmail string, code string, purpose Purpose, expiresAt time.Time) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendCode(_ context.Context, _ string, _ string, _ Purpose, _ time.Time) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

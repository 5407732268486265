package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"salary-api/internal/email"
)

// CodeDelivery informa si el correo con el codigo pudo enviarse.
// Un fallo de envio no es un error de la operacion.
type CodeDelivery struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

// RequestPasswordReset genera un codigo de reinicio para un email registrado.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) (CodeDelivery, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return CodeDelivery{}, ErrInvalidEmail
	}
	if !s.otpLimiter.Allow(ctx, string(email.PurposeReset)+":"+emailAddr) {
		return CodeDelivery{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CodeDelivery{}, ErrUserNotFound
		}
		return CodeDelivery{}, err
	}

	sent, err := s.issueCode(ctx, email.PurposeReset, emailAddr, user.ID)
	if err != nil {
		return CodeDelivery{}, err
	}
	if sent {
		return CodeDelivery{Message: "Reset code sent to email", EmailSent: true}, nil
	}
	return CodeDelivery{Message: "Failed to send email", EmailSent: false}, nil
}

// VerifyResetCode comprueba el codigo sin consumirlo.
func (s *UserService) VerifyResetCode(ctx context.Context, emailAddr, code string) error {
	_, err := s.checkCode(ctx, email.PurposeReset, emailAddr, code, false)
	return err
}

// ResetPassword consume el codigo y reemplaza el hash. Si la actualizacion
// falla el codigo se restaura para poder reintentar.
func (s *UserService) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	entry, err := s.checkCode(ctx, email.PurposeReset, emailAddr, code, true)
	if err != nil {
		return err
	}

	err = s.applyReset(ctx, entry.UserID, newPassword)
	if err == nil {
		return nil
	}
	key := codeKey(email.PurposeReset, normalizeEmail(emailAddr))
	if putErr := s.codes.Put(ctx, key, entry); putErr != nil {
		s.logger.Warn("restore reset code failed", zap.Error(putErr))
	}
	return err
}

func (s *UserService) applyReset(ctx context.Context, userID, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// SendVerificationCode genera un codigo de verificacion de email.
func (s *UserService) SendVerificationCode(ctx context.Context, emailAddr string) (CodeDelivery, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return CodeDelivery{}, ErrInvalidEmail
	}
	if !s.otpLimiter.Allow(ctx, string(email.PurposeVerify)+":"+emailAddr) {
		return CodeDelivery{}, ErrRateLimited
	}

	sent, err := s.issueCode(ctx, email.PurposeVerify, emailAddr, "")
	if err != nil {
		return CodeDelivery{}, err
	}
	if sent {
		return CodeDelivery{Message: "Verification code sent", EmailSent: true}, nil
	}
	return CodeDelivery{Message: "Failed to send email", EmailSent: false}, nil
}

// VerifyEmailCode consume el codigo y marca el email como verificado si el usuario existe.
func (s *UserService) VerifyEmailCode(ctx context.Context, emailAddr, code string) error {
	if _, err := s.checkCode(ctx, email.PurposeVerify, emailAddr, code, true); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		s.logger.Warn("lookup verified email failed", zap.Error(err))
		return nil
	}
	if err := s.users.VerifyEmail(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("mark email verified failed", zap.Error(err), zap.String("user_id", user.ID))
	}
	return nil
}

func (s *UserService) issueCode(ctx context.Context, purpose email.Purpose, emailAddr, userID string) (bool, error) {
	code, err := generateCode()
	if err != nil {
		return false, err
	}
	key := codeKey(purpose, emailAddr)
	expiresAt := s.now().Add(s.codeTTL)
	if err := s.codes.Put(ctx, key, CodeEntry{
		CodeHash:  hashCode(key, code),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return false, err
	}

	if err := s.emailSender.SendCode(ctx, emailAddr, code, purpose, expiresAt); err != nil {
		s.logger.Warn("send code email failed",
			zap.Error(err),
			zap.String("email", emailAddr),
			zap.String("purpose", string(purpose)),
		)
		return false, nil
	}
	s.logger.Info("code email sent", zap.String("email", emailAddr), zap.String("purpose", string(purpose)))
	return true, nil
}

func (s *UserService) checkCode(ctx context.Context, purpose email.Purpose, emailAddr, code string, consume bool) (CodeEntry, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return CodeEntry{}, ErrInvalidEmail
	}
	key := codeKey(purpose, emailAddr)
	return s.codes.Check(ctx, key, hashCode(key, strings.TrimSpace(code)), consume)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func codeKey(purpose email.Purpose, emailAddr string) string {
	return string(purpose) + ":" + emailAddr
}

func hashCode(key, code string) string {
	sum := sha256.Sum256([]byte(key + ":" + code))
	return hex.EncodeToString(sum[:])
}

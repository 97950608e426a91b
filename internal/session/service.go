// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/expensa/internal/platform/apperr"
	"github.com/taibuivan/expensa/internal/platform/constants"
	"github.com/taibuivan/expensa/internal/platform/ctxutil"
	"github.com/taibuivan/expensa/internal/platform/notify"
	"github.com/taibuivan/expensa/internal/platform/validate"
	"github.com/taibuivan/expensa/internal/transport"
)

// Profile is the current-user record returned by the me endpoint.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthService performs the login, current-user and logout flows.
type AuthService struct {
	client    *transport.Client
	store     *TokenStore
	navigator notify.Navigator
	logger    *slog.Logger
}

// NewAuthService wires the auth flows.
func NewAuthService(client *transport.Client, store *TokenStore, navigator notify.Navigator, logger *slog.Logger) *AuthService {
	return &AuthService{
		client:    client,
		store:     store,
		navigator: navigator,
		logger:    logger.With(slog.String("component", "auth")),
	}
}

// Login exchanges credentials for a token and saves it.
//
// Failures are interpreted here, not by the pipeline's recovery stage:
//   - 400/401: the server message, else "Invalid email or password".
//   - network: "Unable to reach the server".
//   - anything else: a fixed login failure message.
func (service *AuthService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)

	// ── 1. Client Preconditions ───────────────────────────────────────────
	validator := &validate.Validator{}
	validator.Required("email", email).Email("email", email).Required("password", password)
	if validator.HasErrors() {
		return apperr.BadRequest("Please enter a valid email and password.", validator.Details()...)
	}

	// ── 2. Exchange ───────────────────────────────────────────────────────
	var response loginResponse
	err := service.client.Post(ctxutil.WithoutRecovery(ctx), constants.LoginPath, Credentials{Email: email, Password: password}, &response)
	if err != nil {
		service.logger.Info("login_failed", slog.String("kind", string(apperr.KindOf(err))))
		return loginError(err)
	}

	if response.Token == "" {
		return apperr.Relabel(errors.New("login response carried no token"), constants.MsgLoginFailed)
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	if err := service.store.Save(ctx, response.Token); err != nil {
		return apperr.Relabel(err, constants.MsgLoginFailed)
	}

	service.logger.Info("login_succeeded")
	return nil
}

func loginError(err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthorized, apperr.KindBadRequest:
		return apperr.Describe(err, constants.MsgInvalidCredentials)
	case apperr.KindNetwork:
		return apperr.Relabel(err, constants.MsgServerUnreachable)
	default:
		if errors.Is(err, context.Canceled) {
			return err
		}
		return apperr.Relabel(err, constants.MsgLoginFailed)
	}
}

// Me fetches the current user record.
//
// On 401 the pipeline has already torn the session down; the error is
// relabelled with the session-expired message.
func (service *AuthService) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := service.client.Get(ctx, constants.MePath, nil, &profile); err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			return nil, apperr.Relabel(err, constants.MsgSessionExpired)
		}
		return nil, apperr.Describe(err, "Failed to load your profile")
	}
	return &profile, nil
}

// Logout removes the token and navigates to the login screen. It is idempotent.
func (service *AuthService) Logout(ctx context.Context) error {
	err := service.store.Remove(ctx)
	service.navigator.ToLogin("logout")
	service.logger.Info("logout_completed")
	return err
}

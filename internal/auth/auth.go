package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	config "github.com/oskar87/swe2/configs"
	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/models"
	"github.com/oskar87/swe2/internal/repository"
)

const (
	SessionName     = "gosess"
	SessionKundeID  = "kunde_id"
	sessionState    = "oauth_state"
	ContextKundeKey = "kunde"
)

// KundeFinder looks up the Kunde behind a session or an ID token.
type KundeFinder interface {
	FindKundeByID(ctx context.Context, id uint, fetch repository.FetchType) (*models.Kunde, error)
	FindKundeByEmail(ctx context.Context, email string) (*models.Kunde, error)
}

type Authenticator struct {
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
	kunden       KundeFinder
	logger       *zap.Logger
}

func NewAuthenticator(ctx context.Context, cfg config.OIDCConfig, kunden KundeFinder, logger *zap.Logger) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider init error: %w", err)
	}

	return &Authenticator{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		kunden: kunden,
		logger: logger,
	}, nil
}

// GET /auth/login
func (a *Authenticator) Login(c *gin.Context) {
	state := uuid.New().String()

	sess := sessions.Default(c)
	sess.Set(sessionState, state)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}

	c.Redirect(http.StatusFound, a.oauth2Config.AuthCodeURL(state))
}

// GET /auth/callback
func (a *Authenticator) Callback(c *gin.Context) {
	sess := sessions.Default(c)
	state, _ := sess.Get(sessionState).(string)
	if state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	sess.Delete(sessionState)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		a.logger.Warn("Token exchange failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	// Only registered Kunden may log in
	kunde, err := a.kunden.FindKundeByEmail(ctx, claims.Email)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "no Kunde registered for this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sess.Set(SessionKundeID, kunde.ID)
	if err := sess.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}

	a.logger.Info("Kunde logged in", zap.Uint("kunde_id", kunde.ID), zap.String("sub", claims.Sub))
	c.JSON(http.StatusOK, gin.H{"message": "logged in", "kunde_id": kunde.ID})
}

// RequireAuth ensures the session belongs to an existing Kunde and puts that
// Kunde on the context.
func RequireAuth(kunden KundeFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		kundeID, ok := sess.Get(SessionKundeID).(uint)
		if !ok || kundeID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		kunde, err := kunden.FindKundeByID(c.Request.Context(), kundeID, repository.NurKunde)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		c.Set(ContextKundeKey, kunde)
		c.Next()
	}
}

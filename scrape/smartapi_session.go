package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"indexbot/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
)

// Login exchanges long-lived credentials for a session. A missing feed token
// is tolerated. The refresh call made afterwards only probes the refresh
// token; its result is logged and dropped.
func (k *SmartAPI) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {

	code, err := totp.GenerateCode(creds.TOTPSecret, k.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOneTimeCode, err)
	}

	k.lg.Info().Str("clientId", creds.ClientID).Msg("Logging in to SmartAPI")

	req := LoginRequest{
		ClientCode: creds.ClientID,
		Password:   creds.Password,
		TOTP:       code,
	}

	var rtn SmartResp[*TokenData]
	if err := k.execute(ctx, loginEndpoint, req, &rtn, false); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoginRejected, err)
	}

	if !rtn.Status || rtn.Data == nil || rtn.Data.JwtToken == "" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrLoginRejected, rtn.Message, rtn.ErrorCode)
	}

	session := &model.Session{
		ClientCode:   creds.ClientID,
		AccessToken:  strings.TrimPrefix(rtn.Data.JwtToken, "Bearer "),
		RefreshToken: rtn.Data.RefreshToken,
		FeedToken:    rtn.Data.FeedToken,
		ExpiresAt:    tokenExpiry(rtn.Data.JwtToken),
	}
	k.setSession(session)

	if session.FeedToken == "" {
		k.lg.Warn().Msg("Login returned no feed token, push feed will be unavailable")
	}

	if _, err := k.RenewToken(ctx, session.RefreshToken); err != nil {
		k.lg.Debug().Err(err).Msg("Refresh token probe failed")
	} else {
		k.lg.Debug().Msg("Refresh token probe succeeded")
	}

	k.lg.Info().
		Bool("feedToken", session.FeedToken != "").
		Time("expiresAt", session.ExpiresAt).
		Msg("SmartAPI login succeeded")

	return session, nil
}

// tokenExpiry reads the exp claim of the access token without verifying it.
func tokenExpiry(raw string) time.Time {

	token, _, err := jwt.NewParser().ParseUnverified(strings.TrimPrefix(raw, "Bearer "), jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"creator-ops/domain/dto"
	"creator-ops/domain/model"
)

// encodeState packs the user and return URL into the opaque state parameter.
func encodeState(secret, userID, redirect string, now time.Time) (string, error) {
	s := dto.OAuthState{UserID: userID, Redirect: redirect, IssuedAt: now.Unix()}
	s.Sig = stateSignature(secret, s)
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeState verifies the signature and age of a state produced by encodeState.
func decodeState(secret, state string, now time.Time, ttl time.Duration) (*dto.OAuthState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(state, "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidState, err)
	}
	var s dto.OAuthState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidState, err)
	}
	if s.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", model.ErrInvalidState)
	}
	want := stateSignature(secret, s)
	if !hmac.Equal([]byte(want), []byte(s.Sig)) {
		return nil, fmt.Errorf("%w: bad signature", model.ErrInvalidState)
	}
	issued := time.Unix(s.IssuedAt, 0)
	if now.Sub(issued) > ttl || issued.After(now.Add(time.Minute)) {
		return nil, fmt.Errorf("%w: expired", model.ErrInvalidState)
	}
	return &s, nil
}

func stateSignature(secret string, s dto.OAuthState) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(s.UserID))
	mac.Write([]byte{0})
	mac.Write([]byte(s.Redirect))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(s.IssuedAt, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// returnURLPolicy keeps post-consent redirects on known frontend origins.
type returnURLPolicy struct {
	fallback string
	origins  map[string]struct{}
}

func newReturnURLPolicy(frontendURL string, allowed []string) returnURLPolicy {
	p := returnURLPolicy{
		fallback: strings.TrimRight(frontendURL, "/") + "/app/settings",
		origins:  make(map[string]struct{}),
	}
	for _, o := range append([]string{frontendURL}, allowed...) {
		if origin := originOf(o); origin != "" {
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

func (p returnURLPolicy) resolve(raw string) string {
	if raw == "" {
		return p.fallback
	}
	origin := originOf(raw)
	if origin == "" {
		return p.fallback
	}
	if _, ok := p.origins[origin]; !ok {
		return p.fallback
	}
	return raw
}

func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

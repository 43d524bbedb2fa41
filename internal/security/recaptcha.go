package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// ErrChallengeFailed is returned when the login challenge token is missing
// or rejected by the verification endpoint.
var ErrChallengeFailed = errors.New("challenge verification failed")

// ChallengeVerifier checks the CAPTCHA-style token submitted with a login.
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

const siteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaVerifier verifies tokens against the reCAPTCHA siteverify API.
type RecaptchaVerifier struct {
	client *http.Client
	secret string
}

// NewRecaptchaVerifier builds a verifier that talks to the siteverify
// endpoint through an SSRF-guarded client.
func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	cfg := safeurl.GetConfigBuilder().
		SetTimeout(10 * time.Second).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return &RecaptchaVerifier{
		client: safeurl.Client(cfg).Client,
		secret: secret,
	}
}

// NewRecaptchaVerifierWithClient is used by tests to inject a plain client.
func NewRecaptchaVerifierWithClient(secret string, client *http.Client) *RecaptchaVerifier {
	return &RecaptchaVerifier{client: client, secret: secret}
}

func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrChallengeFailed
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, siteVerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling siteverify: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding siteverify response: %w", err)
	}

	if !result.Success {
		return ErrChallengeFailed
	}
	return nil
}

// NoopVerifier accepts every token. Used when no challenge secret is
// configured, and in tests.
type NoopVerifier struct{}

func (NoopVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	return nil
}

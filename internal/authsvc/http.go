package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenLifetime = 24 * time.Hour

// HTTPService implements Service against a GoTrue-compatible REST API
// (the auth surface exposed by Supabase-style hosted backends).
type HTTPService struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewHTTPService(baseURL, anonKey string) *HTTPService {
	return &HTTPService{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signUpResponse struct {
	// GoTrue returns the user object nested when a session is issued and
	// bare when email confirmation is pending.
	authUser
	User *authUser `json:"user"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	User        *authUser `json:"user"`
}

type errorResponse struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *HTTPService) SignUp(ctx context.Context, email, password string) (Identity, error) {
	var resp signUpResponse
	err := s.post(ctx, "/auth/v1/signup", credentialsBody{Email: email, Password: password}, &resp)
	if err != nil {
		return Identity{}, err
	}

	user := resp.authUser
	if resp.User != nil {
		user = *resp.User
	}
	if user.ID == "" {
		return Identity{}, fmt.Errorf("auth service returned no user id")
	}
	if user.Email == "" {
		user.Email = email
	}
	return Identity{ID: user.ID, Email: user.Email}, nil
}

func (s *HTTPService) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	var resp tokenResponse
	err := s.post(ctx, "/auth/v1/token?grant_type=password", credentialsBody{Email: email, Password: password}, &resp)
	if err != nil {
		return Credentials{}, err
	}
	if resp.User == nil || resp.User.ID == "" {
		return Credentials{}, fmt.Errorf("auth service returned no user")
	}

	return Credentials{
		Identity:    Identity{ID: resp.User.ID, Email: resp.User.Email},
		AccessToken: resp.AccessToken,
		ExpiresAt:   tokenExpiry(resp.AccessToken, resp.ExpiresIn),
	}, nil
}

func (s *HTTPService) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		_ = json.Unmarshal(raw, &errResp)
		message := errResp.Message
		if message == "" {
			message = errResp.ErrorDescription
		}
		if message == "" {
			message = errResp.Error
		}
		if message == "" {
			message = fmt.Sprintf("auth service error (status %d)", resp.StatusCode)
		}
		return &AuthError{StatusCode: resp.StatusCode, Message: message}
	}

	return json.Unmarshal(raw, out)
}

// tokenExpiry reads the exp claim off the delegated access token so the
// session never outlives it. Signature verification is the auth service's
// concern; only the timestamp is consumed here.
func tokenExpiry(accessToken string, expiresIn int) time.Time {
	if accessToken != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				return exp.Time
			}
		}
	}
	if expiresIn > 0 {
		return time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return time.Now().Add(defaultTokenLifetime)
}

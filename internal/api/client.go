// Package api talks to the remote quiz backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quiz-client/internal/domain"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message extracts the text a screen should show for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Client implements the backend calls over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A zero timeout means requests are only bounded by ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message      string `json:"message"`
	SessionToken string `json:"sessionToken"`
	IsSubscribed bool   `json:"isSubscribed"`
}

type logoutRequest struct {
	Username string `json:"username"`
}

type verifyAccessRequest struct {
	Username           string `json:"username"`
	Code               string `json:"code"`
	SubscriptionMonths int    `json:"subscriptionMonths"`
}

type verifyAccessResponse struct {
	Message      string `json:"message"`
	IsSubscribed bool   `json:"isSubscribed"`
}

// Register creates an account and returns the server message.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp messageResponse
	err := c.doRequest(ctx, http.MethodPost, "/register", "", credentialsRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login posts credentials. With a token and an empty password the backend treats
// the call as a session check and rotates the token.
func (c *Client) Login(ctx context.Context, username, password, token string) (domain.LoginResult, error) {
	var resp loginResponse
	err := c.doRequest(ctx, http.MethodPost, "/login", token, credentialsRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return domain.LoginResult{}, err
	}
	return domain.LoginResult{
		Message:      resp.Message,
		SessionToken: resp.SessionToken,
		IsSubscribed: resp.IsSubscribed,
	}, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context, username, token string) error {
	return c.doRequest(ctx, http.MethodPost, "/logout", token, logoutRequest{Username: username}, nil)
}

// VerifyAccess redeems an access code for a subscription.
func (c *Client) VerifyAccess(ctx context.Context, username, token, code string, months int) (domain.AccessResult, error) {
	var resp verifyAccessResponse
	err := c.doRequest(ctx, http.MethodPost, "/verify-access", token, verifyAccessRequest{
		Username:           username,
		Code:               code,
		SubscriptionMonths: months,
	}, &resp)
	if err != nil {
		return domain.AccessResult{}, err
	}
	return domain.AccessResult{Message: resp.Message, IsSubscribed: resp.IsSubscribed}, nil
}

// Questions fetches the question set for a course.
func (c *Client) Questions(ctx context.Context, q domain.QuestionQuery) (domain.QuestionSet, error) {
	params := url.Values{}
	params.Set("username", q.Username)
	params.Set("course", q.Course)
	params.Set("count", strconv.Itoa(q.Count))

	var set domain.QuestionSet
	if err := c.doRequest(ctx, http.MethodGet, "/questions?"+params.Encode(), q.Token, nil, &set); err != nil {
		return domain.QuestionSet{}, err
	}
	return set, nil
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg messageResponse
		_ = json.Unmarshal(data, &msg)
		if msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

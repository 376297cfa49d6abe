package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer credential attached to outgoing requests.
// Invalidate is called as a side effect whenever any request comes back 401;
// after that the stored session must no longer be considered valid.
type TokenSource interface {
	Token() string
	Invalidate()
}

// Client wraps the outbound REST client for the clinic backend. Every request
// passes through it, so the bearer header and the 401 invalidation hook apply
// uniformly.
type Client struct {
	rest *resty.Client
	log  zerolog.Logger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, logger zerolog.Logger) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		if tok := tokens.Token(); tok != "" {
			req.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() == http.StatusUnauthorized {
			logger.Warn().
				Str("url", resp.Request.URL).
				Msg("respuesta 401, invalidando la sesión")
			tokens.Invalidate()
		}
		return nil
	})

	return &Client{rest: rest, log: logger}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	resp, err := c.rest.R().SetContext(ctx).SetResult(out).Get(path)
	return c.check(resp, err)
}

// GetBytes fetches a binary resource (the QR image endpoint).
func (c *Client) GetBytes(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(path)
	if cerr := c.check(resp, err); cerr != nil {
		return nil, cerr
	}
	return resp.Body(), nil
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	resp, err := c.rest.R().SetContext(ctx).SetBody(body).SetResult(out).Post(path)
	return c.check(resp, err)
}

// PostText issues a POST and returns the raw response body as text. The login
// endpoint replies with the bare token instead of JSON.
func (c *Client) PostText(ctx context.Context, path string, body any) (string, error) {
	resp, err := c.rest.R().SetContext(ctx).SetBody(body).Post(path)
	if cerr := c.check(resp, err); cerr != nil {
		return "", cerr
	}
	return resp.String(), nil
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	resp, err := c.rest.R().SetContext(ctx).SetBody(body).SetResult(out).Put(path)
	return c.check(resp, err)
}

// PutText issues a PUT with a plain-text body (the password change endpoint
// takes the new password as a raw string).
func (c *Client) PutText(ctx context.Context, path, body string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(body).
		Put(path)
	return c.check(resp, err)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.rest.R().SetContext(ctx).Delete(path)
	return c.check(resp, err)
}

// check converts transport failures and error statuses into the client's
// error taxonomy. Callers never see a raw resty response.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		c.log.Error().Err(err).Msg("fallo de transporte")
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !resp.IsError() {
		return nil
	}

	status := resp.StatusCode()
	msg := extractMessage(resp.Body())
	c.log.Debug().
		Int("status", status).
		Str("url", resp.Request.URL).
		Str("message", msg).
		Msg("respuesta de error del backend")

	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return &Error{Status: status, Message: msg}
	}
}

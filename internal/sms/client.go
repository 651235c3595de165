// Package sms sends text messages through The SMS Works gateway.
package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/valyala/fasthttp"
)

const (
	// DefaultBaseURL is the production gateway.
	DefaultBaseURL = "https://api.thesmsworks.co.uk"
	// DefaultSender is the sender ID shown to recipients.
	DefaultSender = "PackFlow"
	// MaxMessageLength is the longest message the gateway accepts.
	MaxMessageLength = 1600

	sendPath       = "/v1/message/send"
	defaultTimeout = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when no gateway token is set.
	ErrNotConfigured = errors.New("sms: gateway not configured")
	// ErrInvalidRecipient is returned for numbers that are not UK mobiles.
	ErrInvalidRecipient = errors.New("sms: invalid phone number format, use UK mobile format (e.g. 07123456789 or +447123456789)")
	// ErrEmptyMessage is returned when there is nothing to send.
	ErrEmptyMessage = errors.New("sms: message is required")
	// ErrMessageTooLong is returned when a message exceeds MaxMessageLength.
	ErrMessageTooLong = fmt.Errorf("sms: message too long, maximum %d characters allowed", MaxMessageLength)
)

// ukMobile is the accepted input shape; phonenumbers does the parsing.
var ukMobile = regexp.MustCompile(`^(\+44|0044|0)7\d{9}$`)

const ukCountryCode = 44

// NormalizeRecipient validates a UK mobile number and returns it in
// international form without a plus sign, e.g. 447123456789.
func NormalizeRecipient(raw string) (string, error) {
	cleaned := strings.Join(strings.Fields(raw), "")
	if !ukMobile.MatchString(cleaned) {
		return "", ErrInvalidRecipient
	}
	num, err := phonenumbers.Parse(cleaned, "GB")
	if err != nil || num.GetCountryCode() != ukCountryCode {
		return "", ErrInvalidRecipient
	}
	return strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+"), nil
}

// ValidateMessage checks the message body limits. Length is counted in characters.
func ValidateMessage(msg string) error {
	if strings.TrimSpace(msg) == "" {
		return ErrEmptyMessage
	}
	if len([]rune(msg)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Mask hides all but the first five digits of a destination for logging.
func Mask(destination string) string {
	if len(destination) <= 5 {
		return destination
	}
	return destination[:5] + "***"
}

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("sms gateway: status %d: %s", e.StatusCode, e.Message)
}

// Result is the gateway's acknowledgement of a queued message.
type Result struct {
	MessageID string  `json:"messageid"`
	Status    string  `json:"status"`
	Credits   float64 `json:"credits"`
}

type sendRequest struct {
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	Content     string `json:"content"`
	Schedule    string `json:"schedule"`
}

type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// Sender delivers a text message to a UK mobile number.
type Sender interface {
	Send(ctx context.Context, recipient, message string) (*Result, error)
}

// Client talks to the gateway over fasthttp. Messages are sent once, with no retries.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	sender  string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another gateway, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSender overrides DefaultSender.
func WithSender(s string) Option {
	return func(c *Client) {
		if s != "" {
			c.sender = s
		}
	}
}

// WithTimeout bounds each request when the context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient returns a gateway client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:    &fasthttp.Client{Name: "packflow"},
		baseURL: DefaultBaseURL,
		token:   token,
		sender:  DefaultSender,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send validates the inputs and posts the message to the gateway.
func (c *Client) Send(ctx context.Context, recipient, message string) (*Result, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}
	dest, err := NormalizeRecipient(recipient)
	if err != nil {
		return nil, err
	}
	if err := ValidateMessage(message); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(sendRequest{Sender: c.sender, Destination: dest, Content: message})
	if err != nil {
		return nil, fmt.Errorf("encode sms request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + sendPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", c.token)
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("sms gateway request: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		var eb errorBody
		_ = json.Unmarshal(resp.Body(), &eb)
		if eb.Message == "" {
			eb.Message = "Failed to send SMS"
		}
		return nil, &GatewayError{StatusCode: status, Message: eb.Message, Details: eb.Errors}
	}

	var out Result
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode sms response: %w", err)
	}
	return &out, nil
}

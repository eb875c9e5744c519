package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/EpicMandM/travel-planner/internal/logger"
)

// refreshEarly is how long before expiry a token is refreshed.
const refreshEarly = 2 * time.Minute

var (
	// ErrNoToken means no cached token exists and no interactive grant is possible.
	ErrNoToken = errors.New("no cached token")

	errMissingCode = errors.New("no authorization code entered")
)

// TokenFileAuth is the OAuth token provider for the Calendar API. It keeps
// the token in a JSON file, refreshes it before expiry and persists every
// refreshed token. It implements oauth2.TokenSource.
type TokenFileAuth struct {
	config     *oauth2.Config
	tokenPath  string
	httpClient *http.Client
	logger     *logger.Logger

	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	current *oauth2.Token
}

// NewTokenFileAuth reads the OAuth client file and prepares a read-only
// Calendar token provider backed by tokenPath.
func NewTokenFileAuth(credentialsPath, tokenPath string, log *logger.Logger) (*TokenFileAuth, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}
	return NewTokenFileAuthWithConfig(cfg, tokenPath, log), nil
}

// NewTokenFileAuthWithConfig is NewTokenFileAuth with an explicit OAuth config.
func NewTokenFileAuthWithConfig(cfg *oauth2.Config, tokenPath string, log *logger.Logger) *TokenFileAuth {
	if log == nil {
		log = logger.Discard()
	}
	return &TokenFileAuth{
		config:     cfg,
		tokenPath:  tokenPath,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     log,
	}
}

// WithPrompt enables the interactive grant on first use: the consent URL is
// written to out and the code (or the full redirect URL) is read from in.
func (a *TokenFileAuth) WithPrompt(in io.Reader, out io.Writer) *TokenFileAuth {
	a.in = in
	a.out = out
	return a
}

// Token returns a valid access token.
func (a *TokenFileAuth) Token() (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, a.httpClient)

	if a.current == nil {
		tok, err := a.load()
		if errors.Is(err, ErrNoToken) {
			tok, err = a.grant(ctx)
		}
		if err != nil {
			return nil, err
		}
		a.current = tok
	}

	if fresh(a.current) {
		return a.current, nil
	}

	if a.current.RefreshToken == "" {
		return nil, fmt.Errorf("token expired and no refresh token is available; delete %s and authorize again", a.tokenPath)
	}

	a.logger.Info("Refreshing calendar token", logger.Action("auth"), logger.Status("refreshing"))
	src := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: a.current.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = a.current.RefreshToken
	}
	a.current = tok
	if err := a.save(tok); err != nil {
		a.logger.Warn("Failed to cache refreshed token", logger.Error(err))
	}
	return tok, nil
}

func fresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return time.Until(tok.Expiry) > refreshEarly
}

func (a *TokenFileAuth) load() (*oauth2.Token, error) {
	f, err := os.Open(a.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file %s: %w", a.tokenPath, err)
	}
	return tok, nil
}

func (a *TokenFileAuth) save(tok *oauth2.Token) error {
	a.logger.Debug("Saving token", logger.F("PATH", a.tokenPath))
	f, err := os.OpenFile(a.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to cache oauth token: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return f.Close()
}

func (a *TokenFileAuth) grant(ctx context.Context) (*oauth2.Token, error) {
	if a.in == nil || a.out == nil {
		return nil, fmt.Errorf("%w at %s and interactive authorization is disabled", ErrNoToken, a.tokenPath)
	}

	authURL := a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	_, _ = fmt.Fprintf(a.out, "Go to the following link in your browser, then paste the authorization code or the redirect URL:\n%s\n> ", authURL)

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := extractCode(line)
	if code == "" {
		return nil, errMissingCode
	}

	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := a.save(tok); err != nil {
		a.logger.Warn("Failed to cache new token", logger.Error(err))
	}
	a.logger.Info("Calendar access authorized", logger.Action("auth"), logger.Status("granted"))
	return tok, nil
}

// extractCode accepts a bare code or a redirect URL carrying ?code=.
func extractCode(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		return u.Query().Get("code")
	}
	return input
}

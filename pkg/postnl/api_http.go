package postnl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://jouw.postnl.nl"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:68.0) Gecko/20100101 Firefox/68.0"
	apiVersion       = "4.18"

	loginPath     = "/identity/Account/Login"
	authorizePath = "/identity/connect/authorize"
	tokenPath     = "/identity/connect/token"
	inboxPath     = "/web/api/default/inbox"
	shipmentPath  = "/web/api/shipments/"

	oauthClientID    = "pwb-web"
	oauthAudience    = "poa-profiles-api"
	oauthScope       = "openid profile email poa-profiles-api pwb-web-api"
	oauthRedirectURI = "https://jouw.postnl.nl/silent-renew.html"
)

// The login page embeds an anti-forgery token and the URL of the
// bot-detection validation script.
var (
	verificationTokenRe = regexp.MustCompile(`__RequestVerificationToken.* value="([^"]*)"`)
	staticURLRe         = regexp.MustCompile(`src="(/static/[a-z0-9]+)"`)
)

// HTTPAPIClient is the production implementation of APIClient.
//
// The client keeps a cookie jar and never follows redirects: the login
// handshake reads OAuth codes and error markers out of Location headers.
type HTTPAPIClient struct {
	baseURL    string
	userAgent  string
	sensorData string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL    string
	UserAgent  string
	SensorData string // payload for the bot-detection validation call
	Timeout    time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	jar, _ := cookiejar.New(nil)

	return &HTTPAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		sensorData: cfg.SensorData,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Login performs the full browser-flow login handshake:
// scrape the login page, pass bot-detection validation, post the credential
// form, run the PKCE authorize redirect, and exchange the code for a token.
func (c *HTTPAPIClient) Login(ctx context.Context, username, password string) (*Token, error) {
	page, err := c.fetchLoginPage(ctx)
	if err != nil {
		return nil, err
	}

	verificationToken := firstMatch(verificationTokenRe, page)
	if verificationToken == "" {
		return nil, NewClientError("login", "NO_VERIFICATION_TOKEN",
			"login page did not contain a request verification token").
			WithCause(ErrNoVerificationToken)
	}

	staticURL := firstMatch(staticURLRe, page)
	if staticURL == "" {
		return nil, NewClientError("login", "NO_STATIC_URL",
			"login page did not contain a validation script url").
			WithCause(ErrNoStaticURL)
	}

	if err := c.validateSensorData(ctx, staticURL); err != nil {
		return nil, err
	}

	if err := c.submitCredentials(ctx, verificationToken, username, password); err != nil {
		return nil, err
	}

	code, verifier, err := c.authorize(ctx)
	if err != nil {
		return nil, err
	}

	return c.exchangeCode(ctx, code, verifier)
}

// Refresh exchanges the id token for a new access token. A rejected grant
// surfaces as ErrUnauthorized; the caller should fall back to Login.
func (c *HTTPAPIClient) Refresh(ctx context.Context, token *Token) (*Token, error) {
	form := url.Values{
		"grant_type": {"id_token"},
		"id_token":   {string(token.ID)},
	}

	resp, err := c.postForm(ctx, tokenPath, form)
	if err != nil {
		return nil, NewClientError("refresh", "NETWORK", "token refresh failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewClientError("refresh", "REFRESH_REJECTED",
			"provider rejected the refresh grant").
			WithStatusCode(resp.StatusCode).
			WithCause(ErrUnauthorized)
	}

	return decodeToken("refresh", resp.Body)
}

// GetInbox fetches the authenticated user's package inbox.
func (c *HTTPAPIClient) GetInbox(ctx context.Context, token AccessToken) (*InboxResponse, error) {
	resp, err := c.getAuthenticated(ctx, inboxPath, token)
	if err != nil {
		return nil, NewClientError("get_packages", "NETWORK", "inbox request failed").WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewClientError("get_packages", "UNAUTHORIZED",
			"session rejected by provider").
			WithStatusCode(resp.StatusCode).
			WithCause(ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, c.unexpectedStatus("get_packages", resp)
	}

	var inbox InboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&inbox); err != nil {
		return nil, NewClientError("get_packages", "DECODE",
			"inbox response did not match the expected schema").
			WithCause(fmt.Errorf("%w: %v", ErrDecode, err))
	}

	return &inbox, nil
}

// GetPackage fetches the detail record for a single package.
func (c *HTTPAPIClient) GetPackage(ctx context.Context, token AccessToken, key string) (*Package, error) {
	resp, err := c.getAuthenticated(ctx, shipmentPath+url.PathEscape(key), token)
	if err != nil {
		return nil, NewClientError("get_package", "NETWORK", "shipment request failed").WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewClientError("get_package", "UNAUTHORIZED",
			"session rejected by provider").
			WithStatusCode(resp.StatusCode).
			WithCause(ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewClientError("get_package", "NOT_FOUND",
			"no package with key "+key).
			WithStatusCode(resp.StatusCode).
			WithCause(ErrPackageNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, c.unexpectedStatus("get_package", resp)
	}

	var pkg Package
	if err := json.NewDecoder(resp.Body).Decode(&pkg); err != nil {
		return nil, NewClientError("get_package", "DECODE",
			"shipment response did not match the expected schema").
			WithCause(fmt.Errorf("%w: %v", ErrDecode, err))
	}

	return &pkg, nil
}

// ============================================================================
// Login handshake steps
// ============================================================================

func (c *HTTPAPIClient) fetchLoginPage(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, loginPath, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", NewClientError("login", "NETWORK", "login page request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewClientError("login", "NETWORK", "reading login page failed").WithCause(err)
	}

	return string(body), nil
}

// validateSensorData posts the bot-detection payload to the scraped script URL.
func (c *HTTPAPIClient) validateSensorData(ctx context.Context, staticURL string) error {
	payload := fmt.Sprintf(`{"sensor_data":"'%s'%s"}`, hexRandom(22), c.sensorData)

	req, err := c.newRequest(ctx, http.MethodPost, staticURL, strings.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewClientError("login", "NETWORK", "validation request failed").WithCause(err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool    `json:"success"`
		Error   *string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return NewClientError("login", "VALIDATE",
			"validation response did not match the expected shape").
			WithCause(ErrUnexpectedResponse)
	}

	if !result.Success {
		msg := "no error provided"
		if result.Error != nil {
			msg = *result.Error
		}
		return NewClientError("login", "VALIDATE", "login validation failed: "+msg).
			WithCause(ErrUnexpectedResponse)
	}

	return nil
}

func (c *HTTPAPIClient) submitCredentials(ctx context.Context, verificationToken, username, password string) error {
	form := url.Values{
		"__RequestVerificationToken": {verificationToken},
		"ReturnUrl":                  {""},
		"Username":                   {username},
		"Password":                   {password},
	}

	resp, err := c.postForm(ctx, loginPath, form)
	if err != nil {
		return NewClientError("login", "NETWORK", "credential submission failed").WithCause(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if location := resp.Header.Get("Location"); location != "" {
		if u, err := url.Parse(location); err == nil {
			if u.Query().Get("botdetected") == "true" {
				return NewClientError("login", "BLOCKED",
					"login blocked by bot detection, try again later").
					WithCause(ErrBlocked)
			}
		}
		return nil
	}

	// No redirect means the login page was re-rendered with the form errors.
	return NewClientError("login", "INVALID_CREDENTIALS",
		"provider rejected username/password").
		WithStatusCode(resp.StatusCode).
		WithCause(ErrInvalidCredentials)
}

// authorize runs the OAuth authorize request with a fresh PKCE pair and
// returns the authorization code together with the code verifier.
func (c *HTTPAPIClient) authorize(ctx context.Context) (code, verifier string, err error) {
	verifier = hexRandom(64)
	sum := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(sum[:])

	query := url.Values{
		"client_id":             {oauthClientID},
		"audience":              {oauthAudience},
		"scope":                 {oauthScope},
		"response_type":         {"code"},
		"code_challenge_method": {"S256"},
		"code_challenge":        {challenge},
		"prompt":                {"none"},
		"state":                 {hexRandom(64)},
		"redirect_uri":          {oauthRedirectURI},
		"ui_locales":            {"nl_NL"},
	}

	req, err := c.newRequest(ctx, http.MethodGet, authorizePath+"?"+query.Encode(), nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", NewClientError("login", "NETWORK", "authorize request failed").WithCause(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if location == "" {
		return "", "", NewClientError("login", "AUTHORIZE",
			"no redirect provided by authorize endpoint").
			WithCause(ErrUnexpectedResponse)
	}

	u, parseErr := url.Parse(location)
	if parseErr != nil {
		return "", "", NewClientError("login", "AUTHORIZE", "invalid redirect provided").
			WithCause(ErrUnexpectedResponse)
	}

	params := redirectParams(u)
	if authErr := params.Get("error"); authErr != "" {
		if authErr == "login_required" || authErr == "access_denied" {
			return "", "", NewClientError("login", "INVALID_CREDENTIALS",
				"authorize rejected the session: "+authErr).
				WithCause(ErrInvalidCredentials)
		}
		return "", "", NewClientError("login", "AUTHORIZE",
			"authorize failed: "+authErr).
			WithCause(ErrUnexpectedResponse)
	}

	code = params.Get("code")
	if code == "" {
		return "", "", NewClientError("login", "AUTHORIZE", "no code provided").
			WithCause(ErrUnexpectedResponse)
	}

	return code, verifier, nil
}

func (c *HTTPAPIClient) exchangeCode(ctx context.Context, code, verifier string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {oauthClientID},
		"code":          {code},
		"code_verifier": {verifier},
		"redirect_uri":  {oauthRedirectURI},
	}

	resp, err := c.postForm(ctx, tokenPath, form)
	if err != nil {
		return nil, NewClientError("login", "NETWORK", "token request failed").WithCause(err)
	}
	defer resp.Body.Close()

	return decodeToken("login", resp.Body)
}

func decodeToken(op string, body io.Reader) (*Token, error) {
	var raw rawToken
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, NewClientError(op, "DECODE",
			"token response did not match the expected shape").
			WithCause(ErrUnexpectedResponse)
	}

	if raw.Error != "" {
		if raw.Error == "invalid_grant" {
			return nil, NewClientError(op, "INVALID_CREDENTIALS",
				"token endpoint rejected the grant").
				WithCause(ErrInvalidCredentials)
		}
		return nil, NewClientError(op, "TOKEN", "failed to get token: "+raw.Error).
			WithCause(ErrUnexpectedResponse)
	}

	if raw.AccessToken == "" {
		return nil, NewClientError(op, "TOKEN", "token response contained no access token").
			WithCause(ErrUnexpectedResponse)
	}

	return raw.toToken(), nil
}

// ============================================================================
// HTTP helpers
// ============================================================================

func (c *HTTPAPIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, NewClientError("request", "REQUEST", "failed to create request").WithCause(err)
	}

	req.Header.Set("Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *HTTPAPIClient) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.httpClient.Do(req)
}

func (c *HTTPAPIClient) getAuthenticated(ctx context.Context, path string, token AccessToken) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+string(token))
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func (c *HTTPAPIClient) unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return NewClientError(op, fmt.Sprintf("HTTP_%d", resp.StatusCode), strings.TrimSpace(string(body))).
		WithStatusCode(resp.StatusCode)
}

// redirectParams merges query and fragment parameters of a redirect URL;
// the authorize endpoint uses fragment responses for some clients.
func redirectParams(u *url.URL) url.Values {
	params := u.Query()
	if u.Fragment != "" {
		if fragment, err := url.ParseQuery(u.Fragment); err == nil {
			for k, vs := range fragment {
				for _, v := range vs {
					params.Add(k, v)
				}
			}
		}
	}
	return params
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// hexRandom returns a random lowercase hex string of the given length.
func hexRandom(length int) string {
	buf := make([]byte, (length+1)/2)
	rand.Read(buf)
	return hex.EncodeToString(buf)[:length]
}

var _ APIClient = (*HTTPAPIClient)(nil)

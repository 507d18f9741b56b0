package maiosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"
	"golang.org/x/net/context/ctxhttp"
)

// SDKVersion is the maio SDK release the bridge speaks for.
const SDKVersion = "1.6.3"

const requestIDHeader = "X-Request-Id"

// Client is an SDK implementation that forwards start and token calls to a host-operated bridge
// endpoint over HTTP:
//
//	POST {endpoint}/init            {"mediaId":"...","testMode":false}  -> {"ok":true} or {"ok":false,"error":"..."}
//	GET  {endpoint}/token?mediaId=  -> {"token":"..."}
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
}

// NewClient builds a Client. A zero timeout leaves the calls bounded only by httpClient.
func NewClient(httpClient *http.Client, endpoint string, timeout time.Duration) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		timeout:    timeout,
	}
}

func (c *Client) Version() string {
	return SDKVersion
}

func (c *Client) Start(mediaID string, testMode bool, done func(error)) {
	go func() {
		ctx, cancel := c.context()
		defer cancel()
		done(c.start(ctx, mediaID, testMode))
	}()
}

func (c *Client) FetchBiddingToken(mediaID string, done func(token string, err error)) {
	go func() {
		ctx, cancel := c.context()
		defer cancel()
		done(c.fetchToken(ctx, mediaID))
	}()
}

func (c *Client) context() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(context.Background(), c.timeout)
	}
	return context.WithCancel(context.Background())
}

type startRequest struct {
	MediaID  string `json:"mediaId"`
	TestMode bool   `json:"testMode"`
}

func (c *Client) start(ctx context.Context, mediaID string, testMode bool) error {
	reqJSON, err := json.Marshal(startRequest{MediaID: mediaID, TestMode: testMode})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.endpoint+"/init", bytes.NewReader(reqJSON))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")

	respBody, err := c.do(ctx, httpReq)
	if err != nil {
		return err
	}

	ok, err := jsonparser.GetBoolean(respBody, "ok")
	if err != nil {
		return fmt.Errorf("malformed init response: %v", err)
	}
	if !ok {
		reason, _ := jsonparser.GetString(respBody, "error")
		return fmt.Errorf("init rejected: %s", reason)
	}
	return nil
}

func (c *Client) fetchToken(ctx context.Context, mediaID string) (string, error) {
	httpReq, err := http.NewRequest(http.MethodGet, c.endpoint+"/token?mediaId="+url.QueryEscape(mediaID), nil)
	if err != nil {
		return "", err
	}

	respBody, err := c.do(ctx, httpReq)
	if err != nil {
		return "", err
	}

	token, err := jsonparser.GetString(respBody, "token")
	if err != nil {
		return "", fmt.Errorf("malformed token response: %v", err)
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, httpReq *http.Request) ([]byte, error) {
	if id, err := uuid.NewV4(); err == nil {
		httpReq.Header.Set(requestIDHeader, id.String())
	}

	httpResp, err := ctxhttp.Do(ctx, c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d. Body: %s", httpResp.StatusCode, string(respBody))
	}
	return respBody, nil
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bascanada/fhirquery/pkg/log"
	"github.com/bascanada/fhirquery/pkg/ty"
)

// Auth injects credentials into an outgoing request.
type Auth interface {
	Login(req *http.Request) error
}

type CookieAuth struct {
	Cookie string
}

func (c CookieAuth) Login(req *http.Request) error {
	req.Header.Set("Cookie", c.Cookie)
	return nil
}

// HeaderAuth sets fixed headers (like Authorization) on each request.
type HeaderAuth struct {
	Headers ty.MS
}

func (h HeaderAuth) Login(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

// Client is a small JSON HTTP client bound to a base URL.
type Client struct {
	client http.Client
	url    string
}

// Debug controls whether verbose HTTP-level debug logs are emitted. Tests and
// production code can toggle this to avoid leaking secrets into logs.
var Debug = false

// SetDebug sets the package debug flag.
func SetDebug(d bool) {
	Debug = d
}

// Get issues a GET against path, decoding the JSON response into
// responseData.
func (c Client) Get(ctx context.Context, path string, queryParams ty.MS, responseData interface{}, auth Auth) error {
	path = c.url + path

	q := url.Values{}
	for k, v := range queryParams {
		q.Add(k, v)
	}
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	if auth != nil {
		if err = auth.Login(req); err != nil {
			return err
		}
	}

	if Debug {
		log.Debug("[GET] %s headers=%s", path, maskHeaderMap(req.Header))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	if res.Body != nil {
		defer res.Body.Close()
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if Debug && len(resBody) > 0 {
		s := string(resBody)
		if len(s) > 2000 {
			s = s[:2000] + "...TRUNCATED"
		}
		log.Debug("[GET-RAW] %s", s)
	}

	if res.StatusCode >= 400 {
		return fmt.Errorf("GET %s: status %d: %s", path, res.StatusCode, string(resBody))
	}

	return json.Unmarshal(resBody, &responseData)
}

// GetClient builds a Client for the base URL. A missing scheme defaults
// to https and trailing slashes are stripped to avoid double slashes
// when appending paths.
func GetClient(url string) Client {
	if url != "" {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			url = "https://" + url
		}
		for strings.HasSuffix(url, "/") {
			url = strings.TrimSuffix(url, "/")
		}
	}

	return Client{
		client: http.Client{},
		url:    url,
	}
}

// maskHeaderMap returns a string representation of headers with sensitive
// values redacted (keeps first 4 chars for debugging). This avoids leaking
// secrets into logs while letting us verify headers are present.
func maskHeaderMap(h http.Header) string {
	redacted := []string{}
	for k, vals := range h {
		v := ""
		if len(vals) > 0 {
			val := vals[0]
			switch strings.ToLower(k) {
			case "authorization", "cookie", "x-auth-token", "x-api-key":
				if len(val) > 4 {
					v = val[:4] + "...REDACTED"
				} else {
					v = "REDACTED"
				}
			default:
				v = val
			}
		}
		redacted = append(redacted, fmt.Sprintf("%s: %s", k, v))
	}
	return strings.Join(redacted, "; ")
}

package telegram

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	// apiTimeoutSlack is added to the long poll timeout so getUpdates
	// is never cut off by the client.
	apiTimeoutSlack = 20 * time.Second
	apiRetries      = 3
	apiBackoff      = 2 * time.Second
	// maxRetryAfter bounds how long a 429 reply may hold an update.
	maxRetryAfter = 5 * time.Second
)

// BuildHTTPClient returns the client telebot uses for Bot API calls. Requests
// that failed on the network, or were answered with 429 or a gateway error,
// are replayed with growing delays when their body can be rewound.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = 30 * time.Second
	transport.TLSHandshakeTimeout = 5 * time.Second

	return &http.Client{
		Timeout:   pollTimeout + apiTimeoutSlack,
		Transport: &retryTransport{next: transport, retries: apiRetries, backoff: apiBackoff},
	}
}

type retryTransport struct {
	next    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := t.next.RoundTrip(req)
		wait, retry := retryDelay(resp, err, t.backoff*time.Duration(attempt+1))
		if !retry || attempt >= t.retries {
			return resp, err
		}
		next, rewindErr := rewind(req)
		if rewindErr != nil {
			return resp, err
		}
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		if err := sleep(req, wait); err != nil {
			return nil, err
		}
		req = next
	}
}

// retryDelay decides whether a round trip is worth repeating and how long to
// wait before doing so.
func retryDelay(resp *http.Response, err error, backoff time.Duration) (time.Duration, bool) {
	if err != nil {
		return backoff, transientNetError(err)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		secs, convErr := strconv.Atoi(resp.Header.Get("Retry-After"))
		if convErr != nil || secs < 0 {
			return backoff, true
		}
		if wait := time.Duration(secs) * time.Second; wait <= maxRetryAfter {
			return wait, true
		}
		return 0, false
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return backoff, true
	}
	return 0, false
}

// transientNetError matches timeouts and refused or reset dials. Context
// cancellation is final.
func transientNetError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// rewind prepares req to be sent again. Requests without GetBody, such as
// streamed voice uploads, can only be sent once.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func sleep(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

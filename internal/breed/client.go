package breed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/DanmmGuide/server/internal/apperr"
)

const fetchPageSize = 50

// RawBreed mirrors the upstream breed API record; every field may be absent.
type RawBreed struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Temperament string `json:"temperament"`
	BredFor     string `json:"bred_for"`
	BreedGroup  string `json:"breed_group"`
	LifeSpan    string `json:"life_span"`
	Origin      string `json:"origin"`
	Weight      struct {
		Metric string `json:"metric"`
	} `json:"weight"`
	Height struct {
		Metric string `json:"metric"`
	} `json:"height"`
	Image struct {
		URL string `json:"url"`
	} `json:"image"`
}

// UpstreamError carries the error code the API surfaces for a failed
// upstream call. None of these are retried.
type UpstreamError struct {
	Code   string
	Status int
	Msg    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Msg, e.Status)
}

// Client talks to the external breed API. It owns its resty client and a
// short timeout so a hung upstream fails closed.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("x-api-key", apiKey).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "DanmmGuide-Server/1.0")
	return &Client{http: httpClient}
}

// FetchAll pages through /breeds until the upstream returns an empty page and
// concatenates the results.
func (c *Client) FetchAll() ([]RawBreed, error) {
	var all []RawBreed
	for page := 0; ; page++ {
		resp, err := c.http.R().
			SetQueryParams(map[string]string{
				"limit": strconv.Itoa(fetchPageSize),
				"page":  strconv.Itoa(page),
			}).
			Get("/breeds")
		if err != nil {
			return nil, &UpstreamError{Code: apperr.UpstreamError, Status: 0, Msg: err.Error()}
		}

		switch {
		case resp.StatusCode() == http.StatusUnauthorized:
			return nil, &UpstreamError{Code: apperr.UpstreamUnauthorized, Status: resp.StatusCode(), Msg: "breed API key missing or invalid"}
		case resp.StatusCode() >= http.StatusInternalServerError:
			return nil, &UpstreamError{Code: apperr.UpstreamError, Status: resp.StatusCode(), Msg: "breed API server error"}
		case resp.StatusCode() != http.StatusOK:
			return nil, &UpstreamError{Code: apperr.UpstreamBadResponse, Status: resp.StatusCode(), Msg: "unexpected breed API response"}
		}

		var items []RawBreed
		if err := json.Unmarshal(resp.Body(), &items); err != nil {
			return nil, &UpstreamError{Code: apperr.UpstreamParseFailed, Status: resp.StatusCode(), Msg: fmt.Sprintf("decode breed API response: %v", err)}
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
	}
	return all, nil
}

package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	circuit "github.com/rubyist/circuitbreaker"
	"go.uber.org/zap"

	"stay-booking/logger"
)

var (
	ErrGeocoderDisabled = errors.New("geocoder has no api key")
	ErrNoCity           = errors.New("no city found for coordinates")
)

type openCageResponse struct {
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Results []struct {
		Components struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
		} `json:"components"`
	} `json:"results"`
}

// OpenCage reverse-geocodes coordinates through the OpenCage API behind a threshold circuit breaker.
type OpenCage struct {
	apiKey  string
	baseURL string
	http    *circuit.HTTPClient
}

func NewOpenCage(apiKey, baseURL string, timeout time.Duration, threshold int64) *OpenCage {
	client := circuit.NewHTTPClient(timeout, threshold, &http.Client{Timeout: timeout})
	client.BreakerTripped = func() {
		logger.L().Warn("geocoder circuit breaker tripped")
	}
	client.BreakerReset = func() {
		logger.L().Info("geocoder circuit breaker reset")
	}
	return &OpenCage{apiKey: apiKey, baseURL: baseURL, http: client}
}

func (g *OpenCage) ReverseCity(ctx context.Context, lat, lon float64) (string, error) {
	if g.apiKey == "" {
		return "", ErrGeocoderDisabled
	}

	q := url.Values{}
	q.Set("q", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("key", g.apiKey)
	q.Set("no_annotations", "1")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("opencage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.L().Warn("opencage returned non-200", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("opencage status %d", resp.StatusCode)
	}

	var body openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("opencage decode: %w", err)
	}
	if len(body.Results) == 0 {
		return "", ErrNoCity
	}
	c := body.Results[0].Components
	switch {
	case c.City != "":
		return c.City, nil
	case c.Town != "":
		return c.Town, nil
	case c.Village != "":
		return c.Village, nil
	}
	return "", ErrNoCity
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/mia-platform/smhi/internal/info"
	"github.com/mia-platform/smhi/internal/logger"
)

const (
	loggerName = "smhi.client"

	// TemperatureParameter is the daily mean air temperature.
	TemperatureParameter = "2"

	resourceSuffix            = ".json"
	statusCodeErrorRangeStart = 400
)

// Client reads data from the SMHI Open Data API.
type Client struct {
	config Config
	log    logger.Logger

	limiter *rate.Limiter
	client  atomic.Pointer[http.Client]
}

// NewClient reads the configuration from the environment and takes the logger from ctx.
func NewClient(ctx context.Context) (*Client, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return NewClientWithConfig(*config, logger.FromContext(ctx)), nil
}

// NewClientWithConfig returns a client for an already validated configuration.
func NewClientWithConfig(config Config, log logger.Logger) *Client {
	return &Client{
		config:  config,
		log:     log.WithName(loggerName),
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), max(config.Concurrency, 1)),
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// CheckConnection requests the API root and returns its status code.
func (c *Client) CheckConnection(ctx context.Context) (int, error) {
	resp, err := c.get(ctx, "")
	if err != nil {
		return 0, handleError(err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// Parameters returns the parameters of the API version sorted by their numeric key.
func (c *Client) Parameters(ctx context.Context) ([]Parameter, error) {
	var response parametersResponse
	if err := c.getJSON(ctx, c.versionPath(), &response); err != nil {
		return nil, err
	}

	parameters := response.Resource
	slices.SortStableFunc(parameters, func(a, b Parameter) int {
		return compareKeys(a.Key, b.Key)
	})
	return parameters, nil
}

// Stations returns the stations measuring parameter.
func (c *Client) Stations(ctx context.Context, parameter string) ([]Station, error) {
	var response stationsResponse
	if err := c.getJSON(ctx, c.versionPath()+"/parameter/"+parameter, &response); err != nil {
		return nil, err
	}
	return response.Station, nil
}

// StationTemperature returns the latest temperature of station. It returns nil without
// error when the station has no data for the latest day or the value is not a number.
func (c *Client) StationTemperature(ctx context.Context, station Station) (*StationTemp, error) {
	path := c.versionPath() + "/parameter/" + TemperatureParameter + "/station/" + station.Key + "/period/latest-day/data"
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, handleError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("station data not available", "url", resp.Request.URL.String(), "statusCode", resp.StatusCode)
		return nil, nil
	}

	var response stationDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, handleError(fmt.Errorf("station %s: %w", station.Key, err))
	}

	value, ok := response.temperature()
	if !ok {
		c.log.Warn("can't get temperature for station", "station", response.Station.Name)
		return nil, nil
	}

	temp := &StationTemp{
		Key:  response.Station.Key,
		Name: response.Station.Name,
		Temp: Temperature(value),
	}
	c.log.Info("station", "key", temp.Key, "name", temp.Name, "temperature", value)
	return temp, nil
}

func (c *Client) versionPath() string {
	return "/version/" + c.config.APIVersion
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path+resourceSuffix, nil)
	if err != nil {
		return nil, err
	}

	request.Header.Set("User-Agent", userAgentString())
	request.Header.Set("Accept", "application/json")

	return c.getClient().Do(request)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return handleError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return handleError(errNotFound)
	case resp.StatusCode >= statusCodeErrorRangeStart:
		return handleError(fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return handleError(err)
	}
	return nil
}

// userAgentString builds the User-Agent header sent to the API.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}

func (c *Client) getClient() *http.Client {
	client := c.client.Load()
	if client != nil {
		return client
	}

	client = &http.Client{
		Timeout:   c.config.RequestTimeout,
		Transport: logger.NewTransport(http.DefaultTransport, c.log),
	}
	c.client.Store(client)
	return client
}

// compareKeys orders numeric keys by value before any non numeric key.
func compareKeys(a, b string) int {
	numberA, errA := strconv.Atoi(a)
	numberB, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(numberA, numberB)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

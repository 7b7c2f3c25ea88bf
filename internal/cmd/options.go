// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mia-platform/smhi/internal/logger"
	"github.com/mia-platform/smhi/internal/output"
)

const (
	loggerName = "smhi.cmd"
)

// options configures the data commands.
type options struct {
	parameter    string
	writer       output.Writer
	clientGetter func(context.Context) (apiClient, error)
	now          func() time.Time

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if _, err := strconv.Atoi(o.parameter); err != nil {
		return fmtInvalidArguments(fmt.Errorf("parameter %q is not a number", o.parameter))
	}

	return nil
}

// executeParameters prints the API parameters.
func (o *options) executeParameters(ctx context.Context) error {
	return o.execute(ctx, func(client apiClient) (any, error) {
		return client.Parameters(ctx)
	})
}

// executeStations prints the stations of the configured parameter.
func (o *options) executeStations(ctx context.Context) error {
	return o.execute(ctx, func(client apiClient) (any, error) {
		return client.Stations(ctx, o.parameter)
	})
}

// executeTemperatures prints the highest and the lowest temperatures.
func (o *options) executeTemperatures(ctx context.Context) error {
	return o.execute(ctx, func(client apiClient) (any, error) {
		extremes, err := client.Temperatures(ctx, o.now())
		if extremes == nil {
			return nil, err
		}
		return extremes, err
	})
}

// executeStatus prints the status code of the API root and fails for error codes.
func (o *options) executeStatus(ctx context.Context) error {
	var statusCode int
	err := o.execute(ctx, func(client apiClient) (any, error) {
		code, err := client.CheckConnection(ctx)
		if err != nil || code == 0 {
			return nil, err
		}

		statusCode = code
		return output.Status{URL: client.BaseURL() + ".json", StatusCode: code}, nil
	})
	if err != nil {
		return err
	}

	if statusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %d", errUnreachableServer, statusCode)
	}
	return nil
}

// execute runs fetch with a new client and writes its result; a nil result writes nothing.
func (o *options) execute(ctx context.Context, fetch func(apiClient) (any, error)) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	log := logger.FromContext(ctx).WithName(loggerName)
	client, err := o.clientGetter(ctx)
	if err != nil {
		return err
	}

	log.Debug("requesting data", "baseUrl", client.BaseURL())
	result, err := fetch(client)
	if err != nil {
		return err
	}
	if result == nil {
		log.Debug("request canceled before completion")
		return nil
	}

	return o.writer.Write(result)
}

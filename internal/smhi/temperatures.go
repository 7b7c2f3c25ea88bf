// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package smhi

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Temperatures scans the stations of the temperature parameter updated within the
// configured max age and returns the highest and the lowest temperature.
// Stations are visited in key order, so ties keep the station with the smallest key.
func (c *Client) Temperatures(ctx context.Context, now time.Time) (*Extremes, error) {
	stations, err := c.Stations(ctx, TemperatureParameter)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(stations, func(a, b Station) int {
		return strings.Compare(a.Key, b.Key)
	})

	extremes := newExtremes()
	active := make([]Station, 0, len(stations))
	for _, station := range stations {
		age := now.Sub(station.UpdatedAt())
		if age > c.config.MaxStationAge {
			c.log.Debug("station ignored as it's not being updated", "station", station.Name, "days", int(age.Hours()/24))
			extremes.Skipped++
			continue
		}
		active = append(active, station)
	}

	results := make([]*StationTemp, len(active))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.config.Concurrency)
	for index, station := range active {
		group.Go(func() error {
			if err := c.limiter.Wait(groupCtx); err != nil {
				return err
			}

			temp, err := c.StationTemperature(groupCtx, station)
			if err != nil {
				return err
			}
			results[index] = temp
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, handleError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, handleError(err)
	}

	for _, temp := range results {
		if temp != nil {
			extremes.add(*temp)
		}
	}
	return extremes, nil
}

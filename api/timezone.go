package api

import (
	"context"
	"net/url"
)

// GetTimeZones returns the time zones of a country, served from the cache
// when one is configured.
func (c *Client) GetTimeZones(ctx context.Context, country string) ([]TimeZone, error) {
	if c.timeZones != nil {
		if cached, ok := c.timeZones.Get(country); ok {
			return cached, nil
		}
	}
	var ret []TimeZone
	if err := c.getJSON(ctx, "/api/user/v1/preferences/time_zones/?country_code="+url.QueryEscape(country), &ret); err != nil {
		return nil, err
	}
	if c.timeZones != nil {
		c.timeZones.SetWithTTL(country, ret, 1, c.timeZonesTTL)
		c.timeZones.Wait()
	}
	return ret, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feeds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/zonedash/internal/cache"
	"github.com/jeranaias/zonedash/internal/datasource"
)

// Cache blob names.
const (
	LocationBlob = "zonedash-location"
	SunBlob      = "zonedash-sunrise"
	CovidPrefix  = "zonedash-covid-"
)

// Cache thresholds in minutes.
const (
	SunMinAge   = 60
	SunMaxAge   = 1440
	CovidMaxAge = 60
)

// Default endpoints.
const (
	DefaultSunURL   = "https://api.sunrise-sunset.org/json"
	DefaultCovidURL = "https://services9.arcgis.com/pJENMVYPQqZZe20v/arcgis/rest/services/Health_Regional_Archive_(Public_View)/FeatureServer/0/query"
)

// ErrNoZone is returned when the requested zone is not in the data.
var ErrNoZone = errors.New("zone not found in covid data")

// Config holds the fixed inputs of the setup steps.
type Config struct {
	// Latitude and Longitude stand in for a device location fix. Both zero
	// means no fix is available.
	Latitude  float64
	Longitude float64
	Locality  string

	SunURL   string
	CovidURL string
}

// Set memoizes feed data for one render. It is not safe for concurrent use;
// items run one at a time.
type Set struct {
	cache  *cache.Bounded
	source datasource.DataSource
	cfg    Config
	now    time.Time
	logger *log.Logger

	location *Location
	sun      *Sun
	covid    map[string]*Covid
}

// New returns a feed set. now is the render time used for sun lookups.
func New(c *cache.Bounded, src datasource.DataSource, cfg Config, now time.Time, logger *log.Logger) *Set {
	if cfg.SunURL == "" {
		cfg.SunURL = DefaultSunURL
	}
	if cfg.CovidURL == "" {
		cfg.CovidURL = DefaultCovidURL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Set{
		cache:  c,
		source: src,
		cfg:    cfg,
		now:    now,
		logger: logger,
		covid:  make(map[string]*Covid),
	}
}

// =============================================================================
// LOCATION
// =============================================================================

// Location is a coordinate fix with a display name.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Locality  string  `json:"locality,omitempty"`
}

// Valid reports whether the fix has coordinates.
func (l *Location) Valid() bool {
	return l != nil && (l.Latitude != 0 || l.Longitude != 0)
}

// Location returns the current location. updateMinutes is the soft cache
// age: 0 refreshes every time, -1 never refreshes a cached fix. It
// reports false when no coordinates are known.
func (s *Set) Location(updateMinutes int) (*Location, bool) {
	if s.location != nil {
		return s.location, s.location.Valid()
	}

	var cached *Location
	entry := s.cache.Get(LocationBlob, updateMinutes, cache.NoLimit)
	if entry != nil {
		var loc Location
		if err := entry.Decode(&loc); err == nil {
			cached = &loc
		}
	}

	loc := cached
	if entry == nil || entry.Expired || cached == nil {
		fix := &Location{Latitude: s.cfg.Latitude, Longitude: s.cfg.Longitude, Locality: s.cfg.Locality}
		if fix.Valid() {
			if fix.Locality == "" && cached != nil {
				fix.Locality = cached.Locality
			}
			loc = fix
			if err := s.cache.Put(LocationBlob, fix); err != nil {
				s.logger.Printf("feeds: write location: %v", err)
			}
		}
	}

	if loc == nil {
		loc = &Location{}
	}
	s.location = loc
	return loc, loc.Valid()
}

// =============================================================================
// SUN
// =============================================================================

// Sun holds sunrise and sunset times. Zero times are unknown.
type Sun struct {
	Sunrise  time.Time
	Sunset   time.Time
	Tomorrow time.Time
}

type sunResponse struct {
	Status  string `json:"status"`
	Results struct {
		Sunrise  string `json:"sunrise"`
		Sunset   string `json:"sunset"`
		Tomorrow string `json:"tomorrow,omitempty"`
	} `json:"results"`
}

func (r *sunResponse) empty() bool {
	return r == nil || r.Results.Sunrise == "" || r.Results.Sunset == ""
}

// Sun returns sun times for the render date, refreshing the cache when it
// is missing or older than an hour.
func (s *Set) Sun(ctx context.Context, updateLocationMinutes int) *Sun {
	if s.sun != nil {
		return s.sun
	}

	var data *sunResponse
	entry := s.cache.Get(SunBlob, SunMinAge, SunMaxAge)
	if entry != nil {
		var cached sunResponse
		if err := entry.Decode(&cached); err == nil {
			data = &cached
		}
	}

	if entry == nil || entry.Expired || data.empty() {
		if fresh, err := s.fetchSun(ctx, updateLocationMinutes); err != nil {
			s.logger.Printf("feeds: sunrise: %v", err)
		} else {
			data = fresh
			if err := s.cache.Put(SunBlob, fresh); err != nil {
				s.logger.Printf("feeds: write sunrise: %v", err)
			}
		}
	}

	sun := &Sun{}
	if data != nil {
		sun.Sunrise = parseTime(data.Results.Sunrise)
		sun.Sunset = parseTime(data.Results.Sunset)
		sun.Tomorrow = parseTime(data.Results.Tomorrow)
	}
	s.sun = sun
	return sun
}

func (s *Set) fetchSun(ctx context.Context, updateLocationMinutes int) (*sunResponse, error) {
	loc, ok := s.Location(updateLocationMinutes)
	if !ok {
		return nil, errors.New("no location available")
	}

	var today, tomorrow sunResponse
	if err := s.source.FetchJSON(ctx, s.sunURL(loc, s.now), &today); err != nil {
		return nil, err
	}
	if err := s.source.FetchJSON(ctx, s.sunURL(loc, s.now.AddDate(0, 0, 1)), &tomorrow); err != nil {
		return nil, err
	}
	if today.empty() {
		return nil, fmt.Errorf("sunrise response has no results (status %q)", today.Status)
	}
	today.Results.Tomorrow = tomorrow.Results.Sunrise
	return &today, nil
}

func (s *Set) sunURL(loc *Location, day time.Time) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("formatted", "0")
	q.Set("date", fmt.Sprintf("%d-%d-%d", day.Year(), int(day.Month()), day.Day()))
	return s.cfg.SunURL + "?" + q.Encode()
}

// IsNight reports whether t is before sunrise or after sunset. Unknown sun
// times count as day.
func (s *Sun) IsNight(t time.Time) bool {
	if s == nil || s.Sunrise.IsZero() || s.Sunset.IsZero() {
		return false
	}
	return t.Before(s.Sunrise) || t.After(s.Sunset)
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// COVID
// =============================================================================

// Covid is a health-region query result.
type Covid struct {
	Features []Feature `json:"features"`
}

// Feature is one health region.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
}

// Zone returns the feature at the zone index given as text.
func (c *Covid) Zone(zone string) (*Feature, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(zone))
	if c == nil || err != nil || idx < 0 || idx >= len(c.Features) {
		return nil, fmt.Errorf("%w: %q", ErrNoZone, zone)
	}
	return &c.Features[idx], nil
}

// Number returns a numeric attribute.
func (f *Feature) Number(name string) (float64, bool) {
	switch v := f.Attributes[name].(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

// String returns a text attribute, formatting numbers plainly.
func (f *Feature) String(name string) string {
	switch v := f.Attributes[name].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Time returns an epoch-milliseconds attribute as a time.
func (f *Feature) Time(name string) (time.Time, bool) {
	ms, ok := f.Number(name)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// CovidBlob returns the cache blob name for a province.
func CovidBlob(province string) string {
	return CovidPrefix + strings.ToUpper(strings.TrimSpace(province))
}

// Covid returns the health regions of a province. A cached copy younger
// than an hour is used as-is; otherwise the data is fetched. An empty
// result is returned when neither is available.
func (s *Set) Covid(ctx context.Context, province string) *Covid {
	province = strings.TrimSpace(province)
	if c, ok := s.covid[province]; ok {
		return c
	}

	data := &Covid{}
	if entry := s.cache.Get(CovidBlob(province), cache.NeverExpire, CovidMaxAge); entry != nil {
		if err := entry.Decode(data); err != nil {
			data = &Covid{}
		}
	}

	if len(data.Features) == 0 {
		var fresh Covid
		if err := s.source.FetchJSON(ctx, s.covidURL(province), &fresh); err != nil {
			s.logger.Printf("feeds: covid %s: %v", province, err)
		} else {
			data = &fresh
			if err := s.cache.Put(CovidBlob(province), fresh); err != nil {
				s.logger.Printf("feeds: write covid: %v", err)
			}
		}
	}

	s.covid[province] = data
	return data
}

func (s *Set) covidURL(province string) string {
	q := url.Values{}
	q.Set("where", "Province = '"+strings.ReplaceAll(province, "'", "''")+"'")
	q.Set("outFields", "*")
	q.Set("returnGeometry", "false")
	q.Set("outSR", "4326")
	q.Set("f", "json")
	return s.cfg.CovidURL + "?" + q.Encode()
}

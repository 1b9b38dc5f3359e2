// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cache_cmd.go - The cache command: feed cache state and clearing.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/zonedash/internal/cache"
	"github.com/jeranaias/zonedash/internal/feeds"
)

const cacheUsage = "zonedash cache [show|clear]"

// cachedFeed is a cache blob with the thresholds its feed reads it with.
type cachedFeed struct {
	name   string
	minAge int
	maxAge int
}

// cachedFeeds lists the location, sunrise and per-province covid blobs.
func cachedFeeds(app *App) ([]cachedFeed, error) {
	resolved, err := app.settingsStore().Resolve(app.schema(), false)
	if err != nil {
		return nil, err
	}
	list := []cachedFeed{
		{feeds.LocationBlob, resolved.Int("widget", "updateLocation", 60), cache.NoLimit},
		{feeds.SunBlob, feeds.SunMinAge, feeds.SunMaxAge},
	}
	covid, err := app.Storage.List(feeds.CovidPrefix)
	if err != nil {
		return nil, err
	}
	for _, name := range covid {
		list = append(list, cachedFeed{name, cache.NeverExpire, feeds.CovidMaxAge})
	}
	return list, nil
}

func (a *App) cache() *cache.Bounded {
	if a.Cache != nil {
		return a.Cache
	}
	return cache.New(a.Storage, cache.WithClock(a.now))
}

// HandleCache handles "zonedash cache".
func HandleCache(_ context.Context, app *App) error {
	parser := NewArgParser(app.Args.Raw)
	switch parser.Subcommand() {
	case "", "show", "stats":
		return cacheShow(app)
	case "clear":
		return cacheClear(app)
	default:
		return ErrUnknownSubcommand("cache", parser.Subcommand(), cacheUsage)
	}
}

func cacheShow(app *App) error {
	list, err := cachedFeeds(app)
	if err != nil {
		return err
	}
	c := app.cache()

	data := make([]CacheEntryData, 0, len(list))
	states := make([]cache.State, 0, len(list))
	ages := make([]time.Duration, 0, len(list))
	for _, f := range list {
		entry := CacheEntryData{Name: f.name}
		state := cache.Absent
		age, ok := c.Age(f.name)
		if ok {
			entry.Present = true
			entry.AgeMinutes = float64(int(age.Minutes()*10)) / 10
			state = cache.Classify(age.Minutes(), f.minAge, f.maxAge)
		}
		entry.State = state.String()
		data = append(data, entry)
		states = append(states, state)
		ages = append(ages, age)
	}

	if app.Args.JSON {
		return NewJSONResponse("cache show", data).Write(app.Out)
	}

	fmt.Fprintln(app.Out, TitleStyle.Render("Feed cache"))
	for i, e := range data {
		age := DimStyle.Render("never fetched")
		if e.Present {
			age = ValueStyle.Render(formatAge(ages[i]))
		}
		fmt.Fprintf(app.Out, "%s%s  %s\n", RenderLabel(e.Name), RenderCacheState(states[i]), age)
	}
	return nil
}

func cacheClear(app *App) error {
	list, err := cachedFeeds(app)
	if err != nil {
		return err
	}
	removed := 0
	for _, f := range list {
		if !app.Storage.Exists(f.name) {
			continue
		}
		if err := app.Storage.Remove(f.name); err != nil {
			return fmt.Errorf("remove %s: %w", f.name, err)
		}
		removed++
	}
	if app.Args.JSON {
		return NewJSONResponse("cache clear", map[string]int{"removed": removed}).Write(app.Out)
	}
	if !app.Args.Quiet {
		fmt.Fprintf(app.Out, "%s removed %d cached feeds\n", okMark(), removed)
	}
	return nil
}

// formatAge renders an age like "5m ago" or "3h12m ago".
func formatAge(d time.Duration) string {
	d = d.Round(time.Minute)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh%02dm ago", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours())/24)
	}
}

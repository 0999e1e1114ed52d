// Package pokeapi is a minimal client for the public PokeAPI.
//
// Only the two endpoints this application reads are covered:
// /pokemon/{id} for primary record data and /pokemon-species/{id} for
// descriptive text shown in the detail view.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/dexview/internal/catalog"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client fetches records from the PokeAPI. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL. An empty baseURL
// selects the public API. requestsPerSecond bounds outbound request
// rate across all callers; zero or negative disables the limit.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// SpeciesInfo is the descriptive data shown in the detail view.
type SpeciesInfo struct {
	Description string // English flavor text, whitespace normalized
	Genus       string // e.g. "Seed Pokémon"
}

// rawSpecies mirrors the /pokemon-species/{id} response fields we read.
type rawSpecies struct {
	FlavorTextEntries []struct {
		FlavorText string `json:"flavor_text"`
		Language   struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"flavor_text_entries"`
	Genera []struct {
		Genus    string `json:"genus"`
		Language struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"genera"`
}

// GetRecord fetches and transforms one catalog record.
// A decode or transform failure is returned the same way as a network
// failure; the batch fetcher treats them identically.
func (c *Client) GetRecord(ctx context.Context, id int) (catalog.Record, error) {
	var raw catalog.RawRecord
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon/%d", c.baseURL, id), &raw); err != nil {
		return catalog.Record{}, err
	}
	return catalog.Transform(raw)
}

// GetSpecies fetches descriptive text for one record.
func (c *Client) GetSpecies(ctx context.Context, id int) (SpeciesInfo, error) {
	var raw rawSpecies
	if err := c.getJSON(ctx, fmt.Sprintf("%s/pokemon-species/%d", c.baseURL, id), &raw); err != nil {
		return SpeciesInfo{}, err
	}

	var info SpeciesInfo
	for _, e := range raw.FlavorTextEntries {
		if e.Language.Name == "en" {
			info.Description = normalizeFlavorText(e.FlavorText)
			break
		}
	}
	for _, g := range raw.Genera {
		if g.Language.Name == "en" {
			info.Genus = g.Genus
			break
		}
	}
	return info, nil
}

// getJSON performs a rate-limited GET and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "dexview/0.1 (https://github.com/abelbrown/dexview)")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// normalizeFlavorText cleans the control characters PokeAPI keeps from
// the original game text (newlines, form feeds, soft hyphens).
func normalizeFlavorText(s string) string {
	s = strings.ReplaceAll(s, "\f", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "­ ", "")
	s = strings.ReplaceAll(s, "­", "")
	return strings.Join(strings.Fields(s), " ")
}

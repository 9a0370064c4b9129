package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/internal/contracts"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/config"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/httputil"
	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/pkg/logger"
)

// feedPayload is the wire format of the collaborator feed
type feedPayload struct {
	Date    string       `json:"date"`
	Source  string       `json:"source"`
	Records []feedRecord `json:"records"`
}

type feedRecord struct {
	Ticker         string  `json:"ticker"`
	SentimentScore float64 `json:"sentiment_score"`
	SummaryCount   int     `json:"summary_count"`
	Catalyst       bool    `json:"catalyst"`
}

// FeedClient pulls daily sentiment from the collaborator feed and persists
// it through the sentiment store. The engine never talks to the feed
// directly; it only reads what a pull landed in the store.
type FeedClient struct {
	http    *httputil.Client
	store   contracts.SentimentStore
	feedURL string
	enabled bool
	logger  *logger.Logger
}

// NewFeedClient creates a feed client from config
func NewFeedClient(client *httputil.Client, store contracts.SentimentStore, cfg config.SentimentFeedConfig, log *logger.Logger) *FeedClient {
	return &FeedClient{
		http:    client,
		store:   store,
		feedURL: cfg.URL,
		enabled: cfg.Enabled,
		logger:  log,
	}
}

// Enabled reports whether the feed is configured for pulling
func (f *FeedClient) Enabled() bool {
	return f.enabled && f.feedURL != ""
}

// Pull fetches the feed for a date and upserts its records, returning the
// number stored. A disabled feed pulls nothing and is not an error; the
// fusion stage treats absent sentiment as neutral.
func (f *FeedClient) Pull(ctx context.Context, date time.Time) (int, error) {
	if !f.Enabled() {
		f.logger.Debug("Sentiment feed disabled, skipping pull")
		return 0, nil
	}

	dateStr := date.Format(contracts.DateLayout)
	reqURL := fmt.Sprintf("%s?date=%s", f.feedURL, url.QueryEscape(dateStr))

	resp, err := f.http.Get(ctx, reqURL)
	if err != nil {
		return 0, fmt.Errorf("fetch sentiment feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("sentiment feed returned status %d", resp.StatusCode)
	}

	var payload feedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode sentiment feed: %w", err)
	}

	records := make([]contracts.SentimentRecord, 0, len(payload.Records))
	dropped := 0
	for _, fr := range payload.Records {
		if fr.Ticker == "" {
			dropped++
			continue
		}
		records = append(records, contracts.SentimentRecord{
			Ticker:         fr.Ticker,
			Date:           date,
			SentimentScore: fr.SentimentScore,
			SummaryCount:   fr.SummaryCount,
			Catalyst:       fr.Catalyst,
			Source:         payload.Source,
		})
	}

	if len(records) == 0 {
		f.logger.WithFields(map[string]interface{}{
			"date": dateStr,
		}).Warn("Sentiment feed returned no usable records")
		return 0, nil
	}

	if err := f.store.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("store sentiment records: %w", err)
	}

	f.logger.WithFields(map[string]interface{}{
		"date":    dateStr,
		"stored":  len(records),
		"dropped": dropped,
		"source":  payload.Source,
	}).Info("Sentiment feed pulled")

	return len(records), nil
}

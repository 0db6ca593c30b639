package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// maxItemsPerSource caps each source's result to its most recent entries,
// bounding downstream work and skipping stale backlog.
const maxItemsPerSource = 5

const youtubeFeedPrefix = "https://www.youtube.com/feeds/videos.xml"

// Fetcher retrieves and parses a single source's feed into raw items.
type Fetcher struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Fetch retrieves a source's feed and returns its raw items. Network and
// parse failures degrade to an empty result with a warning log so a single
// bad source cannot abort a batch.
func (f *Fetcher) Fetch(ctx context.Context, url, sourceName string) []RawItem {
	items, err := f.FetchItems(ctx, url, sourceName)
	if err != nil {
		slog.Warn("Feed fetch failed", "source", sourceName, "url", url, "error", err)
		return []RawItem{}
	}
	return items
}

// FetchItems is the error-returning variant of Fetch, for callers that wrap
// the fetch in their own retry policy.
func (f *Fetcher) FetchItems(ctx context.Context, url, sourceName string) ([]RawItem, error) {
	data, err := f.fetchBody(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var items []RawItem
	if strings.HasPrefix(url, youtubeFeedPrefix) {
		items = f.parseYouTube(parsed, sourceName)
	} else {
		items = f.parseGeneric(parsed, sourceName)
	}

	if len(items) > maxItemsPerSource {
		items = items[:maxItemsPerSource]
	}

	return items, nil
}

// FetchPodcast parses a podcast feed, keeping only items that carry an
// enclosure audio URL. A feed with zero audio items is a failure.
func (f *Fetcher) FetchPodcast(ctx context.Context, url string) ([]PodcastItem, error) {
	data, err := f.fetchBody(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse podcast feed: %w", err)
	}

	episodes := make([]PodcastItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		audioURL := fromEnclosure(item)
		if audioURL == "" {
			continue
		}
		episodes = append(episodes, PodcastItem{
			Headline:   item.Title,
			Date:       item.Published,
			ArticleURL: item.Link,
			AudioURL:   audioURL,
		})
	}

	if len(episodes) == 0 {
		return nil, fmt.Errorf("no podcast items found with audio URLs")
	}

	return episodes, nil
}

func (f *Fetcher) parseGeneric(parsed *gofeed.Feed, sourceName string) []RawItem {
	items := make([]RawItem, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		raw := RawItem{
			Source:      CoerceString(sourceName),
			Title:       CoerceString(item.Title),
			Link:        item.Link,
			Description: SanitizeText(item.Description),
			ImageURL:    ExtractImageURL(item),
			PubDate:     item.Published,
			Published:   item.PublishedParsed,
			CreatedAt:   time.Now().UTC(),
		}

		raw.Author = coerceAuthor(item)
		if item.DublinCoreExt != nil {
			if len(item.DublinCoreExt.Creator) > 0 {
				raw.Creator = CoerceString(item.DublinCoreExt.Creator[0])
			}
			if len(item.DublinCoreExt.Publisher) > 0 {
				raw.Publisher = CoerceString(item.DublinCoreExt.Publisher[0])
			}
		}

		items = append(items, raw)
	}

	return items
}

// parseYouTube maps a YouTube channel feed's Atom entries: embed link from
// the video id, description and thumbnail from the media group, publish
// dates clamped to now as clock-skew defense.
func (f *Fetcher) parseYouTube(parsed *gofeed.Feed, sourceName string) []RawItem {
	source := sourceName
	if len(parsed.Authors) > 0 && parsed.Authors[0] != nil && parsed.Authors[0].Name != "" {
		source = parsed.Authors[0].Name
	}

	now := time.Now().UTC()
	items := make([]RawItem, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		published := item.PublishedParsed
		if published != nil && published.After(now) {
			clamped := now
			published = &clamped
		}

		link := item.Link
		if videoID := youtubeVideoID(item); videoID != "" {
			link = "https://www.youtube.com/embed/" + videoID
		}

		items = append(items, RawItem{
			Source:      source,
			Title:       CoerceString(item.Title),
			Link:        link,
			Description: youtubeDescription(item),
			ImageURL:    ExtractImageURL(item),
			PubDate:     item.Published,
			Published:   published,
			CreatedAt:   now,
		})
	}

	return items
}

func (f *Fetcher) fetchBody(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func youtubeVideoID(item *gofeed.Item) string {
	for _, entry := range item.Extensions["yt"]["videoId"] {
		if entry.Value != "" {
			return entry.Value
		}
	}
	return ""
}

func youtubeDescription(item *gofeed.Item) string {
	for _, group := range item.Extensions["media"]["group"] {
		for _, desc := range group.Children["description"] {
			if desc.Value != "" {
				return strings.Join(strings.Fields(desc.Value), " ")
			}
		}
	}
	return ""
}

func coerceAuthor(item *gofeed.Item) any {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		return formatPerson(item.Authors[0].Name, item.Authors[0].Email)
	}
	if item.Author != nil {
		return formatPerson(item.Author.Name, item.Author.Email)
	}
	return nil
}

func formatPerson(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s (%s)", name, email)
	case name != "":
		return name
	default:
		return email
	}
}

package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// imageAccessor probes one known location for a cover image URL, returning
// "" when the location is absent.
type imageAccessor func(*gofeed.Item) string

// Publishers place the cover image in wildly different spots; these are
// tried in order and the first absolute HTTP(S) URL wins.
var imageAccessors = []imageAccessor{
	fromEnclosure,
	fromItemImage,
	fromMediaThumbnail,
	fromMediaContent,
	fromMediaGroup,
	fromITunesImage,
	fromCustomFullImage,
}

// ExtractImageURL returns the item's cover image URL, or "" when no known
// field holds one.
func ExtractImageURL(item *gofeed.Item) string {
	if item == nil {
		return ""
	}
	for _, accessor := range imageAccessors {
		if url := accessor(item); isHTTPURL(url) {
			return url
		}
	}
	return ""
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fromEnclosure(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	return ""
}

func fromItemImage(item *gofeed.Item) string {
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

func fromMediaThumbnail(item *gofeed.Item) string {
	return extensionAttr(item.Extensions, "media", "thumbnail", "url")
}

func fromMediaContent(item *gofeed.Item) string {
	return extensionAttr(item.Extensions, "media", "content", "url")
}

// fromMediaGroup handles the nested media:group variants, probing the
// group's content entries first and its thumbnail second.
func fromMediaGroup(item *gofeed.Item) string {
	groups, ok := item.Extensions["media"]["group"]
	if !ok {
		return ""
	}

	for _, group := range groups {
		for _, child := range []string{"content", "thumbnail"} {
			for _, entry := range group.Children[child] {
				if url := entry.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	return ""
}

func fromITunesImage(item *gofeed.Item) string {
	if item.ITunesExt != nil {
		return item.ITunesExt.Image
	}
	return ""
}

func fromCustomFullImage(item *gofeed.Item) string {
	return item.Custom["fullimage"]
}

func extensionAttr(extensions ext.Extensions, namespace, name, attr string) string {
	for _, entry := range extensions[namespace][name] {
		if value := entry.Attrs[attr]; value != "" {
			return value
		}
	}
	return ""
}

package request

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const seasonIDQueryKey = "season_id"

// ParseSeasonID parses a positive int64 season ID.
func ParseSeasonID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	seasonID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seasonID <= 0 {
		return 0, false
	}

	return seasonID, true
}

// SeasonIDFromRequest reads the season from the {id} route wildcard, the
// season_id query parameter, or the page htmx was loaded from.
func SeasonIDFromRequest(r *http.Request) (int64, bool) {
	if seasonID, ok := ParseSeasonID(r.PathValue("id")); ok {
		return seasonID, true
	}
	if seasonID, ok := ParseSeasonID(r.URL.Query().Get(seasonIDQueryKey)); ok {
		return seasonID, true
	}

	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return 0, false
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return 0, false
	}

	if seasonID, ok := ParseSeasonID(parsed.Query().Get(seasonIDQueryKey)); ok {
		return seasonID, true
	}
	return seasonIDFromPath(parsed.Path)
}

// seasonIDFromPath matches /seasons/{id}/... page URLs.
func seasonIDFromPath(path string) (int64, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "seasons" {
			return ParseSeasonID(segments[i+1])
		}
	}
	return 0, false
}

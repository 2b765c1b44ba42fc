// Package title turns the raw titles found in a viewing-history export into a
// canonical show or movie name.
//
// Netflix writes episodes as "Show: Season N: Episode Title (Episode M)" and
// movies as a bare name. Sequel markers like "Part 2" or "Chapter 4" are
// movies; only season and limited-series titles are episodes. Trailers and previews carry suffixes like "_hook" or
// prefixes like "Clip 2:" that are stripped before naming.
package title

import (
	"regexp"
	"strconv"
	"strings"
)

// Unknown is used when a title is blank.
const Unknown = "Unknown"

// Info describes a parsed title. Season and Episode are 0 when the title does
// not carry them.
type Info struct {
	Show      string
	IsEpisode bool
	Season    int
	Episode   int
}

var (
	seasonEpisode = regexp.MustCompile(`^(.+?):\s*Season\s*(\d+).*?(?:\(Episode\s*(\d+)\))?$`)
	seriesMarker  = regexp.MustCompile(`^(.+?):\s*(?:Limited Series|Miniseries)\s*(?::|$)`)
	episodeSuffix = regexp.MustCompile(`\(Episode\s*(\d+)\)\s*$`)
	promoMarkers  = regexp.MustCompile(`_hook.*|_primary.*|Clip \d+:|Teaser[^:]*:|Trailer[^:]*:`)
)

// Parse never fails: anything it cannot make sense of becomes a movie named
// after the trimmed input.
func Parse(raw string) Info {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Info{Show: Unknown}
	}

	if m := seasonEpisode.FindStringSubmatch(trimmed); m != nil {
		if show := strings.TrimSpace(m[1]); show != "" {
			info := Info{Show: show, IsEpisode: true}
			info.Season, _ = strconv.Atoi(m[2])
			if m[3] != "" {
				info.Episode, _ = strconv.Atoi(m[3])
			}
			return info
		}
	}

	if m := seriesMarker.FindStringSubmatch(trimmed); m != nil {
		if show := strings.TrimSpace(m[1]); show != "" {
			info := Info{Show: show, IsEpisode: true}
			if e := episodeSuffix.FindStringSubmatch(trimmed); e != nil {
				info.Episode, _ = strconv.Atoi(e[1])
			}
			return info
		}
	}

	cleaned := strings.TrimSpace(promoMarkers.ReplaceAllString(trimmed, ""))
	name, _, _ := strings.Cut(cleaned, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		name = trimmed
	}
	return Info{Show: name}
}

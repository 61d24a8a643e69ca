package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind distinguishes audio-only streams from anything carrying video.
type Kind int

const (
	KindVideo Kind = iota
	KindAudioOnly
)

func (k Kind) String() string {
	if k == KindAudioOnly {
		return "audio"
	}
	return "video"
}

// Format is one selectable entry of a provider format catalog. Entries are
// never persisted; a catalog lives only until the next fetch.
type Format struct {
	ID     string
	Label  string
	Kind   Kind
	Height int // vertical resolution when known, 0 otherwise
}

var (
	idPattern         = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
	resolutionPattern = regexp.MustCompile(`^(\d+)x(\d+)$`)
	bitratePattern    = regexp.MustCompile(`^~?(\d+)k$`)
)

// Parse extracts the selectable formats from the raw `-F` listing of the
// provider tool. The listing is untrusted text whose exact shape varies
// across tool versions: headers, separators and unparsable lines are skipped
// rather than treated as errors, duplicates are collapsed keeping the first
// occurrence, and input order is preserved. An empty result is valid.
func Parse(raw string) []Format {
	var out []Format
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		f, ok := parseLine(line)
		if !ok || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		out = append(out, f)
	}
	return out
}

func parseLine(line string) (Format, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Format{}, false
	}

	id := fields[0]
	if !idPattern.MatchString(id) || !strings.ContainsAny(id, "0123456789") {
		// Header rows ("ID EXT RESOLUTION ..."), separator rules and log
		// lines never carry a provider format identifier in column one.
		return Format{}, false
	}

	f := Format{ID: id}
	lower := strings.ToLower(line)

	if strings.Contains(lower, "storyboard") || strings.Contains(lower, "images") {
		return Format{}, false
	}

	var resolution string
	var bitrate string
	for _, field := range fields[1:] {
		if m := resolutionPattern.FindStringSubmatch(field); m != nil {
			resolution = field
			f.Height, _ = strconv.Atoi(m[2])
		} else if bitrate == "" && bitratePattern.MatchString(field) {
			bitrate = field
		}
	}

	ext := fields[1]
	if strings.Contains(lower, "audio only") {
		f.Kind = KindAudioOnly
		f.Label = audioLabel(ext, bitrate)
		return f, true
	}

	if resolution == "" {
		// A video row without a WxH column is a storyboard/images row or an
		// unrecognized layout; either way there is nothing to select here.
		return Format{}, false
	}
	f.Kind = KindVideo
	f.Label = videoLabel(f.Height, ext)
	return f, true
}

func audioLabel(ext, bitrate string) string {
	label := "Audio Only"
	if ext != "" {
		label += " " + ext
	}
	if bitrate != "" {
		label += " " + bitrate
	}
	return label
}

func videoLabel(height int, ext string) string {
	label := resolutionTier(height)
	if ext != "" {
		label += " " + ext
	}
	return label
}

// resolutionTier maps a pixel height onto the marketing tier users pick by.
func resolutionTier(height int) string {
	switch {
	case height >= 2160:
		return "4K"
	case height >= 1440:
		return "2K"
	case height >= 1080:
		return "1080p"
	case height >= 720:
		return "720p"
	case height >= 480:
		return "480p"
	default:
		return "Low Resolution"
	}
}

// Selector translates a chosen Format into the provider tool's format
// selection syntax. Audio picks the best available audio stream; video picks
// the best stream at or below the chosen height, merged with best audio.
func Selector(f Format) string {
	if f.Kind == KindAudioOnly {
		return "bestaudio/best"
	}
	if f.Height > 0 {
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", f.Height, f.Height)
	}
	if f.ID != "" {
		return f.ID
	}
	return "best"
}

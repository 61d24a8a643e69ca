package catalog

import (
	"strings"
	"testing"
)

const sampleListing = `[youtube] Extracting URL: https://www.youtube.com/watch?v=dQw4w9WgXcQ
[info] Available formats for dQw4w9WgXcQ:
ID      EXT   RESOLUTION FPS CH |   FILESIZE    TBR PROTO | VCODEC          VBR ACODEC      ABR ASR MORE INFO
------------------------------------------------------------------------------------------------------------
sb1     mhtml 80x45        0    |                   mhtml | images                                  storyboard
139     m4a   audio only      2 |    3.27MiB    49k https | audio only          mp4a.40.5   49k 22k low, m4a_dash
251     webm  audio only      2 |    8.75MiB   131k https | audio only          opus       131k 48k medium, webm_dash
160     mp4   256x144     25    |    1.10MiB    16k https | avc1.4d400c     16k video only          144p, mp4_dash
602     mp4   256x144     13    |  ~ 1.50MiB    22k m3u8  | vp09.00.10.08   22k video only
244     webm  854x480     25    |    6.54MiB    98k https | vp9             98k video only          480p, webm_dash
136     mp4   1280x720    25    |   27.95MiB   418k https | avc1.64001f    418k video only          720p, mp4_dash
248     webm  1920x1080   25    |   56.12MiB   839k https | vp9            839k video only          1080p, webm_dash
271     webm  2560x1440   25    |  120.01MiB  1795k https | vp9           1795k video only          1440p, webm_dash
313     webm  3840x2160   25    |  290.44MiB  4343k https | vp9           4343k video only          2160p, webm_dash
`

func TestParse(t *testing.T) {
	formats := Parse(sampleListing)

	var ids []string
	for _, f := range formats {
		ids = append(ids, f.ID)
	}
	want := []string{"139", "251", "160", "602", "244", "136", "248", "271", "313"}
	if len(ids) != len(want) {
		t.Fatalf("Parse returned %d formats (%v), want %d", len(ids), ids, len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("format %d: got ID %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantKind Kind
		wantH    int
		wantLbl  string
	}{
		{
			name:     "audio row",
			line:     "251     webm  audio only      2 |    8.75MiB   131k https | audio only          opus       131k 48k medium, webm_dash",
			wantOK:   true,
			wantKind: KindAudioOnly,
			wantLbl:  "Audio Only webm 131k",
		},
		{
			name:     "audio row with approximate bitrate",
			line:     "234   mp4   audio only      2 | ~ 8.21MiB   123k m3u8  | audio only          mp4a.40.2  123k     Default",
			wantOK:   true,
			wantKind: KindAudioOnly,
			wantLbl:  "Audio Only mp4 123k",
		},
		{
			name:     "video 1080p",
			line:     "248     webm  1920x1080   25    |   56.12MiB   839k https | vp9            839k video only          1080p, webm_dash",
			wantOK:   true,
			wantKind: KindVideo,
			wantH:    1080,
			wantLbl:  "1080p webm",
		},
		{
			name:     "video 4K",
			line:     "313     webm  3840x2160   25    |  290.44MiB  4343k https | vp9           4343k video only          2160p, webm_dash",
			wantOK:   true,
			wantKind: KindVideo,
			wantH:    2160,
			wantLbl:  "4K webm",
		},
		{
			name:     "video below 480",
			line:     "160     mp4   256x144     25    |    1.10MiB    16k https | avc1.4d400c     16k video only          144p, mp4_dash",
			wantOK:   true,
			wantKind: KindVideo,
			wantH:    144,
			wantLbl:  "Low Resolution mp4",
		},
		{
			name:   "header row",
			line:   "ID      EXT   RESOLUTION FPS CH |   FILESIZE    TBR PROTO | VCODEC          VBR ACODEC      ABR ASR MORE INFO",
			wantOK: false,
		},
		{
			name:   "separator rule",
			line:   strings.Repeat("-", 100),
			wantOK: false,
		},
		{
			name:   "storyboard row",
			line:   "sb1     mhtml 80x45        0    |                   mhtml | images                                  storyboard",
			wantOK: false,
		},
		{
			name:   "log line",
			line:   "[youtube] Extracting URL: https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
		{
			name:   "video row without resolution",
			line:   "600     mp4   unknown     25    |   something   https | avc1",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := parseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseLine ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok || tt.wantLbl == "" {
				return
			}
			if f.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", f.Kind, tt.wantKind)
			}
			if f.Height != tt.wantH {
				t.Errorf("Height = %d, want %d", f.Height, tt.wantH)
			}
			if f.Label != tt.wantLbl {
				t.Errorf("Label = %q, want %q", f.Label, tt.wantLbl)
			}
		})
	}
}

func TestParseDeduplicates(t *testing.T) {
	raw := `139     m4a   audio only      2 |    3.27MiB    49k https | audio only          mp4a.40.5   49k 22k low
139     m4a   audio only      2 |    3.27MiB    49k https | audio only          mp4a.40.5   49k 22k low`
	formats := Parse(raw)
	if len(formats) != 1 {
		t.Fatalf("expected duplicate IDs collapsed to 1 entry, got %d", len(formats))
	}
}

func TestParseEmptyInput(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("Parse(\"\") = %v, want empty", got)
	}
	if got := Parse("no formats here\nat all"); len(got) != 0 {
		t.Errorf("Parse(garbage) = %v, want empty", got)
	}
}

func TestResolutionTier(t *testing.T) {
	tests := []struct {
		height int
		want   string
	}{
		{2160, "4K"},
		{4320, "4K"},
		{1440, "2K"},
		{1080, "1080p"},
		{720, "720p"},
		{480, "480p"},
		{360, "Low Resolution"},
		{144, "Low Resolution"},
	}
	for _, tt := range tests {
		if got := resolutionTier(tt.height); got != tt.want {
			t.Errorf("resolutionTier(%d) = %s, want %s", tt.height, got, tt.want)
		}
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"audio", Format{ID: "251", Kind: KindAudioOnly}, "bestaudio/best"},
		{"video with height", Format{ID: "248", Kind: KindVideo, Height: 1080}, "bestvideo[height<=1080]+bestaudio/best[height<=1080]"},
		{"video without height", Format{ID: "22", Kind: KindVideo}, "22"},
		{"zero value", Format{}, "best"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Selector(tt.format); got != tt.want {
				t.Errorf("Selector = %q, want %q", got, tt.want)
			}
		})
	}
}

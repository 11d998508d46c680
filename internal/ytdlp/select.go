package ytdlp

import (
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
)

// extPreference orders renditions within one track. Timed XML comes first,
// then the JSON events format, then cue text.
var extPreference = []string{"srv3", "srv1", "srv2", "ttml", "json3", "vtt"}

// Selection is the caption track chosen for a request.
type Selection struct {
	Language  string
	Automatic bool
	Track     Track
	Format    normalize.Format
}

// SelectTrack picks one caption track from info. Manual tracks win over
// automatic ones; within each kind languages are tried in the listed order.
// There is no fallback to languages outside langs.
func SelectTrack(info *Info, langs []string) (Selection, bool) {
	if info == nil {
		return Selection{}, false
	}
	kinds := []struct {
		tracks    map[string][]Track
		automatic bool
	}{
		{info.Subtitles, false},
		{info.AutomaticCaptions, true},
	}
	for _, kind := range kinds {
		for _, lang := range langs {
			track, format, ok := bestRendition(kind.tracks[lang])
			if !ok {
				continue
			}
			return Selection{
				Language:  lang,
				Automatic: kind.automatic,
				Track:     track,
				Format:    format,
			}, true
		}
	}
	return Selection{}, false
}

func bestRendition(tracks []Track) (Track, normalize.Format, bool) {
	for _, ext := range extPreference {
		for _, t := range tracks {
			if t.URL == "" || !strings.EqualFold(t.Ext, ext) {
				continue
			}
			if format, ok := normalize.FormatFromExt(ext); ok {
				return t, format, true
			}
		}
	}
	return Track{}, "", false
}

// PickDownloaded chooses the subtitle file to read out of files written by
// DownloadSubtitles: languages in listed order, json3 before vtt.
//
// Downloaded file names carry no manual/automatic marker, so the
// manual-before-automatic order of SelectTrack cannot be applied here: an
// automatic "en" file wins over a manual "en-US" one. When yt-dlp has both
// kinds for the same language it writes the manual track.
func PickDownloaded(files []string, langs []string) (string, normalize.Format, bool) {
	for _, lang := range langs {
		for _, ext := range []string{"json3", "vtt"} {
			suffix := "." + lang + "." + ext
			for _, f := range files {
				if strings.HasSuffix(filepath.Base(f), suffix) {
					format, _ := normalize.FormatFromExt(ext)
					return f, format, true
				}
			}
		}
	}
	return "", "", false
}

package kugou

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"lyricskit-go/core"
)

// ErrNotKRC is returned when the decoded payload does not start with the
// "krc1" magic bytes.
var ErrNotKRC = errors.New("payload is not a KRC document")

var krcMagic = []byte("krc1")

// krcKey is the XOR key applied to the payload after the magic bytes.
var krcKey = [16]byte{64, 71, 97, 119, 94, 50, 116, 71, 81, 54, 49, 45, 206, 210, 110, 105}

var (
	krcLineRegex   = regexp.MustCompile(`^\[(\d+),(\d+)\](.*)$`)
	krcInlineRegex = regexp.MustCompile(`<(\d+),(\d+),\d+>([^<]*)`)
	krcIDTagRegex  = regexp.MustCompile(`^\[([a-zA-Z#][^\]:]*):([^\]]*)\]$`)
)

// DecodeKRC turns a base64 encoded KRC payload into its plain text content.
// The payload is XOR-obfuscated and compressed behind a "krc1" magic prefix.
func DecodeKRC(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid base64 content: %w", err)
	}
	if len(data) < len(krcMagic) || !bytes.Equal(data[:len(krcMagic)], krcMagic) {
		return "", ErrNotKRC
	}

	body := data[len(krcMagic):]
	for i := range body {
		body[i] ^= krcKey[i&0xF]
	}

	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to decompress content: %w", err)
	}
	defer reader.Close()

	plain, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decompress content: %w", err)
	}
	return string(plain), nil
}

// ParseKRC parses decoded KRC text into a lyrics document. Each timed line
// becomes a line with a word time tag attachment, and the base64 JSON
// "language" header, when present, contributes per-line translations.
func ParseKRC(content string) (*core.Lyrics, error) {
	ly := core.NewLyrics()
	var translations [][]string

	for _, raw := range strings.Split(content, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if m := krcLineRegex.FindStringSubmatch(raw); m != nil {
			startMs, _ := strconv.Atoi(m[1])
			durMs, _ := strconv.Atoi(m[2])
			line := parseKRCLine(m[3], float64(startMs)/1000, float64(durMs)/1000)
			if line.Attachments.TimeTag() != nil {
				ly.Metadata.AddAttachmentTag(core.TagTimeTag)
			}
			ly.Lines = append(ly.Lines, line)
			continue
		}
		if m := krcIDTagRegex.FindStringSubmatch(raw); m != nil {
			key, value := m[1], m[2]
			if key == "language" {
				translations = decodeLanguageHeader(value)
				continue
			}
			if value != "" {
				ly.IDTags[key] = value
			}
		}
	}

	if len(ly.Lines) == 0 {
		return nil, core.ErrEmptyDocument
	}

	sort.SliceStable(ly.Lines, func(i, j int) bool {
		return ly.Lines[i].Position < ly.Lines[j].Position
	})

	for i := range ly.Lines {
		if i >= len(translations) {
			break
		}
		text := strings.Join(translations[i], " ")
		if text == "" {
			continue
		}
		ly.Lines[i].Attachments.SetTranslation(text, "")
		ly.Metadata.AddAttachmentTag(core.TagTranslation)
	}

	return ly, nil
}

// parseKRCLine assembles the line content from its inline fragments and
// records one word time tag label after each fragment that adds content.
// The label offset is the fragment end time relative to the line start.
func parseKRCLine(text string, position, duration float64) core.LyricsLine {
	matches := krcInlineRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return core.NewLyricsLine(text, position)
	}

	var sb strings.Builder
	labels := []core.WordTimeTagLabel{{TimeTag: 0, Index: 0}}
	prevCount := 0
	for _, m := range matches {
		offMs, _ := strconv.Atoi(m[1])
		fragMs, _ := strconv.Atoi(m[2])
		sb.WriteString(m[3])
		// Empty fragments get no label; label indexes must keep growing.
		count := utf8.RuneCountInString(sb.String())
		if count <= prevCount {
			continue
		}
		prevCount = count
		labels = append(labels, core.WordTimeTagLabel{
			TimeTag: float64(offMs+fragMs) / 1000,
			Index:   count,
		})
	}

	line := core.NewLyricsLine(sb.String(), position)
	line.Attachments.SetTimeTag(&core.WordTimeTag{Tags: labels, Duration: duration})
	return line
}

// decodeLanguageHeader extracts line-indexed translation words from the
// base64 JSON "language" ID tag. Malformed headers are ignored.
func decodeLanguageHeader(value string) [][]string {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var header krcHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil
	}
	if len(header.Content) == 0 {
		return nil
	}
	return header.Content[0].LyricContent
}

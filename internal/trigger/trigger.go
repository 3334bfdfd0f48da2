// Package trigger reads and writes the dispatch markers a replica embeds in
// its replies to ask the UI to show a people list.
//
// A marker looks like
//
//	[TRIGGER]{"action":"showPeopleList","payload":{"category":"investors","query":"fintech"}}[/TRIGGER]
package trigger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	openTag  = "[TRIGGER]"
	closeTag = "[/TRIGGER]"

	// ActionShowPeopleList asks the UI to open the people list.
	ActionShowPeopleList = "showPeopleList"
)

// ErrNoMarker is returned by Parse when the message carries no marker.
var ErrNoMarker = errors.New("no trigger marker in message")

var markerRe = regexp.MustCompile(`(?s)\[TRIGGER\](.*?)\[/TRIGGER\]`)

type Marker struct {
	Action  string  `mapstructure:"action" json:"action"`
	Payload Payload `mapstructure:"payload" json:"payload"`
}

type Payload struct {
	Category Category `mapstructure:"category" json:"category"`
	Query    string   `mapstructure:"query" json:"query"`
}

// ShowsPeople reports whether the marker requests the people list.
func (m *Marker) ShowsPeople() bool {
	return m != nil && m.Action == ActionShowPeopleList
}

// Parse decodes the first marker in message. Loosely typed payload values are
// accepted: numbers and booleans are converted to strings.
func Parse(message string) (*Marker, error) {
	if !strings.Contains(message, openTag) {
		return nil, ErrNoMarker
	}

	m := markerRe.FindStringSubmatch(message)
	if m == nil {
		return nil, fmt.Errorf("trigger marker is not closed with %s", closeTag)
	}

	body := extractJSON(m[1])
	if body == "" {
		return nil, errors.New("trigger marker is empty")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil, fmt.Errorf("parse trigger payload: %w", err)
	}

	var marker Marker
	if err := mapstructure.WeakDecode(data, &marker); err != nil {
		return nil, fmt.Errorf("decode trigger payload: %w", err)
	}

	marker.Action = strings.TrimSpace(marker.Action)
	if marker.Action == "" {
		return nil, errors.New("trigger action is required")
	}

	marker.Payload.Category = Category(strings.ToLower(strings.TrimSpace(string(marker.Payload.Category))))
	marker.Payload.Query = strings.TrimSpace(marker.Payload.Query)

	return &marker, nil
}

// Strip removes every complete marker from message and trims the result.
func Strip(message string) string {
	return strings.TrimSpace(markerRe.ReplaceAllString(message, ""))
}

// Generate returns a people list marker for category and query.
func Generate(category Category, query string) (string, error) {
	marker := Marker{
		Action:  ActionShowPeopleList,
		Payload: Payload{Category: category, Query: query},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(marker); err != nil {
		return "", fmt.Errorf("encoding trigger marker: %w", err)
	}

	return openTag + strings.TrimSpace(buf.String()) + closeTag, nil
}

// Message wraps a marker into a reply. An empty intro is replaced with a default one.
func Message(category Category, query, intro string) (string, error) {
	marker, err := Generate(category, query)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(intro) == "" {
		intro = fmt.Sprintf("Here's the list of %s matching your query \"%s\":", category, query)
	}
	return intro + "\n\n" + marker + "\n\nClick the link above to view the detailed list.", nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Canonical breakdown keys.
var (
	Months = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

const (
	Morning   = "Morning (6am-12pm)"
	Afternoon = "Afternoon (12pm-6pm)"
	Evening   = "Evening (6pm-10pm)"
	Night     = "Night Owl (10pm-6am)"
)

var TimeCategories = []string{Morning, Afternoon, Evening, Night}

// Hours are "0" through "23".
var Hours = func() []string {
	h := make([]string, 24)
	for i := range h {
		h[i] = strconv.Itoa(i)
	}
	return h
}()

// TimeCategory buckets an hour of the day.
func TimeCategory(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 22:
		return Evening
	default:
		return Night
	}
}

type Count struct {
	Key   string
	Count int
}

// Breakdown is a set of counts over a fixed, ordered key set. It serializes
// as an object whose keys keep that order.
type Breakdown []Count

func NewBreakdown(keys []string) Breakdown {
	b := make(Breakdown, len(keys))
	for i, k := range keys {
		b[i] = Count{Key: k}
	}
	return b
}

// Add increments key. Keys outside the canonical set are ignored.
func (b Breakdown) Add(key string) {
	for i := range b {
		if b[i].Key == key {
			b[i].Count++
			return
		}
	}
}

func (b Breakdown) Get(key string) int {
	for _, c := range b {
		if c.Key == key {
			return c.Count
		}
	}
	return 0
}

func (b Breakdown) Keys() []string {
	keys := make([]string, len(b))
	for i, c := range b {
		keys[i] = c.Key
	}
	return keys
}

func (b Breakdown) Total() int {
	total := 0
	for _, c := range b {
		total += c.Count
	}
	return total
}

// Peak returns the largest count; the earliest key wins ties.
func (b Breakdown) Peak() Count {
	var peak Count
	for i, c := range b {
		if i == 0 || c.Count > peak.Count {
			peak = c
		}
	}
	return peak
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("breakdown: expected object, got %v", tok)
	}

	out := Breakdown{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("breakdown: expected key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("breakdown %q: %w", key, err)
		}
		out = append(out, Count{Key: key, Count: n})
	}
	*b = out
	return nil
}

func (b Breakdown) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range b {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(c.Count)},
		)
	}
	return node, nil
}

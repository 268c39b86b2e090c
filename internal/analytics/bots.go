package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

type botPattern struct {
	Pattern string `json:"pattern"`
}

// LoadBotList reads user agent patterns from a JSON file shaped like
// [{"pattern": "Googlebot\\/"}]. Patterns that do not compile are skipped.
func LoadBotList(path string) ([]*regexp.Regexp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []botPattern
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bot list: %w", err)
	}
	out := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		if p.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out, nil
}

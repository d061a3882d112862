// Package stats persists cumulative send statistics across runs as a
// read-merge-write YAML file.
package stats

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soniachalia9-maker/bulkmail/internal/engine"
)

// DefaultPath is the statistics file used when no explicit path is given.
const DefaultPath = "bulkmail_stats.yaml"

// maxCampaigns caps the rolling campaign history; the oldest entries
// are evicted first.
const maxCampaigns = 50

// timeNow is swapped out in tests.
var timeNow = time.Now

// Campaign records one completed batch.
type Campaign struct {
	Date       string `yaml:"date"`
	Subject    string `yaml:"subject"`
	Recipients int    `yaml:"recipients"`
	Sent       int    `yaml:"sent"`
	Failed     int    `yaml:"failed"`
}

// Stats holds cumulative totals and the rolling campaign history.
type Stats struct {
	TotalSent   int        `yaml:"total_sent"`
	TotalFailed int        `yaml:"total_failed"`
	LastSent    string     `yaml:"last_sent"`
	Campaigns   []Campaign `yaml:"campaigns"`
}

// Load reads the statistics file. A missing file yields zero statistics
// and no error.
func Load(path string) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, nil
		}
		return Stats{}, fmt.Errorf("failed to read stats file: %w", err)
	}

	var s Stats
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Stats{}, fmt.Errorf("failed to parse stats file: %w", err)
	}
	return s, nil
}

// Record merges one completed batch into the persisted statistics:
// totals are incremented, last_sent is refreshed, one campaign entry is
// appended, and the history is truncated to the most recent entries.
// The whole file is rewritten; there is no partial update.
func Record(path string, res engine.Result, subject string) (Stats, error) {
	s, err := Load(path)
	if err != nil {
		return Stats{}, err
	}

	now := timeNow().Format("2006-01-02 15:04:05")

	s.TotalSent += res.Sent
	s.TotalFailed += res.Failed
	s.LastSent = now
	s.Campaigns = append(s.Campaigns, Campaign{
		Date:       now,
		Subject:    subject,
		Recipients: res.Total,
		Sent:       res.Sent,
		Failed:     res.Failed,
	})

	if len(s.Campaigns) > maxCampaigns {
		s.Campaigns = s.Campaigns[len(s.Campaigns)-maxCampaigns:]
	}

	if err := save(path, s); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// save writes the statistics atomically (temp file then rename) so a
// failed write never corrupts the existing history.
func save(path string, s Stats) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return os.Rename(tmp, path)
}

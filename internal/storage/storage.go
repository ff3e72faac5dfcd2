package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mhartmann/auswaerts/internal/archive"
	"github.com/mhartmann/auswaerts/internal/model"
)

// ScanResult is one finished away-game scan.
type ScanResult struct {
	SeasonID  string          `json:"season_id"`
	Team      string          `json:"team"`
	CreatedAt string          `json:"created_at"`
	Matches   []archive.Match `json:"matches"`
	Games     []model.Game    `json:"games"`
}

// Storage reads and writes scan results under one data directory.
type Storage struct {
	dataDir string
}

// New creates the data directory if needed. A leading ~/ expands to the
// user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Storage{dataDir: dataDir}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

func (s *Storage) scanPath(seasonID, team string) string {
	slug := unsafeChars.ReplaceAllString(strings.ToLower(team), "-")
	slug = strings.Trim(slug, "-")
	return filepath.Join(s.dataDir, fmt.Sprintf("scan_%s_%s.json", seasonID, slug))
}

// SaveScan writes a scan result, overwriting any previous scan for the same
// season and team.
func (s *Storage) SaveScan(res *ScanResult) error {
	res.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scan result: %w", err)
	}
	path := s.scanPath(res.SeasonID, res.Team)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scan result: %w", err)
	}
	return nil
}

// LoadScan reads a previous scan result. Returns nil without error when no
// scan exists yet, which callers treat as "nothing to diff against".
func (s *Storage) LoadScan(seasonID, team string) (*ScanResult, error) {
	data, err := os.ReadFile(s.scanPath(seasonID, team))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading scan result: %w", err)
	}

	var res ScanResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing scan result: %w", err)
	}
	return &res, nil
}

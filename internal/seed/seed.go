package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/domain"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed players.json
var embeddedRoster []byte

// Document is the on-disk and over-the-wire shape of a seed roster. Ranks
// and points in it are ignored; the store derives them from tiers.
type Document struct {
	Players []domain.Player `json:"players" yaml:"players"`
}

// Embedded returns the roster compiled into the binary.
func Embedded() ([]domain.Player, error) {
	return decodeJSON(embeddedRoster)
}

// LoadFile reads a JSON or YAML roster, chosen by extension.
func LoadFile(path string) ([]domain.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
		}
		return doc.Players, nil
	case ".json":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

func decodeJSON(data []byte) ([]domain.Player, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed json: %w", err)
	}
	return doc.Players, nil
}

// Loader picks the seed roster: remote URL first, then a local file, then
// the embedded roster.
type Loader struct {
	url     string
	file    string
	fetcher *Fetcher
	logger  zerolog.Logger
}

func NewLoader(cfg *config.Config, fetcher *Fetcher, logger zerolog.Logger) *Loader {
	return &Loader{
		url:     cfg.SeedURL,
		file:    cfg.SeedFile,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "seed").Logger(),
	}
}

func (l *Loader) Load(ctx context.Context) ([]domain.Player, error) {
	switch {
	case l.url != "":
		l.logger.Info().Str("url", l.url).Msg("fetching remote seed")
		doc, err := l.fetcher.Fetch(ctx, l.url)
		if err != nil {
			return nil, err
		}
		return doc.Players, nil
	case l.file != "":
		l.logger.Info().Str("path", l.file).Msg("loading seed file")
		return LoadFile(l.file)
	default:
		l.logger.Info().Msg("using embedded seed")
		return Embedded()
	}
}

package dnd5e

import (
	"cmp"
	"context"
	"net/http"
	"net/url"
	"slices"
	"sync"

	dnderr "github.com/KirkDiggler/combat-rules-engine/internal/errors"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
	apiDnd5e "github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// Config configures the spell importer
type Config struct {
	// Source overrides the api client, mostly for tests
	Source     SpellSource
	HttpClient *http.Client
	// BaseURL points the api client at a mirror of dnd5eapi.co
	BaseURL     string
	Concurrency int
	Logger      *zap.Logger
}

// Importer converts dnd5e spells into status definitions
type Importer struct {
	source      SpellSource
	concurrency int
	logger      *zap.Logger
}

// ImportInput selects the spells to import
type ImportInput struct {
	// Class limits the import to one class list, empty means every spell
	Class string
	// Levels limits the import to these spell levels, empty means every level
	Levels []int
	// ConcentrationOnly skips spells that are not concentration spells
	ConcentrationOnly bool
}

// New creates an importer backed by the dnd5e api
func New(cfg *Config) (*Importer, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgumentf("cfg is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	source := cfg.Source
	if source == nil {
		httpClient := cfg.HttpClient
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		if cfg.BaseURL != "" {
			base, err := url.Parse(cfg.BaseURL)
			if err != nil {
				return nil, dnderr.Wrapf(err, "invalid dnd5e base url %q", cfg.BaseURL)
			}
			httpClient = rebase(httpClient, base)
		}

		apiClient, err := apiDnd5e.NewDND5eAPI(&apiDnd5e.DND5eAPIConfig{
			Client: httpClient,
		})
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to create dnd5e client")
		}
		source = apiClient
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Importer{
		source:      source,
		concurrency: concurrency,
		logger:      logger.Named("dnd5e"),
	}, nil
}

// Import fetches the selected spells and returns their status definitions ordered by id.
// Spells without a lasting effect are skipped.
func (i *Importer) Import(ctx context.Context, input *ImportInput) ([]*statuses.Definition, error) {
	if input == nil {
		input = &ImportInput{}
	}

	keys, err := i.listKeys(input)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		defs []*statuses.Definition
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			spell, err := i.source.GetSpell(key)
			if err != nil {
				return dnderr.Wrapf(err, "failed to get spell %s", key)
			}
			if input.ConcentrationOnly && !spell.Concentration {
				return nil
			}
			def, ok := SpellToStatus(spell)
			if !ok {
				i.logger.Debug("spell has no lasting effect", zap.String("spell", key), zap.String("duration", spell.Duration))
				return nil
			}

			mu.Lock()
			defs = append(defs, def)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(defs, func(a, b *statuses.Definition) int { return cmp.Compare(a.ID, b.ID) })

	i.logger.Info("imported spells",
		zap.Int("listed", len(keys)),
		zap.Int("imported", len(defs)),
	)
	return defs, nil
}

func (i *Importer) listKeys(input *ImportInput) ([]string, error) {
	levels := []*int{nil}
	if len(input.Levels) > 0 {
		levels = levels[:0]
		for _, level := range input.Levels {
			levels = append(levels, &level)
		}
	}

	seen := make(map[string]bool)
	var keys []string
	for _, level := range levels {
		refs, err := i.source.ListSpells(&apiDnd5e.ListSpellsInput{
			Class: input.Class,
			Level: level,
		})
		if err != nil {
			return nil, dnderr.Wrapf(err, "failed to list spells for class %q", input.Class)
		}
		for _, ref := range refs {
			if ref == nil || ref.Key == "" || seen[ref.Key] {
				continue
			}
			seen[ref.Key] = true
			keys = append(keys, ref.Key)
		}
	}
	return keys, nil
}

type rebasedTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *rebasedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.Host = t.base.Host
	return t.next.RoundTrip(out)
}

func rebase(client *http.Client, base *url.URL) *http.Client {
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	rebased := *client
	rebased.Transport = &rebasedTransport{base: base, next: next}
	return &rebased
}

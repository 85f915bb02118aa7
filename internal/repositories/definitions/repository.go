package definitions

//go:generate mockgen -destination=mock/mock_repository.go -package=mockdefinitions -source=repository.go

import (
	"context"
	"strings"

	defs "github.com/KirkDiggler/combat-rules-engine/internal/definitions"
	"github.com/KirkDiggler/combat-rules-engine/internal/passives"
	"github.com/KirkDiggler/combat-rules-engine/internal/statuses"
)

// Repository stores status and passive definitions
type Repository interface {
	// SaveStatus creates or replaces a status definition
	SaveStatus(ctx context.Context, def *statuses.Definition) error

	// GetStatus retrieves a status definition by id, ignoring case
	GetStatus(ctx context.Context, id string) (*statuses.Definition, error)

	// ListStatuses returns every status definition ordered by id
	ListStatuses(ctx context.Context) ([]*statuses.Definition, error)

	// DeleteStatus removes a status definition
	DeleteStatus(ctx context.Context, id string) error

	// SavePassive creates or replaces a passive definition
	SavePassive(ctx context.Context, def *passives.Definition) error

	// GetPassive retrieves a passive definition by id, ignoring case
	GetPassive(ctx context.Context, id string) (*passives.Definition, error)

	// ListPassives returns every passive definition ordered by id
	ListPassives(ctx context.Context) ([]*passives.Definition, error)

	// DeletePassive removes a passive definition
	DeletePassive(ctx context.Context, id string) error
}

func recordID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// SaveSet stores every definition in set
func SaveSet(ctx context.Context, repo Repository, set *defs.Set) error {
	for _, def := range set.Statuses {
		if err := repo.SaveStatus(ctx, def); err != nil {
			return err
		}
	}
	for _, def := range set.Passives {
		if err := repo.SavePassive(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// LoadSet reads every stored definition into a set
func LoadSet(ctx context.Context, repo Repository) (*defs.Set, error) {
	statusDefs, err := repo.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	passiveDefs, err := repo.ListPassives(ctx)
	if err != nil {
		return nil, err
	}
	return &defs.Set{Statuses: statusDefs, Passives: passiveDefs}, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govindex/internal/domain"
	"github.com/trebuchet-org/govindex/internal/domain/models"
)

// ShowDelegateParams contains parameters for showing an account
type ShowDelegateParams struct {
	Address string
	// At is the time role status is evaluated at; zero means now
	At time.Time
}

// DelegateDetail describes an account's delegate and member records
type DelegateDetail struct {
	Address        common.Address
	Delegate       *models.Delegate
	Member         *models.Member
	At             time.Time
	ProposerActive bool
	CancelerActive bool
}

// ShowDelegate is the use case for showing an account's governance ledger entry
type ShowDelegate struct {
	store EntityStore
}

// NewShowDelegate creates a new ShowDelegate use case
func NewShowDelegate(store EntityStore) *ShowDelegate {
	return &ShowDelegate{store: store}
}

// Run executes the show delegate use case. Accounts that were never seen
// are reported with zeroed records rather than an error.
func (uc *ShowDelegate) Run(ctx context.Context, params ShowDelegateParams) (*DelegateDetail, error) {
	if !common.IsHexAddress(params.Address) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, params.Address)
	}
	address := common.HexToAddress(params.Address)

	at := params.At
	if at.IsZero() {
		at = time.Now()
	}

	delegate, err := readEntity(ctx, uc.store, models.EntityKindDelegate, address.Bytes(), func() *models.Delegate {
		return models.NewDelegate(address)
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	member, err := readEntity(ctx, uc.store, models.EntityKindMember, address.Bytes(), func() *models.Member {
		return models.NewMember(address)
	})
	if errors.Is(err, domain.ErrNotFound) {
		member = nil
	} else if err != nil {
		return nil, err
	}

	unix := uint64(at.Unix())
	return &DelegateDetail{
		Address:        address,
		Delegate:       delegate,
		Member:         member,
		At:             at,
		ProposerActive: delegate.HasRole(domain.RoleProposer, unix),
		CancelerActive: delegate.HasRole(domain.RoleCanceler, unix),
	}, nil
}

package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/tixpool-lab/backend/internal/entity"
	"github.com/tixpool-lab/backend/internal/repository"
)

// Registry is the external ownership registry: it answers who currently
// controls a ticket and performs the transfer of control on mint. The engine
// only consumes these two facts.
type Registry interface {
	OwnerOf(ctx context.Context, ticketID int64) (string, error)
	MintTo(ctx context.Context, ticketID int64, account string) error
}

type dbRegistry struct {
	ticketRepo repository.TicketRepository
}

func NewDBRegistry(ticketRepo repository.TicketRepository) *dbRegistry {
	return &dbRegistry{ticketRepo: ticketRepo}
}

func (r *dbRegistry) OwnerOf(ctx context.Context, ticketID int64) (string, error) {
	ticket, err := r.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return "", err
	}

	return ticket.OwnerID, nil
}

func (r *dbRegistry) MintTo(ctx context.Context, ticketID int64, account string) error {
	return r.ticketRepo.UpdateOwner(ctx, ticketID, account)
}

// Transferor moves value to an external account. One attempt, no retry; the
// caller must treat a failure as fatal to the enclosing operation.
type Transferor interface {
	Transfer(ctx context.Context, toUserID string, amount uint64, note string) error
}

type ledgerTransferor struct {
	transferRepo repository.TransferRepository
}

func NewLedgerTransferor(transferRepo repository.TransferRepository) *ledgerTransferor {
	return &ledgerTransferor{transferRepo: transferRepo}
}

func (t *ledgerTransferor) Transfer(ctx context.Context, toUserID string, amount uint64, note string) error {
	return t.transferRepo.Create(ctx, &entity.Transfer{
		Base:       entity.Base{ID: uuid.NewString()},
		ToUserID:   toUserID,
		Note:       note,
		Amount:     amount,
		IsReceived: true,
	})
}

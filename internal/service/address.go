// Package service contains the business logic for the Fahrtenbuch API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/repo"
)

// AddressService implements business logic for the address book.
// Its central operation is Resolve, which turns a label plus optional
// details into exactly one stored address without discarding data.
type AddressService struct {
	repo repo.AddressRepo
}

// NewAddressService constructs an AddressService backed by the provided AddressRepo.
func NewAddressService(r repo.AddressRepo) *AddressService {
	return &AddressService{repo: r}
}

// List returns all addresses, favorites first, then by label.
func (s *AddressService) List(ctx context.Context) ([]domain.Address, error) {
	addresses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.AddressService.List: %w", err)
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return addresses, nil
}

// Resolve creates the address named by in.Label, or reconciles in with the
// address that already carries that label (ignoring case).
//
// Fields missing on the stored address are filled from in. A field present on
// both sides with different values is a conflict: nothing is written and a
// *domain.ConflictError describing every diverging field is returned.
// A favorite flag in the input can only promote the stored address.
//
// If a concurrent request inserts the same label between lookup and insert,
// the unique index rejects our insert and the input is merged into the winner.
func (s *AddressService) Resolve(ctx context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
	in = normalizeAddressInput(in)
	if in.Label == "" {
		return domain.Address{}, 0, fmt.Errorf("service.AddressService.Resolve: %w",
			domain.NewValidationError("label is required"))
	}

	a, outcome, err := s.resolve(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		a, outcome, err = s.resolve(ctx, in)
	}
	if err != nil {
		return domain.Address{}, 0, fmt.Errorf("service.AddressService.Resolve: %w", err)
	}
	return a, outcome, nil
}

// resolve runs one lookup-then-write pass. in must already be normalized.
func (s *AddressService) resolve(ctx context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
	existing, err := s.repo.FindByLabel(ctx, in.Label)
	if errors.Is(err, domain.ErrNotFound) {
		created, err := s.repo.Create(ctx, domain.Address{
			Label:    in.Label,
			Street:   in.Street,
			Zip:      in.Zip,
			City:     in.City,
			Country:  domain.DefaultCountry,
			Favorite: in.Favorite,
		})
		if err != nil {
			return domain.Address{}, 0, err
		}
		return created, domain.OutcomeCreated, nil
	}
	if err != nil {
		return domain.Address{}, 0, err
	}

	patch, conflicts := reconcile(existing, in)
	if len(conflicts) > 0 {
		return domain.Address{}, 0, &domain.ConflictError{
			Existing: existing,
			Incoming: in,
			Fields:   conflicts,
		}
	}
	if patch.IsEmpty() {
		return existing, domain.OutcomeUnchanged, nil
	}

	updated, err := s.repo.Update(ctx, existing.ID, patch)
	if err != nil {
		return domain.Address{}, 0, err
	}
	return updated, domain.OutcomeMerged, nil
}

// reconcile compares the stored address with normalized input field by field.
// It returns the patch that fills the stored address's gaps and the set of
// fields on which the two disagree.
func reconcile(existing domain.Address, in domain.AddressInput) (domain.AddressPatch, map[string]domain.FieldConflict) {
	var patch domain.AddressPatch
	conflicts := map[string]domain.FieldConflict{}

	mergeField("street", existing.Street, in.Street, &patch.Street, conflicts)
	mergeField("zip", existing.Zip, in.Zip, &patch.Zip, conflicts)
	mergeField("city", existing.City, in.City, &patch.City, conflicts)

	if in.Favorite && !existing.Favorite {
		patch.Favorite = domain.Some(true)
	}
	return patch, conflicts
}

// mergeField decides the outcome for one text field:
// absent input changes nothing, a blank stored value is a gap to fill,
// and two present values that normalize differently conflict.
func mergeField(name string, existing, incoming *string, dst *domain.Optional[*string], conflicts map[string]domain.FieldConflict) {
	if incoming == nil {
		return
	}
	ex := normalizeField(existing)
	if ex == "" {
		*dst = domain.Some(incoming)
		return
	}
	if ex != normalizeField(incoming) {
		conflicts[name] = domain.FieldConflict{Existing: *existing, Incoming: *incoming}
	}
}

// ForceUpdate overwrites the supplied fields of an address unconditionally.
// It is the manual escape hatch after a conflict and performs no conflict
// detection. Supplied blank text clears the field.
// Returns domain.ErrNotFound if the address does not exist.
func (s *AddressService) ForceUpdate(ctx context.Context, id uuid.UUID, patch domain.AddressPatch) (domain.Address, error) {
	patch.Street.Value = cleanText(patch.Street.Value)
	patch.Zip.Value = cleanText(patch.Zip.Value)
	patch.City.Value = cleanText(patch.City.Value)

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Address{}, fmt.Errorf("service.AddressService.ForceUpdate: %w", err)
	}
	return updated, nil
}

// ToggleFavorite flips the favorite flag of an address.
// Returns domain.ErrNotFound if the address does not exist.
func (s *AddressService) ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Address, error) {
	updated, err := s.repo.ToggleFavorite(ctx, id)
	if err != nil {
		return domain.Address{}, fmt.Errorf("service.AddressService.ToggleFavorite: %w", err)
	}
	return updated, nil
}

// normalizeAddressInput trims the label and maps blank optional fields to nil.
func normalizeAddressInput(in domain.AddressInput) domain.AddressInput {
	in.Label = strings.TrimSpace(in.Label)
	in.Street = cleanText(in.Street)
	in.Zip = cleanText(in.Zip)
	in.City = cleanText(in.City)
	return in
}

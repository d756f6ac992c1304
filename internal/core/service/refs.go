package service

import (
	"context"
	"fmt"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// userRefs loads the summaries for ids in one query. Unknown ids are absent
// from the result.
func userRefs(ctx context.Context, users ports.UserRepository, ids ...string) (map[string]*domain.UserRef, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	refs := make(map[string]*domain.UserRef, len(unique))
	if len(unique) == 0 {
		return refs, nil
	}

	found, err := users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load user refs: %w", err)
	}
	for _, u := range found {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}

// requireUser fails with a validation error on field when id does not
// reference an existing user.
func requireUser(ctx context.Context, users ports.UserRepository, field, id string) (*domain.UserRef, error) {
	refs, err := userRefs(ctx, users, id)
	if err != nil {
		return nil, err
	}
	ref, ok := refs[id]
	if !ok {
		return nil, domain.NewValidationError(field, "user does not exist")
	}
	return ref, nil
}

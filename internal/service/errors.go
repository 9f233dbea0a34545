package service

import (
	"context"
	"fmt"

	"wordfriend/internal/domain"
	"wordfriend/internal/repository"
)

// storeErr marks err as a store failure while keeping it inspectable
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, fmt.Sprintf(format, args...))
}

// requireUser fails with ErrNotFound when userID does not exist
func requireUser(ctx context.Context, users repository.UserRepository, userID int64) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return storeErr("load user", err)
	}
	if user == nil {
		return notFound("user %d", userID)
	}
	return nil
}

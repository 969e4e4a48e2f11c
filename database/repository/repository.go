package repository

import (
	"context"
	"fmt"

	callRepo "introcall/database/repository/call"
	invitationRepo "introcall/database/repository/invitation"
	userRepo "introcall/database/repository/user"
)

// Re-export the UserRepository interface and constructor.
type UserRepository = userRepo.UserRepository

var NewMongoUserRepo = userRepo.NewMongoUserRepo

// Re-export the InvitationRepository interface and constructor.
type InvitationRepository = invitationRepo.InvitationRepository

var NewMongoInvitationRepo = invitationRepo.NewMongoInvitationRepo

// Re-export the CallRepository interface and constructor.
type CallRepository = callRepo.CallRepository

var NewMongoCallRepo = callRepo.NewMongoCallRepo

// Repositories groups the persistence layer.
type Repositories struct {
	Users       UserRepository
	Invitations InvitationRepository
	Calls       CallRepository
}

// NewMongoRepositories builds every repository on the global Mongo client.
func NewMongoRepositories() Repositories {
	return Repositories{
		Users:       NewMongoUserRepo(),
		Invitations: NewMongoInvitationRepo(),
		Calls:       NewMongoCallRepo(),
	}
}

// EnsureIndexes creates the indexes of every repository.
func (r Repositories) EnsureIndexes(ctx context.Context) error {
	if err := r.Users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if err := r.Invitations.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("invitations: %w", err)
	}
	if err := r.Calls.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("calls: %w", err)
	}
	return nil
}

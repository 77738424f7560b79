package prefs

import "context"

// ProfileRepository is the subset of repository.PreferenceRepository used here.
type ProfileRepository interface {
	Get(ctx context.Context, profile, key string) (string, bool, error)
	Set(ctx context.Context, profile, key, value string) error
}

// SQLStore binds a preference repository to one profile.
type SQLStore struct {
	repo    ProfileRepository
	profile string
}

func NewSQLStore(repo ProfileRepository, profile string) *SQLStore {
	return &SQLStore{repo: repo, profile: profile}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.repo.Get(ctx, s.profile, key)
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, s.profile, key, value)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"profile-api/internal/domain"
	"profile-api/internal/repository"
)

type mockProfileRepo struct {
	profiles map[string]domain.Profile
	gets     int
	writes   int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]domain.Profile)}
}

func (m *mockProfileRepo) Upsert(_ context.Context, userID, email, displayName string) (domain.Profile, error) {
	m.writes++
	now := time.Now().UTC()
	p, ok := m.profiles[userID]
	if !ok {
		p = domain.Profile{UserID: userID, CreatedAt: now}
	}
	p.Email = email
	p.DisplayName = displayName
	p.UpdatedAt = now
	m.profiles[userID] = p
	return p, nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (domain.Profile, error) {
	m.gets++
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileRepo) UpdateAttributes(_ context.Context, userID string, patch repository.AttributePatch) (domain.Profile, error) {
	m.writes++
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.NickName != nil {
		p.NickName = *patch.NickName
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	p.UpdatedAt = time.Now().UTC()
	m.profiles[userID] = p
	return p, nil
}

func strPtr(s string) *string { return &s }

func TestProfileServiceCreateProfile_RequiresUIDAndEmail(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	_, err := svc.CreateProfile(context.Background(), "u1", CreateProfileInput{UserID: "u1"})
	if !errors.Is(err, ErrProfileInput) {
		t.Fatalf("expected ErrProfileInput, got %v", err)
	}
	_, err = svc.CreateProfile(context.Background(), "u1", CreateProfileInput{Email: "a@x.com"})
	if !errors.Is(err, ErrProfileInput) {
		t.Fatalf("expected ErrProfileInput, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes on invalid input, got %d", repo.writes)
	}
}

func TestProfileServiceCreateProfile_RejectsIdentityMismatch(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	_, err := svc.CreateProfile(context.Background(), "u1", CreateProfileInput{
		UserID: "u2",
		Email:  "a@x.com",
	})
	if !errors.Is(err, ErrProfileForbidden) {
		t.Fatalf("expected ErrProfileForbidden, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes on mismatch, got %d", repo.writes)
	}
}

func TestProfileServiceCreateProfile_IdempotentKeepsAttributes(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	input := CreateProfileInput{UserID: "u1", Email: "a@x.com", DisplayName: "A"}
	if _, err := svc.CreateProfile(context.Background(), "u1", input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{City: strPtr("Paris")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	profile, err := svc.CreateProfile(context.Background(), "u1", input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if profile.City != "Paris" {
		t.Fatalf("expected edited attribute to survive re-signup, got %q", profile.City)
	}
	if len(repo.profiles) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(repo.profiles))
	}
}

func TestProfileServiceGetProfile_NotFound(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	_, err := svc.GetProfile(context.Background(), "missing")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileServiceGetProfile_ServesFromCache(t *testing.T) {
	repo := newMockProfileRepo()
	cache := NewMemoryProfileCache()
	svc := NewProfileService(zap.NewNop(), repo, cache, time.Minute)

	if _, err := svc.CreateProfile(context.Background(), "u1", CreateProfileInput{
		UserID: "u1",
		Email:  "a@x.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetProfile(context.Background(), "u1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if repo.gets != 0 {
		t.Fatalf("expected read served from cache, repo gets = %d", repo.gets)
	}
}

func TestProfileServiceUpdateProfile_RefreshesCache(t *testing.T) {
	repo := newMockProfileRepo()
	cache := NewMemoryProfileCache()
	svc := NewProfileService(zap.NewNop(), repo, cache, time.Minute)

	if _, err := svc.CreateProfile(context.Background(), "u1", CreateProfileInput{
		UserID: "u1",
		Email:  "a@x.com",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{City: strPtr("Paris")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	cached, ok, err := cache.Get("u1")
	if err != nil || !ok {
		t.Fatalf("expected cache entry, got ok=%v err=%v", ok, err)
	}
	if cached.City != "Paris" {
		t.Fatalf("expected refreshed cache entry, got city %q", cached.City)
	}
}

func TestProfileServiceUpdateProfile_NotFound(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	_, err := svc.UpdateProfile(context.Background(), "missing", UpdateProfileInput{City: strPtr("Paris")})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileServiceUpdateProfile_OnlyTouchesWhitelist(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(zap.NewNop(), repo, nil, 0)

	created, err := svc.CreateProfile(context.Background(), "u1", CreateProfileInput{
		UserID:      "u1",
		Email:       "a@x.com",
		DisplayName: "A",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		FullName: strPtr("Alice Smith"),
		Gender:   strPtr("female"),
		NickName: strPtr("ali"),
		Address:  strPtr("1 Main St"),
		City:     strPtr("Paris"),
		Country:  strPtr("France"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.UserID != created.UserID || updated.Email != created.Email || updated.DisplayName != created.DisplayName {
		t.Fatalf("identity fields changed by update: %+v vs %+v", updated, created)
	}
	if updated.FullName != "Alice Smith" || updated.City != "Paris" || updated.Country != "France" {
		t.Fatalf("expected whitelist fields applied, got %+v", updated)
	}
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/core/engagement"
	"github.com/MuhamadAgungGumelar/crm-engagement-be/internal/modules/crm/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientService(t *testing.T) *ClientService {
	t.Helper()
	s := NewClientService(repositories.NewClientRepo(newTestDB(t)))
	s.now = fixedClock
	return s
}

func strPtr(s string) *string { return &s }

func TestClientService_Create(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	client, err := s.Create(ctx, CreateClientInput{
		Name:        "  Ana Pérez ",
		Phone:       "+52 (155) 500-0001",
		Status:      engagement.StatusActive,
		InitialNote: "met at expo",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Pérez", client.Name)
	assert.Equal(t, "+521555000001", client.Phone)
	assert.Equal(t, engagement.StatusActive, client.Status)
	assert.True(t, fixedNow.Equal(client.LastInteractionAt))
	assert.True(t, fixedNow.Equal(client.CreatedAt))
	require.Len(t, client.Interactions, 1)
	assert.Equal(t, "met at expo", client.Interactions[0].Description)
}

func TestClientService_CreateValidation(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	cases := []CreateClientInput{
		{Name: "", Phone: "5550001", Status: engagement.StatusActive},
		{Name: "Ana", Phone: "", Status: engagement.StatusActive},
		{Name: "Ana", Phone: "call me", Status: engagement.StatusActive},
		{Name: "Ana", Phone: "123", Status: engagement.StatusActive},
		{Name: "Ana", Phone: "5550001", Status: "Dormant"},
		{Name: "Ana", Phone: "5550001"},
		{Name: "Ana", Phone: "5550001", Status: engagement.StatusActive, InitialNote: strings.Repeat("x", maxDescriptionLength+1)},
	}
	for _, in := range cases {
		_, err := s.Create(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "input %+v", in)
	}
}

func TestClientService_RejectedCreateStoresNothing(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	in := CreateClientInput{
		Name:        "Ana",
		Phone:       "5550001",
		Status:      engagement.StatusActive,
		InitialNote: strings.Repeat("é", maxDescriptionLength+1),
	}
	_, err := s.Create(ctx, in)
	require.ErrorIs(t, err, ErrValidation)

	all, err := s.List(ctx, repositories.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	// same phone is still free
	in.InitialNote = strings.Repeat("é", maxDescriptionLength)
	client, err := s.Create(ctx, in)
	require.NoError(t, err)
	require.Len(t, client.Interactions, 1)
	assert.True(t, fixedNow.Equal(client.Interactions[0].OccurredAt))
}

func TestClientService_PhoneUniqueness(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, CreateClientInput{Name: "Ana", Phone: "5550001", Status: engagement.StatusActive})
	require.NoError(t, err)

	_, err = s.Create(ctx, CreateClientInput{Name: "Other", Phone: "555-0001", Status: engagement.StatusActive})
	assert.ErrorIs(t, err, ErrPhoneTaken)
	assert.ErrorIs(t, err, ErrValidation)

	second, err := s.Create(ctx, CreateClientInput{Name: "Bea", Phone: "5550002", Status: engagement.StatusActive})
	require.NoError(t, err)

	_, err = s.Update(ctx, second.ID, UpdateClientInput{Phone: strPtr("5550001")})
	assert.ErrorIs(t, err, ErrPhoneTaken)

	// keeping its own phone is fine
	_, err = s.Update(ctx, first.ID, UpdateClientInput{Phone: strPtr("5550001"), Name: strPtr("Ana María")})
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))
	reused, err := s.Create(ctx, CreateClientInput{Name: "Carla", Phone: "5550001", Status: engagement.StatusActive})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, reused.ID)
}

func TestClientService_NotFound(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := s.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = s.Update(ctx, missing, UpdateClientInput{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = s.AddInteraction(ctx, missing, AddInteractionInput{Description: "hi"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	assert.ErrorIs(t, s.Delete(ctx, missing), ErrClientNotFound)

	created, err := s.Create(ctx, CreateClientInput{Name: "Ana", Phone: "5550001", Status: engagement.StatusActive})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrClientNotFound)
}

func TestClientService_AddInteraction(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	old := daysAgo(40)
	client, err := s.Create(ctx, CreateClientInput{Name: "Ana", Phone: "5550001", Status: engagement.StatusPotential, LastInteraction: &old})
	require.NoError(t, err)
	assert.True(t, old.Equal(client.LastInteractionAt))

	when := daysAgo(1)
	updated, err := s.AddInteraction(ctx, client.ID, AddInteractionInput{Description: "called back", Date: &when})
	require.NoError(t, err)
	assert.True(t, when.Equal(updated.LastInteractionAt))
	assert.True(t, fixedNow.Equal(updated.UpdatedAt))

	updated, err = s.AddInteraction(ctx, client.ID, AddInteractionInput{Description: "sent contract"})
	require.NoError(t, err)
	assert.True(t, fixedNow.Equal(updated.LastInteractionAt))

	require.Len(t, updated.Interactions, 2)
	assert.Equal(t, "called back", updated.Interactions[0].Description)
	assert.Equal(t, "sent contract", updated.Interactions[1].Description)

	// status is not changed by new interactions
	assert.Equal(t, engagement.StatusPotential, updated.Status)

	_, err = s.AddInteraction(ctx, client.ID, AddInteractionInput{Description: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientService_ApplyRecommendation(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	old := daysAgo(45)
	client, err := s.Create(ctx, CreateClientInput{Name: "Ana", Phone: "5550001", Status: engagement.StatusActive, LastInteraction: &old})
	require.NoError(t, err)

	res, err := s.ApplyRecommendation(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, engagement.StatusActive, res.PreviousStatus)
	assert.Equal(t, engagement.StatusInactive, res.Client.Status)
	assert.Equal(t, 45, res.Classification.DaysSince)

	res, err = s.ApplyRecommendation(ctx, client.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, engagement.StatusInactive, res.Client.Status)

	_, err = s.ApplyRecommendation(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientService_ListAndStats(t *testing.T) {
	s := newClientService(t)
	ctx := context.Background()

	for i, in := range []CreateClientInput{
		{Name: "Ana", Phone: "5550001", Status: engagement.StatusActive},
		{Name: "Bruno", Phone: "5550002", Status: engagement.StatusPotential},
		{Name: "Carla", Phone: "5550003", Status: engagement.StatusInactive},
	} {
		s.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Minute) }
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, repositories.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Carla", all[0].Name)

	potential, err := s.List(ctx, repositories.ClientFilter{Status: engagement.StatusPotential})
	require.NoError(t, err)
	require.Len(t, potential, 1)
	assert.Equal(t, "Bruno", potential[0].Name)

	_, err = s.List(ctx, repositories.ClientFilter{Status: "Dormant"})
	assert.ErrorIs(t, err, ErrValidation)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Active)
	assert.EqualValues(t, 1, stats.Potential)
	assert.EqualValues(t, 1, stats.Inactive)
}

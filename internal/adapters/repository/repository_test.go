package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/decisiondeck/core/internal/domain/cards"
	"github.com/decisiondeck/core/internal/features"
	"github.com/decisiondeck/core/internal/ports"
)

func newFactory(t *testing.T) *cards.Factory {
	t.Helper()
	registry := cards.NewRegistry()
	require.NoError(t, features.RegisterAll(registry))
	return cards.NewFactory(registry)
}

func TestFixtureRepositoryList(t *testing.T) {
	repo := NewFixtureCardRepository(newFactory(t))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for _, card := range list {
		require.NotEmpty(t, card.ID)
		require.NotEmpty(t, card.Title)
		require.True(t, card.Status.IsValid())
		require.NotEmpty(t, card.Connectors, "connectors fall back to the blueprint")
	}
}

func TestFixtureRepositoryDecodesTypedPayloads(t *testing.T) {
	repo := NewFixtureCardRepository(newFactory(t))

	list, err := repo.List(context.Background())
	require.NoError(t, err)

	types := make(map[cards.TypeID]int)
	for _, card := range list {
		types[card.Type]++
		// Fixture types are registered, so no card decodes to the opaque
		// fallback.
		_, opaque := card.Payload.(cards.OpaquePayload)
		require.False(t, opaque, "card %s", card.ID)
	}
	require.Positive(t, types[cards.TypeCalendar])
	require.Positive(t, types[cards.TypeNotification])
}

func TestFixtureRepositoryCarriesBackendActions(t *testing.T) {
	repo := NewFixtureCardRepository(newFactory(t))

	list, err := repo.List(context.Background())
	require.NoError(t, err)

	var withActions *cards.Card
	for _, card := range list {
		if len(card.Actions) > 0 {
			withActions = card
			break
		}
	}
	require.NotNil(t, withActions, "fixture dataset includes a card with backend actions")
}

func TestHTTPRepositoryMatchesFixtureRepository(t *testing.T) {
	factory := newFactory(t)
	fixtureRepo := NewFixtureCardRepository(factory)

	raw, err := fixtureFS.ReadFile("fixtures/cards.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}))
	defer srv.Close()

	httpRepo := NewHTTPCardRepository(srv.URL, 5*time.Second, factory)

	// Both repositories satisfy the same port and must yield the same
	// collection from the same source data.
	var _ ports.CardRepository = fixtureRepo
	var _ ports.CardRepository = httpRepo

	fromFixture, err := fixtureRepo.List(context.Background())
	require.NoError(t, err)
	fromHTTP, err := httpRepo.List(context.Background())
	require.NoError(t, err)

	require.Equal(t, fromFixture, fromHTTP)
}

func TestHTTPRepositoryNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewHTTPCardRepository(srv.URL, 5*time.Second, newFactory(t))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
}

func TestHTTPRepositoryMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	repo := NewHTTPCardRepository(srv.URL, 5*time.Second, newFactory(t))

	_, err := repo.List(context.Background())
	require.Error(t, err)
}

func TestHTTPRepositoryHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	repo := NewHTTPCardRepository(srv.URL, time.Minute, newFactory(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := repo.List(ctx)
	require.Error(t, err)
}

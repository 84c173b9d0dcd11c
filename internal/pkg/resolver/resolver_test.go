package resolver

import (
	"context"
	"testing"

	"github.com/tipline/tipline/internal/pkg/models"
)

// fakeTeamStore is an in-memory TeamStore.
type fakeTeamStore struct {
	aliases map[string]int64 // "alias|sport" → team id
	abbrevs map[string]int64 // "abbrev|sport" → team id
	created []string
	nextID  int64
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		aliases: map[string]int64{},
		abbrevs: map[string]int64{},
		nextID:  100,
	}
}

func (f *fakeTeamStore) FindTeamIDByAlias(_ context.Context, alias, sport string) (int64, error) {
	return f.aliases[alias+"|"+sport], nil
}

func (f *fakeTeamStore) FindTeamIDByAbbreviation(_ context.Context, abbreviation, sport string) (int64, error) {
	return f.abbrevs[abbreviation+"|"+sport], nil
}

func (f *fakeTeamStore) ListAliasesBySport(_ context.Context, sport string) ([]models.TeamAlias, error) {
	var out []models.TeamAlias
	for key, id := range f.aliases {
		if len(key) > len(sport) && key[len(key)-len(sport):] == sport {
			out = append(out, models.TeamAlias{TeamID: id, Alias: key[:len(key)-len(sport)-1]})
		}
	}
	return out, nil
}

func (f *fakeTeamStore) CreateTeamWithAlias(_ context.Context, name, _, sport, alias string) (int64, error) {
	f.nextID++
	f.created = append(f.created, name)
	f.aliases[alias+"|"+sport] = f.nextID
	return f.nextID, nil
}

func TestResolveExactAlias(t *testing.T) {
	store := newFakeTeamStore()
	store.aliases["boston celtics|basketball"] = 7

	id, err := New(store).ResolveTeamID(context.Background(), "  Boston   Celtics ", models.SportBasketball)
	if err != nil {
		t.Fatal(err)
	}
	if id != 7 {
		t.Fatalf("got team %d, want 7", id)
	}
}

func TestResolveAbbreviation(t *testing.T) {
	store := newFakeTeamStore()
	store.abbrevs["bos|basketball"] = 7

	id, err := New(store).ResolveTeamID(context.Background(), "BOS", models.SportBasketball)
	if err != nil {
		t.Fatal(err)
	}
	if id != 7 {
		t.Fatalf("got team %d, want 7", id)
	}
}

func TestResolveSubstringPrefersLongestAlias(t *testing.T) {
	store := newFakeTeamStore()
	store.aliases["rangers|hockey"] = 1
	store.aliases["ny rangers|hockey"] = 2

	id, err := New(store).ResolveTeamID(context.Background(), "NY Rangers Hockey Club", models.SportHockey)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Fatalf("got team %d, want 2 (longest matching alias)", id)
	}
}

func TestResolveCuratedMissReturnsZero(t *testing.T) {
	store := newFakeTeamStore()

	id, err := New(store).ResolveTeamID(context.Background(), "Harlem Globetrotters", models.SportBasketball)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 {
		t.Fatalf("curated-sport miss should return 0, got %d", id)
	}
	if len(store.created) != 0 {
		t.Fatalf("curated sport must not auto-create teams, created %v", store.created)
	}
}

func TestResolveFootballAutoCreates(t *testing.T) {
	store := newFakeTeamStore()
	r := New(store)

	id, err := r.ResolveTeamID(context.Background(), "FC Unheard Of", models.SportFootball)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("football miss should auto-create a team")
	}
	if len(store.created) != 1 || store.created[0] != "FC Unheard Of" {
		t.Fatalf("unexpected created teams: %v", store.created)
	}

	// Second resolve hits the seeded alias instead of creating again.
	again, err := r.ResolveTeamID(context.Background(), "fc unheard of", models.SportFootball)
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Fatalf("re-resolve created a new team: %d vs %d", again, id)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected exactly one creation, got %v", store.created)
	}
}

func TestResolveEmptyName(t *testing.T) {
	store := newFakeTeamStore()
	id, err := New(store).ResolveTeamID(context.Background(), "   ", models.SportFootball)
	if err != nil {
		t.Fatal(err)
	}
	if id != 0 || len(store.created) != 0 {
		t.Fatal("blank names must resolve to nothing")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Boston   Celtics ", "boston celtics"},
		{"ARSENAL", "arsenal"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package records

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
	"github.com/mohansharma/civicledger/pkg/optional"
)

// # In-Memory Gateway Fakes
//
// The fakes reproduce the storage contract the service depends on: unique
// registration_no (duplicate inserts rejected the way the unique index
// rejects them), NotFound on missing lookups, and created_at-descending
// listing.

type fakeBirthRepo struct {
	mu        sync.Mutex
	docs      map[string]*BirthRecord
	lastLimit int64
}

func newFakeBirthRepo() *fakeBirthRepo {
	return &fakeBirthRepo{docs: map[string]*BirthRecord{}}
}

func (repo *fakeBirthRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (repo *fakeBirthRepo) Insert(ctx context.Context, record *BirthRecord) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.docs[record.RegistrationNo]; exists {
		return "", apperr.DuplicateRegistration("birth")
	}

	stored := *record
	stored.ID = primitive.NewObjectID()
	repo.docs[record.RegistrationNo] = &stored
	return stored.ID.Hex(), nil
}

func (repo *fakeBirthRepo) FindByRegno(ctx context.Context, regno string) (*BirthRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doc, exists := repo.docs[regno]
	if !exists {
		return nil, apperr.NotFound("birth record")
	}
	copy := *doc
	return &copy, nil
}

func (repo *fakeBirthRepo) UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doc, exists := repo.docs[regno]
	if !exists {
		return 0, nil
	}

	for key, value := range fields {
		switch key {
		case "name":
			doc.Name = value.(string)
		case "place":
			doc.Place = value.(string)
		case "sex":
			doc.Sex = value.(Sex)
		case "parents.father":
			doc.Parents.Father = value.(string)
		case "parents.mother":
			doc.Parents.Mother = value.(string)
		}
	}
	return 1, nil
}

func (repo *fakeBirthRepo) Delete(ctx context.Context, regno string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.docs[regno]; !exists {
		return 0, nil
	}
	delete(repo.docs, regno)
	return 1, nil
}

func (repo *fakeBirthRepo) List(ctx context.Context, limit int64) ([]BirthRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastLimit = limit

	records := make([]BirthRecord, 0, len(repo.docs))
	for _, doc := range repo.docs {
		records = append(records, *doc)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (repo *fakeBirthRepo) Search(ctx context.Context, filter Filter, limit int64) ([]BirthRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastLimit = limit

	records := []BirthRecord{}
	for _, doc := range repo.docs {
		if matchesBirth(doc, filter) {
			records = append(records, *doc)
		}
	}
	return records, nil
}

func matchesBirth(doc *BirthRecord, filter Filter) bool {
	for key, want := range filter {
		switch key {
		case "registration_no":
			if doc.RegistrationNo != want {
				return false
			}
		case "name":
			if doc.Name != want {
				return false
			}
		case "place":
			if doc.Place != want {
				return false
			}
		}
	}
	return true
}

type fakeDeathRepo struct {
	mu        sync.Mutex
	docs      map[string]*DeathRecord
	lastLimit int64
}

func newFakeDeathRepo() *fakeDeathRepo {
	return &fakeDeathRepo{docs: map[string]*DeathRecord{}}
}

func (repo *fakeDeathRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (repo *fakeDeathRepo) Insert(ctx context.Context, record *DeathRecord) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.docs[record.RegistrationNo]; exists {
		return "", apperr.DuplicateRegistration("death")
	}

	stored := *record
	stored.ID = primitive.NewObjectID()
	repo.docs[record.RegistrationNo] = &stored
	return stored.ID.Hex(), nil
}

func (repo *fakeDeathRepo) FindByRegno(ctx context.Context, regno string) (*DeathRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doc, exists := repo.docs[regno]
	if !exists {
		return nil, apperr.NotFound("death record")
	}
	copy := *doc
	return &copy, nil
}

func (repo *fakeDeathRepo) UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	doc, exists := repo.docs[regno]
	if !exists {
		return 0, nil
	}

	for key, value := range fields {
		switch key {
		case "name":
			doc.Name = value.(string)
		case "place":
			doc.Place = value.(string)
		case "cause":
			doc.Cause = value.(string)
		}
	}
	return 1, nil
}

func (repo *fakeDeathRepo) Delete(ctx context.Context, regno string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.docs[regno]; !exists {
		return 0, nil
	}
	delete(repo.docs, regno)
	return 1, nil
}

func (repo *fakeDeathRepo) List(ctx context.Context, limit int64) ([]DeathRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastLimit = limit

	records := make([]DeathRecord, 0, len(repo.docs))
	for _, doc := range repo.docs {
		records = append(records, *doc)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if int64(len(records)) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (repo *fakeDeathRepo) Search(ctx context.Context, filter Filter, limit int64) ([]DeathRecord, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastLimit = limit

	records := []DeathRecord{}
	for _, doc := range repo.docs {
		records = append(records, *doc)
	}
	return records, nil
}

func newTestService() (*Service, *fakeBirthRepo, *fakeDeathRepo) {
	births := newFakeBirthRepo()
	deaths := newFakeDeathRepo()
	logger := slog.New(slog.DiscardHandler)
	return NewService(births, deaths, nil, logger), births, deaths
}

// # Service Tests

/*
TestService_CreateBirth_RoundTrip is the concrete round-trip scenario:
create B-001, then fetch with a lowercase registration number and get the
validator's normalized output back.
*/
func TestService_CreateBirth_RoundTrip(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	id, err := service.CreateBirth(ctx, BirthInput{
		RegistrationNo: "B-001",
		Name:           "Asha Rao",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	record, err := service.GetBirth(ctx, "b-001")
	require.NoError(t, err)

	assert.Equal(t, "B-001", record.RegistrationNo)
	assert.Equal(t, "Asha Rao", record.Name)
	assert.True(t, record.DOB.Equal(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, record.CreatedAt.IsZero())
}

/*
TestService_CreateBirth_ValidationBlocksWrite verifies that a failing
payload performs no write: no document appears in storage afterward.
*/
func TestService_CreateBirth_ValidationBlocksWrite(t *testing.T) {
	service, births, _ := newTestService()
	ctx := context.Background()

	inputs := []BirthInput{
		{Name: "Asha Rao", DOB: DateOf(time.Now())},            // missing regno
		{RegistrationNo: "B-001", DOB: DateOf(time.Now())},     // missing name
		{RegistrationNo: "B-001", Name: "Asha Rao"},            // missing dob
		{RegistrationNo: "B-001", Name: "Asha Rao", DOB: DateInput{Present: true, Malformed: true}},
	}

	for _, input := range inputs {
		_, err := service.CreateBirth(ctx, input)
		require.Error(t, err)
	}

	assert.Empty(t, births.docs, "validation failure must never persist a document")
}

/*
TestService_CreateBirth_ConcurrentDuplicate races two creates with the same
registration number: exactly one succeeds and the loser observes
DuplicateRegistration.
*/
func TestService_CreateBirth_ConcurrentDuplicate(t *testing.T) {
	service, births, _ := newTestService()
	ctx := context.Background()

	input := BirthInput{
		RegistrationNo: "B-RACE",
		Name:           "Asha Rao",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CreateBirth(ctx, input)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.IsDuplicate(err):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
	assert.Len(t, births.docs, 1)
}

/*
TestService_UpdateBirth_DisallowedFieldsOnly decodes a payload that tries
to change identity and creation timestamp: it must fail with
NoUpdatableFields and leave the stored document unchanged.
*/
func TestService_UpdateBirth_DisallowedFieldsOnly(t *testing.T) {
	service, births, _ := newTestService()
	ctx := context.Background()

	_, err := service.CreateBirth(ctx, BirthInput{
		RegistrationNo: "B-001",
		Name:           "Asha Rao",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	before := *births.docs["B-001"]

	var update BirthUpdate
	require.NoError(t, json.Unmarshal(
		[]byte(`{"registration_no": "B-999", "created_at": "2030-01-01T00:00:00Z"}`),
		&update,
	))

	_, err = service.UpdateBirth(ctx, "B-001", update)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNoUpdatableFields))
	assert.Equal(t, before, *births.docs["B-001"], "rejected update must not touch storage")
}

/*
TestService_UpdateBirth_TriState exercises the omitted / null / value
semantics of the optional update fields.
*/
func TestService_UpdateBirth_TriState(t *testing.T) {
	service, births, _ := newTestService()
	ctx := context.Background()

	_, err := service.CreateBirth(ctx, BirthInput{
		RegistrationNo: "B-001",
		Name:           "Asha Rao",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
		Place:          "Pune",
		Sex:            "F",
	})
	require.NoError(t, err)

	// place explicitly cleared, name omitted, father set
	var update BirthUpdate
	require.NoError(t, json.Unmarshal(
		[]byte(`{"place": null, "parents": {"father": "Ravi Rao"}}`),
		&update,
	))

	modified, err := service.UpdateBirth(ctx, "b-001", update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	doc := births.docs["B-001"]
	assert.Equal(t, "Asha Rao", doc.Name, "omitted field stays untouched")
	assert.Empty(t, doc.Place, "explicit null clears the field")
	assert.Equal(t, "Ravi Rao", doc.Parents.Father)
	assert.Empty(t, doc.Parents.Mother, "omitted parent stays untouched")
	assert.Equal(t, SexFemale, doc.Sex)
}

func TestService_UpdateBirth_NullNameRejected(t *testing.T) {
	service, _, _ := newTestService()

	var update BirthUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"name": null}`), &update))

	_, err := service.UpdateBirth(context.Background(), "B-001", update)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidName))
}

/*
TestService_DeleteBirth_Missing verifies delete on a non-existent
registration number returns a deleted-count of 0, not an error.
*/
func TestService_DeleteBirth_Missing(t *testing.T) {
	service, _, _ := newTestService()

	deleted, err := service.DeleteBirth(context.Background(), "B-NOPE")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

/*
TestService_CreateDeath_DuplicateScenario is the concrete death scenario:
create D-1 twice with the identical payload; the second call fails with
DuplicateRegistration and list_deaths shows exactly one entry for D-1.
*/
func TestService_CreateDeath_DuplicateScenario(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	input := DeathInput{
		RegistrationNo: "D-1",
		Name:           "Mohan Lal",
		DOD:            DateOf(time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)),
	}

	_, err := service.CreateDeath(ctx, input)
	require.NoError(t, err)

	_, err = service.CreateDeath(ctx, input)
	require.Error(t, err)
	assert.True(t, apperr.IsDuplicate(err))

	listed, err := service.ListDeaths(ctx, 10)
	require.NoError(t, err)

	var matches int
	for _, record := range listed {
		if record.RegistrationNo == "D-1" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

// Birth and death collections are separate namespaces: the same number may
// exist in both.
func TestService_RegnoNamespacesAreIndependent(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.CreateBirth(ctx, BirthInput{
		RegistrationNo: "R-100",
		Name:           "Asha Rao",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	_, err = service.CreateDeath(ctx, DeathInput{
		RegistrationNo: "R-100",
		Name:           "Mohan Lal",
		DOD:            DateOf(time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)),
	})
	assert.NoError(t, err)
}

func TestService_List_DefaultLimit(t *testing.T) {
	service, births, deaths := newTestService()
	ctx := context.Background()

	_, err := service.ListBirths(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(50), births.lastLimit)

	_, err = service.SearchDeaths(ctx, nil, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(50), deaths.lastLimit)
}

func TestService_ListBirths_NewestFirst(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	restore := nowFunc
	defer func() { nowFunc = restore }()

	for i, regno := range []string{"B-001", "B-002", "B-003"} {
		stamp := base.Add(time.Duration(i) * time.Hour)
		nowFunc = func() time.Time { return stamp }

		_, err := service.CreateBirth(ctx, BirthInput{
			RegistrationNo: regno,
			Name:           "Asha Rao",
			DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
	}

	listed, err := service.ListBirths(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "B-003", listed[0].RegistrationNo)
	assert.Equal(t, "B-002", listed[1].RegistrationNo)
}

func TestService_SearchBirths_FilterPassthrough(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	for _, regno := range []string{"B-001", "B-002"} {
		_, err := service.CreateBirth(ctx, BirthInput{
			RegistrationNo: regno,
			Name:           "Asha Rao",
			DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
			Place:          "Pune",
		})
		require.NoError(t, err)
	}

	found, err := service.SearchBirths(ctx, Filter{"registration_no": "B-002"}, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B-002", found[0].RegistrationNo)
}

/*
TestBuildFields_WhitelistOnly pins the set-document assembly to the
published whitelists: a fully-populated update must never produce a key
outside them.
*/
func TestBuildFields_WhitelistOnly(t *testing.T) {
	birthFields, err := buildBirthFields(BirthUpdate{
		Name:  optional.Of("Asha Rao"),
		Place: optional.Of("Pune"),
		Sex:   optional.Of("F"),
		Parents: &ParentsUpdate{
			Father: optional.Of("R. Rao"),
			Mother: optional.Null[string](),
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, birthFields)

	for key := range birthFields {
		root, _, _ := strings.Cut(key, ".")
		assert.Contains(t, BirthUpdatableFields, root, "unexpected set-document key %q", key)
	}

	deathFields, err := buildDeathFields(DeathUpdate{
		Name:  optional.Of("K. Iyer"),
		Place: optional.Null[string](),
		Cause: optional.Of("natural"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, deathFields)

	for key := range deathFields {
		assert.Contains(t, DeathUpdatableFields, key, "unexpected set-document key %q", key)
	}
}

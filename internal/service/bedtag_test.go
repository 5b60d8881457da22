package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbeds/bedtags/internal/domain"
	"github.com/openbeds/bedtags/internal/repo"
	"github.com/openbeds/bedtags/internal/service"
	"github.com/openbeds/bedtags/internal/validator"
)

// ---- mock BedTagRepo -------------------------------------------------------

type mockBedTagRepo struct {
	create          func(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.BedTag, error)
	getByName       func(ctx context.Context, name string) (domain.BedTag, error)
	listAll         func(ctx context.Context) ([]domain.BedTag, error)
	listPaged       func(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) ([]domain.BedTag, int64, error)
	update          func(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)
	void            func(ctx context.Context, id uuid.UUID, at time.Time, reason string) (domain.BedTag, error)
	unvoid          func(ctx context.Context, id uuid.UUID) (domain.BedTag, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	assignToBed     func(ctx context.Context, bedID, tagID uuid.UUID) error
	unassignFromBed func(ctx context.Context, bedID, tagID uuid.UUID) error
	listByBed       func(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error)
}

func (m *mockBedTagRepo) Create(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	return m.create(ctx, tag)
}
func (m *mockBedTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	return m.getByID(ctx, id)
}
func (m *mockBedTagRepo) GetByName(ctx context.Context, name string) (domain.BedTag, error) {
	return m.getByName(ctx, name)
}
func (m *mockBedTagRepo) ListAll(ctx context.Context) ([]domain.BedTag, error) {
	if m.listAll == nil {
		return []domain.BedTag{}, nil
	}
	return m.listAll(ctx)
}
func (m *mockBedTagRepo) ListPaged(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) ([]domain.BedTag, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockBedTagRepo) Update(ctx context.Context, tag domain.BedTag) (domain.BedTag, error) {
	return m.update(ctx, tag)
}
func (m *mockBedTagRepo) Void(ctx context.Context, id uuid.UUID, at time.Time, reason string) (domain.BedTag, error) {
	return m.void(ctx, id, at, reason)
}
func (m *mockBedTagRepo) Unvoid(ctx context.Context, id uuid.UUID) (domain.BedTag, error) {
	return m.unvoid(ctx, id)
}
func (m *mockBedTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockBedTagRepo) AssignToBed(ctx context.Context, bedID, tagID uuid.UUID) error {
	return m.assignToBed(ctx, bedID, tagID)
}
func (m *mockBedTagRepo) UnassignFromBed(ctx context.Context, bedID, tagID uuid.UUID) error {
	return m.unassignFromBed(ctx, bedID, tagID)
}
func (m *mockBedTagRepo) ListByBed(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error) {
	return m.listByBed(ctx, bedID)
}

// compile-time check
var _ repo.BedTagRepo = (*mockBedTagRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// newService wires the real validator to the mock repo, so service tests
// exercise the name rule end to end.
func newService(m *mockBedTagRepo, opts ...validator.Option) *service.BedTagService {
	return service.NewBedTagService(m, validator.New(m, opts...), nil)
}

func stored(name string) domain.BedTag {
	now := time.Now().UTC()
	return domain.BedTag{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
}

func voided(name string) domain.BedTag {
	t := stored(name)
	at := t.CreatedAt
	t.DateVoided = &at
	t.VoidReason = "retired"
	return t
}

func existing(tags ...domain.BedTag) func(context.Context) ([]domain.BedTag, error) {
	return func(context.Context) ([]domain.BedTag, error) { return tags, nil }
}

func byID(tags ...domain.BedTag) func(context.Context, uuid.UUID) (domain.BedTag, error) {
	return func(_ context.Context, id uuid.UUID) (domain.BedTag, error) {
		for _, t := range tags {
			if t.ID == id {
				return t, nil
			}
		}
		return domain.BedTag{}, domain.ErrNotFound
	}
}

func requireFieldCodes(t *testing.T, err error, field string, codes ...string) {
	t.Helper()
	require.ErrorIs(t, err, domain.ErrValidation)
	var errs *domain.Errors
	require.True(t, errors.As(err, &errs), "error should wrap *domain.Errors")
	assert.Equal(t, codes, errs.FieldCodes(field))
}

// ---- Create ----------------------------------------------------------------

func TestBedTagService_Create_OK(t *testing.T) {
	var captured domain.BedTag
	svc := newService(&mockBedTagRepo{
		create: func(_ context.Context, tag domain.BedTag) (domain.BedTag, error) {
			captured = tag
			tag.ID = uuid.New()
			return tag, nil
		},
	})

	got, err := svc.Create(context.Background(), domain.BedTag{Name: "  Isolation  "})

	require.NoError(t, err)
	assert.Equal(t, "Isolation", captured.Name, "name should be trimmed before persisting")
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestBedTagService_Create_IgnoresVoidFields(t *testing.T) {
	var captured domain.BedTag
	svc := newService(&mockBedTagRepo{
		create: func(_ context.Context, tag domain.BedTag) (domain.BedTag, error) {
			captured = tag
			return tag, nil
		},
	})
	at := time.Now()

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "ICU", DateVoided: &at, VoidReason: "x"})

	require.NoError(t, err)
	assert.False(t, captured.Expired())
	assert.Empty(t, captured.VoidReason)
}

func TestBedTagService_Create_EmptyName(t *testing.T) {
	svc := newService(&mockBedTagRepo{})

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "   "})

	requireFieldCodes(t, err, "name", domain.CodeRequired)
}

func TestBedTagService_Create_DuplicateActiveName(t *testing.T) {
	svc := newService(&mockBedTagRepo{listAll: existing(stored("Isolation"))})

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "isolation"})

	requireFieldCodes(t, err, "name", domain.CodeNameAlreadyInUse)
}

func TestBedTagService_Create_DuplicateOfVoided(t *testing.T) {
	svc := newService(&mockBedTagRepo{
		listAll: existing(voided("Maternity")),
		create: func(_ context.Context, tag domain.BedTag) (domain.BedTag, error) {
			return tag, nil
		},
	})

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "Maternity"})

	require.NoError(t, err)
}

func TestBedTagService_Create_TooLong(t *testing.T) {
	svc := newService(&mockBedTagRepo{}, validator.WithSchema(validator.Schema{"name": 3}))

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "Isolation"})

	requireFieldCodes(t, err, "name", domain.CodeExceededMaxLength)
}

func TestBedTagService_Create_RepoConflict(t *testing.T) {
	svc := newService(&mockBedTagRepo{
		create: func(context.Context, domain.BedTag) (domain.BedTag, error) {
			return domain.BedTag{}, domain.ErrConflict
		},
	})

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "ICU"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBedTagService_Create_LookupFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := newService(&mockBedTagRepo{
		listAll: func(context.Context) ([]domain.BedTag, error) { return nil, boom },
	})

	_, err := svc.Create(context.Background(), domain.BedTag{Name: "ICU"})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

// ---- Check -----------------------------------------------------------------

func TestBedTagService_Check(t *testing.T) {
	svc := newService(&mockBedTagRepo{listAll: existing(stored("ICU"))})

	errs, err := svc.Check(context.Background(), domain.BedTag{Name: " icu "})

	require.NoError(t, err)
	assert.Equal(t, []string{domain.CodeNameAlreadyInUse}, errs.FieldCodes("name"))
}

func TestBedTagService_Check_Clean(t *testing.T) {
	svc := newService(&mockBedTagRepo{})

	errs, err := svc.Check(context.Background(), domain.BedTag{Name: "ICU"})

	require.NoError(t, err)
	assert.False(t, errs.HasErrors())
}

// ---- Update ----------------------------------------------------------------

func TestBedTagService_Update_OK(t *testing.T) {
	tag := stored("ICU")
	var captured domain.BedTag
	svc := newService(&mockBedTagRepo{
		listAll: existing(tag),
		getByID: byID(tag),
		update: func(_ context.Context, t domain.BedTag) (domain.BedTag, error) {
			captured = t
			return t, nil
		},
	})

	got, err := svc.Update(context.Background(), domain.BedTag{ID: tag.ID, Name: "ICU North"})

	require.NoError(t, err)
	assert.Equal(t, "ICU North", got.Name)
	assert.Equal(t, tag.CreatedAt, captured.CreatedAt, "stored fields are kept")
}

func TestBedTagService_Update_SameNameIsNotDuplicate(t *testing.T) {
	tag := stored("ICU")
	svc := newService(&mockBedTagRepo{
		listAll: existing(tag),
		getByID: byID(tag),
		update:  func(_ context.Context, t domain.BedTag) (domain.BedTag, error) { return t, nil },
	})

	_, err := svc.Update(context.Background(), domain.BedTag{ID: tag.ID, Name: "icu"})

	require.NoError(t, err)
}

func TestBedTagService_Update_RenameOntoActiveName(t *testing.T) {
	icu, iso := stored("ICU"), stored("Isolation")
	svc := newService(&mockBedTagRepo{
		listAll: existing(icu, iso),
		getByID: byID(icu, iso),
	})

	_, err := svc.Update(context.Background(), domain.BedTag{ID: iso.ID, Name: "ICU"})

	requireFieldCodes(t, err, "name", domain.CodeNameAlreadyInUse)
}

func TestBedTagService_Update_VoidedTagPolicy(t *testing.T) {
	active, old := stored("ICU"), voided("Old ICU")
	m := &mockBedTagRepo{
		listAll: existing(active, old),
		getByID: byID(active, old),
		update:  func(_ context.Context, t domain.BedTag) (domain.BedTag, error) { return t, nil },
	}

	t.Run("existing-active rejects", func(t *testing.T) {
		_, err := newService(m).Update(context.Background(), domain.BedTag{ID: old.ID, Name: "ICU"})
		requireFieldCodes(t, err, "name", domain.CodeNameAlreadyInUse)
	})

	t.Run("both-active allows", func(t *testing.T) {
		svc := newService(m, validator.WithPolicy(validator.PolicyBothActive))
		got, err := svc.Update(context.Background(), domain.BedTag{ID: old.ID, Name: "ICU"})
		require.NoError(t, err)
		assert.True(t, got.Expired(), "renaming keeps the void state")
	})
}

func TestBedTagService_Update_NotFound(t *testing.T) {
	svc := newService(&mockBedTagRepo{getByID: byID()})

	_, err := svc.Update(context.Background(), domain.BedTag{ID: uuid.New(), Name: "ICU"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Void / Unvoid ---------------------------------------------------------

func TestBedTagService_Void_OK(t *testing.T) {
	tag := stored("ICU")
	var capturedReason string
	svc := newService(&mockBedTagRepo{
		getByID: byID(tag),
		void: func(_ context.Context, id uuid.UUID, at time.Time, reason string) (domain.BedTag, error) {
			capturedReason = reason
			tag.DateVoided = &at
			tag.VoidReason = reason
			return tag, nil
		},
	})

	got, err := svc.Void(context.Background(), tag.ID, " ward closed ")

	require.NoError(t, err)
	assert.True(t, got.Expired())
	assert.Equal(t, "ward closed", capturedReason)
}

func TestBedTagService_Void_ReasonRequired(t *testing.T) {
	svc := newService(&mockBedTagRepo{})

	_, err := svc.Void(context.Background(), uuid.New(), "  ")

	requireFieldCodes(t, err, "voidReason", domain.CodeVoidReasonRequired)
}

func TestBedTagService_Void_AlreadyVoided(t *testing.T) {
	tag := voided("ICU")
	svc := newService(&mockBedTagRepo{getByID: byID(tag)})

	got, err := svc.Void(context.Background(), tag.ID, "again")

	require.NoError(t, err)
	assert.Equal(t, tag, got)
}

func TestBedTagService_Unvoid_OK(t *testing.T) {
	tag := voided("Maternity")
	svc := newService(&mockBedTagRepo{
		listAll: existing(tag),
		getByID: byID(tag),
		unvoid: func(_ context.Context, id uuid.UUID) (domain.BedTag, error) {
			restored := tag
			restored.DateVoided = nil
			return restored, nil
		},
	})

	got, err := svc.Unvoid(context.Background(), tag.ID)

	require.NoError(t, err)
	assert.False(t, got.Expired())
}

func TestBedTagService_Unvoid_NameTaken(t *testing.T) {
	old, current := voided("Maternity"), stored("Maternity")
	svc := newService(&mockBedTagRepo{
		listAll: existing(old, current),
		getByID: byID(old, current),
	})

	_, err := svc.Unvoid(context.Background(), old.ID)

	requireFieldCodes(t, err, "name", domain.CodeNameAlreadyInUse)
}

func TestBedTagService_Unvoid_ActiveIsNoop(t *testing.T) {
	tag := stored("ICU")
	svc := newService(&mockBedTagRepo{getByID: byID(tag)})

	got, err := svc.Unvoid(context.Background(), tag.ID)

	require.NoError(t, err)
	assert.Equal(t, tag, got)
}

// ---- Purge / Get / List ----------------------------------------------------

func TestBedTagService_Purge(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	svc := newService(&mockBedTagRepo{
		delete: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	})

	require.NoError(t, svc.Purge(context.Background(), id))
	assert.Equal(t, id, deleted)
}

func TestBedTagService_GetByID_NotFound(t *testing.T) {
	svc := newService(&mockBedTagRepo{getByID: byID()})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBedTagService_List(t *testing.T) {
	var captured domain.BedTagFilter
	svc := newService(&mockBedTagRepo{
		listPaged: func(_ context.Context, f domain.BedTagFilter, _ domain.PaginationParams) ([]domain.BedTag, int64, error) {
			captured = f
			return nil, 0, nil
		},
	})

	got, err := svc.List(context.Background(), domain.BedTagFilter{Prefix: " ic "}, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.Equal(t, "ic", captured.Prefix)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.Equal(t, 20, got.Limit)
}

// ---- bed assignments -------------------------------------------------------

func TestBedTagService_AssignToBed_OK(t *testing.T) {
	tag, bedID := stored("ICU"), uuid.New()
	var linked [2]uuid.UUID
	svc := newService(&mockBedTagRepo{
		getByID: byID(tag),
		assignToBed: func(_ context.Context, b, tg uuid.UUID) error {
			linked = [2]uuid.UUID{b, tg}
			return nil
		},
	})

	got, err := svc.AssignToBed(context.Background(), bedID, tag.ID)

	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)
	assert.Equal(t, [2]uuid.UUID{bedID, tag.ID}, linked)
}

func TestBedTagService_AssignToBed_VoidedTag(t *testing.T) {
	tag := voided("ICU")
	svc := newService(&mockBedTagRepo{getByID: byID(tag)})

	_, err := svc.AssignToBed(context.Background(), uuid.New(), tag.ID)

	require.ErrorIs(t, err, domain.ErrValidation)
	var errs *domain.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.HasGlobalErrors())
}

func TestBedTagService_AssignToBed_UnknownTag(t *testing.T) {
	svc := newService(&mockBedTagRepo{getByID: byID()})

	_, err := svc.AssignToBed(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBedTagService_ListByBed_ReturnsEmptySlice(t *testing.T) {
	svc := newService(&mockBedTagRepo{
		listByBed: func(context.Context, uuid.UUID) ([]domain.BedTag, error) { return nil, nil },
	})

	got, err := svc.ListByBed(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBedTagService_UnassignFromBed_NotLinked(t *testing.T) {
	svc := newService(&mockBedTagRepo{
		unassignFromBed: func(context.Context, uuid.UUID, uuid.UUID) error {
			return domain.ErrNotFound
		},
	})

	err := svc.UnassignFromBed(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"simonev/internal/audit"
	"simonev/internal/progress"
	"simonev/internal/progress/mocks"
	dErrors "simonev/pkg/domain-errors"
	"simonev/pkg/sentinel"
)

var testClock = func() time.Time {
	return time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func newService(t *testing.T, store progress.Store, opts ...progress.Option) *progress.Service {
	t.Helper()
	opts = append(opts, progress.WithClock(testClock))
	svc, err := progress.New(store, opts...)
	require.NoError(t, err)
	return svc
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := progress.New(nil)
	assert.Error(t, err)
}

func TestInitStages_CreatesFullPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(nil, nil)
	store.EXPECT().CreateAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []*progress.StageRecord) error {
			require.Len(t, records, progress.NumStages)
			for i, rec := range records {
				assert.Equal(t, i+1, rec.Stage)
				assert.Equal(t, kegiatanID, rec.KegiatanID)
				assert.Len(t, rec.Substeps, progress.SubstepCount(i+1))
			}
			return nil
		})

	records, err := svc.InitStages(context.Background(), kegiatanID)
	require.NoError(t, err)
	assert.Len(t, records, progress.NumStages)
}

func TestInitStages_ConflictWhenAlreadyInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	existing := progress.NewPipeline(kegiatanID, testClock())
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(existing, nil)

	_, err := svc.InitStages(context.Background(), kegiatanID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestInitStages_MapsStoreConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(nil, nil)
	store.EXPECT().CreateAll(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := svc.InitStages(context.Background(), kegiatanID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestStageRecords_NotFoundWhenEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(nil, nil)

	_, err := svc.StageRecords(context.Background(), kegiatanID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCompleteSubstep_StampsRealizedDateAndAudits(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	cache := mocks.NewMockCache(ctrl)
	recorder := mocks.NewMockAuditRecorder(ctrl)
	svc := newService(t, store, progress.WithCache(cache), progress.WithRecorder(recorder))

	kegiatanID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, 2, testClock())
	store.EXPECT().Get(gomock.Any(), kegiatanID, 2).Return(record, nil)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated *progress.StageRecord) error {
			assert.True(t, updated.Substeps[1].Completed)
			require.NotNil(t, updated.Substeps[1].RealizedDate)
			assert.Equal(t, testClock(), *updated.Substeps[1].RealizedDate)
			return nil
		})
	cache.EXPECT().Invalidate(gomock.Any(), kegiatanID).Return(nil)
	recorder.EXPECT().Success(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, entry audit.Entry) {
			assert.Equal(t, audit.ActionComplete, entry.Action)
			assert.Equal(t, audit.EntityTahap, entry.Entity)
			assert.Equal(t, record.ID.String(), entry.EntityID)
		})

	updated, err := svc.CompleteSubstep(context.Background(), kegiatanID, 2, 1)
	require.NoError(t, err)
	assert.True(t, updated.Substeps[1].Completed)
}

func TestCompleteSubstep_KeepsExistingRealizedDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, 1, testClock())
	realized := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	record.Substeps[0].RealizedDate = &realized

	store.EXPECT().Get(gomock.Any(), kegiatanID, 1).Return(record, nil)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	updated, err := svc.CompleteSubstep(context.Background(), kegiatanID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, realized, *updated.Substeps[0].RealizedDate)
}

func TestCompleteSubstep_IdempotentWhenAlreadyDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, 1, testClock())
	record.Substeps[0].Completed = true
	store.EXPECT().Get(gomock.Any(), kegiatanID, 1).Return(record, nil)
	// No Update expected.

	_, err := svc.CompleteSubstep(context.Background(), kegiatanID, 1, 0)
	assert.NoError(t, err)
}

func TestCompleteSubstep_RejectsBadCoordinates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()

	_, err := svc.CompleteSubstep(context.Background(), kegiatanID, 9, 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	record, _ := progress.NewStageRecord(kegiatanID, 1, testClock())
	store.EXPECT().Get(gomock.Any(), kegiatanID, 1).Return(record, nil)
	_, err = svc.CompleteSubstep(context.Background(), kegiatanID, 1, 3)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestSetSubstepDates_RequiresAtLeastOneDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, 3, testClock())
	store.EXPECT().Get(gomock.Any(), kegiatanID, 3).Return(record, nil)

	_, err := svc.SetSubstepDates(context.Background(), kegiatanID, 3, 0, nil, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestSetSubstepDates_UpdatesOnlySuppliedDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	kegiatanID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, 3, testClock())
	existing := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	record.Substeps[2].RealizedDate = &existing

	planned := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	store.EXPECT().Get(gomock.Any(), kegiatanID, 3).Return(record, nil)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	updated, err := svc.SetSubstepDates(context.Background(), kegiatanID, 3, 2, &planned, nil)
	require.NoError(t, err)
	assert.Equal(t, planned, *updated.Substeps[2].PlannedDate)
	assert.Equal(t, existing, *updated.Substeps[2].RealizedDate)
}

func TestAttachFile_TargetsFinalStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	recorder := mocks.NewMockAuditRecorder(ctrl)
	svc := newService(t, store, progress.WithRecorder(recorder))

	kegiatanID := uuid.New()
	fileID := uuid.New()
	record, _ := progress.NewStageRecord(kegiatanID, progress.NumStages, testClock())
	store.EXPECT().Get(gomock.Any(), kegiatanID, progress.NumStages).Return(record, nil)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	recorder.EXPECT().Success(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, entry audit.Entry) {
			assert.Equal(t, audit.ActionUpload, entry.Action)
			assert.Equal(t, audit.EntityFile, entry.Entity)
			assert.Equal(t, fileID.String(), entry.EntityID)
		})

	updated, err := svc.AttachFile(context.Background(), kegiatanID, fileID)
	require.NoError(t, err)
	require.NotNil(t, updated.FileID)
	assert.Equal(t, fileID, *updated.FileID)
}

func TestAttachFile_RejectsNilFileID(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	_, err := svc.AttachFile(context.Background(), uuid.New(), uuid.Nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestProgress_ServesFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	cache := mocks.NewMockCache(ctrl)
	svc := newService(t, store, progress.WithCache(cache))

	kegiatanID := uuid.New()
	cached := &progress.Rollup{KegiatanID: kegiatanID.String(), OverallPercentage: 42}
	cache.EXPECT().GetRollup(gomock.Any(), kegiatanID).Return(cached, nil)
	// Store is never consulted on a hit.

	rollup, err := svc.Progress(context.Background(), kegiatanID)
	require.NoError(t, err)
	assert.Equal(t, 42, rollup.OverallPercentage)
}

func TestProgress_ComputesAndFillsCacheOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	cache := mocks.NewMockCache(ctrl)
	svc := newService(t, store, progress.WithCache(cache))

	kegiatanID := uuid.New()
	records := progress.NewPipeline(kegiatanID, testClock())
	for i := range records[0].Substeps {
		records[0].Substeps[i].Completed = true
	}

	cache.EXPECT().GetRollup(gomock.Any(), kegiatanID).Return(nil, sentinel.ErrNotFound)
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(records, nil)
	cache.EXPECT().SetRollup(gomock.Any(), kegiatanID, gomock.Any()).Return(nil)

	rollup, err := svc.Progress(context.Background(), kegiatanID)
	require.NoError(t, err)
	assert.Equal(t, 100, rollup.StagePercentages[0])
	assert.Equal(t, 12, rollup.OverallPercentage) // 100/8 truncated
}

func TestProgress_BrokenCacheDegradesToComputation(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	cache := mocks.NewMockCache(ctrl)
	svc := newService(t, store, progress.WithCache(cache))

	kegiatanID := uuid.New()
	records := progress.NewPipeline(kegiatanID, testClock())

	cache.EXPECT().GetRollup(gomock.Any(), kegiatanID).Return(nil, errors.New("connection refused"))
	store.EXPECT().ListByKegiatan(gomock.Any(), kegiatanID).Return(records, nil)
	cache.EXPECT().SetRollup(gomock.Any(), kegiatanID, gomock.Any()).Return(errors.New("connection refused"))

	rollup, err := svc.Progress(context.Background(), kegiatanID)
	require.NoError(t, err)
	assert.Equal(t, 0, rollup.OverallPercentage)
}

func TestProgressForAll_PreservesOrderAndSkipsMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	withRecords := uuid.New()
	without := uuid.New()
	records := progress.NewPipeline(withRecords, testClock())

	store.EXPECT().ListByKegiatan(gomock.Any(), withRecords).Return(records, nil)
	store.EXPECT().ListByKegiatan(gomock.Any(), without).Return(nil, nil)

	rollups, err := svc.ProgressForAll(context.Background(), []uuid.UUID{withRecords, without})
	require.NoError(t, err)
	require.Len(t, rollups, 2)
	require.NotNil(t, rollups[0])
	assert.Equal(t, withRecords.String(), rollups[0].KegiatanID)
	assert.Nil(t, rollups[1])
}

func TestProgressForAll_PropagatesStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	svc := newService(t, store)

	id := uuid.New()
	store.EXPECT().ListByKegiatan(gomock.Any(), id).Return(nil, errors.New("db down"))

	_, err := svc.ProgressForAll(context.Background(), []uuid.UUID{id})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

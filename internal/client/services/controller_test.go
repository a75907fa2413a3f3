package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/gateway"
	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway returns preset results and records every call. Uploads of a
// payload whose name has a gate block until the gate is closed.
type fakeGateway struct {
	mu sync.Mutex

	folder    models.Folder
	createErr error

	gates     map[string]chan struct{}
	uploadErr map[string]error

	deleteErr       map[string]error
	deleteFolderErr error

	createCalls   []string
	uploadCalls   []string
	deleteCalls   []string
	folderDeletes []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		folder:    models.Folder{Ref: "f1"},
		gates:     map[string]chan struct{}{},
		uploadErr: map[string]error{},
		deleteErr: map[string]error{},
	}
}

func (f *fakeGateway) gate(name string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[name] = ch
	return ch
}

func (f *fakeGateway) CreateFolder(ctx context.Context, name, description string) (models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, name)
	return f.folder, f.createErr
}

func (f *fakeGateway) UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error) {
	f.mu.Lock()
	gate := f.gates[p.Name]
	f.uploadCalls = append(f.uploadCalls, p.Name)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErr[p.Name]; err != nil {
		return "", err
	}
	return "ref-" + p.Name, nil
}

func (f *fakeGateway) DeleteFile(ctx context.Context, remoteRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, remoteRef)
	return f.deleteErr[remoteRef]
}

func (f *fakeGateway) DeleteFolder(ctx context.Context, folderRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folderDeletes = append(f.folderDeletes, folderRef)
	return f.deleteFolderErr
}

func (f *fakeGateway) deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func newTestController(gw gateway.Gateway) (*controller, *ventures.MemoryRepository) {
	repo := ventures.NewMemoryRepository()
	c := NewController(gw, repo, logging.Discard()).(*controller)
	return c, repo
}

func payload(name string) models.Payload {
	return models.Payload{Name: name, Size: int64(len(name)), Data: []byte(name)}
}

func seedVenture(t *testing.T, repo ventures.Repository, files ...models.AttachedFile) string {
	t.Helper()
	require.NoError(t, repo.Add(models.Venture{ID: "v1", Name: "Tower A", FolderRef: "f1", Files: files}))
	return "v1"
}

func files(t *testing.T, repo ventures.Repository, id string) []models.AttachedFile {
	t.Helper()
	v, err := repo.Get(id)
	require.NoError(t, err)
	return v.Files
}

// ---- CreateVenture ----

func TestCreateVenture_StoresAfterFolderCreated(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)

	v, err := c.CreateVenture(context.Background(), "  Tower A ", " north ")
	require.NoError(t, err)

	assert.Equal(t, "Tower A", v.Name)
	assert.Equal(t, "north", v.Description)
	assert.Equal(t, "f1", v.FolderRef)
	assert.NotEmpty(t, v.ID)
	assert.False(t, v.CreatedAt.IsZero())

	got, err := repo.Get(v.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Files)
	assert.Equal(t, []string{"Tower A"}, gw.createCalls)
}

func TestCreateVenture_UsesBackendID(t *testing.T) {
	gw := newFakeGateway()
	gw.folder = models.Folder{ID: "backend-7", Ref: "f7"}
	c, _ := newTestController(gw)

	v, err := c.CreateVenture(context.Background(), "Tower B", "")
	require.NoError(t, err)
	assert.Equal(t, "backend-7", v.ID)
}

func TestCreateVenture_InvalidName(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)

	_, err := c.CreateVenture(context.Background(), "   ", "")
	require.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, gw.createCalls)
	assert.Empty(t, repo.List())
}

func TestCreateVenture_FolderFailureAddsNothing(t *testing.T) {
	gw := newFakeGateway()
	gw.createErr = gateway.ErrBackendUnavailable
	c, repo := newTestController(gw)

	_, err := c.CreateVenture(context.Background(), "Tower A", "")
	require.ErrorIs(t, err, gateway.ErrCreationFailed)
	require.ErrorIs(t, err, gateway.ErrBackendUnavailable)
	assert.Empty(t, repo.List())
}

func TestCreateVenture_IDsAreUnique(t *testing.T) {
	gw := newFakeGateway()
	gw.folder = models.Folder{ID: "same", Ref: "f"}
	c, repo := newTestController(gw)

	for i := 0; i < 20; i++ {
		_, err := c.CreateVenture(context.Background(), fmt.Sprintf("v%d", i), "")
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for _, v := range repo.List() {
		require.False(t, seen[v.ID], "duplicate id %s", v.ID)
		seen[v.ID] = true
	}
	assert.Len(t, seen, 20)
}

// ---- UploadFiles ----

func TestUploadFiles_EachRecordReachesOneTerminalStatus(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo)

	const n = 10
	var batch []models.Payload
	var gates []chan struct{}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("file-%02d.pdf", i)
		batch = append(batch, payload(name))
		gates = append(gates, gw.gate(name))
		if i%3 == 0 {
			gw.uploadErr[name] = fmt.Errorf("%w: disk full", gateway.ErrUploadFailed)
		}
	}

	tokens, err := c.UploadFiles(context.Background(), id, batch)
	require.NoError(t, err)
	require.Len(t, tokens, n)

	for _, f := range files(t, repo, id) {
		assert.Equal(t, models.FileUploading, f.Status)
	}

	// release in reverse submission order
	for i := n - 1; i >= 0; i-- {
		close(gates[i])
	}
	c.Wait()

	got := files(t, repo, id)
	require.Len(t, got, n)
	for i, f := range got {
		assert.Equal(t, tokens[i], f.Token)
		assert.Equal(t, batch[i].Name, f.Payload.Name)
		if i%3 == 0 {
			assert.Equal(t, models.FileError, f.Status)
			assert.Empty(t, f.RemoteRef)
			assert.Contains(t, f.Error, "disk full")
		} else {
			assert.Equal(t, models.FileCompleted, f.Status)
			assert.Equal(t, "ref-"+batch[i].Name, f.RemoteRef)
		}
	}
}

func TestUploadFiles_EmptyBatch(t *testing.T) {
	c, repo := newTestController(newFakeGateway())
	id := seedVenture(t, repo)

	tokens, err := c.UploadFiles(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Nil(t, tokens)
	assert.Empty(t, files(t, repo, id))
}

func TestUploadFiles_NoRemoteFolder(t *testing.T) {
	c, repo := newTestController(newFakeGateway())
	require.NoError(t, repo.Add(models.Venture{ID: "v", Name: "local"}))

	_, err := c.UploadFiles(context.Background(), "v", []models.Payload{payload("a")})
	require.ErrorIs(t, err, ErrNoRemoteFolder)
}

func TestUploadFiles_UnknownVenture(t *testing.T) {
	c, _ := newTestController(newFakeGateway())

	_, err := c.UploadFiles(context.Background(), "missing", []models.Payload{payload("a")})
	require.ErrorIs(t, err, ventures.ErrNotFound)
}

func TestUploadFiles_CallerCancelDoesNotCancelUpload(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo)
	gate := gw.gate("a")

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.UploadFiles(ctx, id, []models.Payload{payload("a")})
	require.NoError(t, err)
	cancel()
	close(gate)
	c.Wait()

	assert.Equal(t, models.FileCompleted, files(t, repo, id)[0].Status)
}

func TestUploadFiles_ResultAfterVentureDeletedIsDropped(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo)
	gate := gw.gate("a")

	_, err := c.UploadFiles(context.Background(), id, []models.Payload{payload("a")})
	require.NoError(t, err)

	require.NoError(t, c.DeleteVenture(context.Background(), id))
	close(gate)
	c.Wait()

	assert.Empty(t, repo.List())
}

// ---- DeleteFile ----

func TestDeleteFile_Completed(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("a", models.FileCompleted, "r"), rec("b", models.FileCompleted, "r-b"))

	require.NoError(t, c.DeleteFile(context.Background(), id, "a"))

	assert.Equal(t, []string{"r"}, gw.deletes())
	assert.Empty(t, cmp.Diff([]models.AttachedFile{rec("b", models.FileCompleted, "r-b")}, files(t, repo, id)))
}

func TestDeleteFile_FailureKeepsRecordAsError(t *testing.T) {
	gw := newFakeGateway()
	gw.deleteErr["r"] = errors.New("503 from backend")
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("a", models.FileCompleted, "r"))

	err := c.DeleteFile(context.Background(), id, "a")
	require.ErrorIs(t, err, gateway.ErrDeleteFailed)

	got := files(t, repo, id)
	require.Len(t, got, 1)
	assert.Equal(t, models.FileError, got[0].Status)
	assert.Equal(t, "r", got[0].RemoteRef)
	assert.Contains(t, got[0].Error, "delete failed")
	assert.Equal(t, []string{"r"}, gw.deletes())

	// retry succeeds
	delete(gw.deleteErr, "r")
	require.NoError(t, c.DeleteFile(context.Background(), id, "a"))
	assert.Empty(t, files(t, repo, id))
}

func TestDeleteFile_NeverUploadedErrorIsLocal(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("a", models.FileError, ""))

	require.NoError(t, c.DeleteFile(context.Background(), id, "a"))
	assert.Empty(t, files(t, repo, id))
	assert.Empty(t, gw.deletes())
}

func TestDeleteFile_Refusals(t *testing.T) {
	c, repo := newTestController(newFakeGateway())
	id := seedVenture(t, repo, rec("up", models.FileUploading, ""), rec("del", models.FileDeleting, "r"))

	require.ErrorIs(t, c.DeleteFile(context.Background(), id, "up"), ErrFileBusy)
	require.ErrorIs(t, c.DeleteFile(context.Background(), id, "del"), ErrFileBusy)
	require.ErrorIs(t, c.DeleteFile(context.Background(), id, "nope"), ErrFileNotFound)
	require.ErrorIs(t, c.DeleteFile(context.Background(), "missing", "up"), ventures.ErrNotFound)
}

// ---- ClearFiles ----

func TestClearFiles_PartialFailureRollsBackEverything(t *testing.T) {
	gw := newFakeGateway()
	gw.deleteErr["r-b"] = errors.New("boom")
	c, repo := newTestController(gw)

	before := []models.AttachedFile{
		rec("A", models.FileCompleted, "r-a"),
		rec("B", models.FileCompleted, "r-b"),
		{Token: "C", Payload: models.Payload{Name: "C.bin"}, Status: models.FileError, Error: "upload failed"},
	}
	id := seedVenture(t, repo, before...)

	err := c.ClearFiles(context.Background(), id)
	require.ErrorIs(t, err, gateway.ErrDeleteFailed)

	assert.Empty(t, cmp.Diff(before, files(t, repo, id)))

	calls := gw.deletes()
	sort.Strings(calls)
	assert.Equal(t, []string{"r-a", "r-b"}, calls)
}

func TestClearFiles_Success(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo,
		rec("A", models.FileCompleted, "r-a"),
		rec("B", models.FileError, ""),
	)

	require.NoError(t, c.ClearFiles(context.Background(), id))
	assert.Empty(t, files(t, repo, id))
	assert.Equal(t, []string{"r-a"}, gw.deletes())
}

func TestClearFiles_LeavesInFlightRecords(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo,
		rec("A", models.FileCompleted, "r-a"),
		rec("U", models.FileUploading, ""),
	)

	require.NoError(t, c.ClearFiles(context.Background(), id))
	assert.Empty(t, cmp.Diff([]models.AttachedFile{rec("U", models.FileUploading, "")}, files(t, repo, id)))
}

func TestClearFiles_ShowsDeletingWhileInFlight(t *testing.T) {
	gw := &blockingDeleteGateway{fakeGateway: newFakeGateway(), release: make(chan struct{}), started: make(chan struct{}, 2)}
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("A", models.FileCompleted, "r-a"), rec("B", models.FileCompleted, "r-b"))

	done := make(chan error, 1)
	go func() { done <- c.ClearFiles(context.Background(), id) }()

	<-gw.started
	<-gw.started
	for _, f := range files(t, repo, id) {
		assert.Equal(t, models.FileDeleting, f.Status)
	}

	close(gw.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ClearFiles did not return")
	}
	assert.Empty(t, files(t, repo, id))
}

type blockingDeleteGateway struct {
	*fakeGateway
	release chan struct{}
	started chan struct{}
}

func (g *blockingDeleteGateway) DeleteFile(ctx context.Context, ref string) error {
	g.started <- struct{}{}
	<-g.release
	return g.fakeGateway.DeleteFile(ctx, ref)
}

// removingGateway deletes the venture from the store while the remote
// delete is in flight, then confirms the delete.
type removingGateway struct {
	*fakeGateway
	repo *ventures.MemoryRepository
	id   string
}

func (g *removingGateway) DeleteFile(ctx context.Context, ref string) error {
	g.repo.Remove(g.id)
	return g.fakeGateway.DeleteFile(ctx, ref)
}

func TestDeleteFile_VentureRemovedDuringConfirmedDelete(t *testing.T) {
	gw := &removingGateway{fakeGateway: newFakeGateway()}
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("a", models.FileCompleted, "r"))
	gw.repo, gw.id = repo, id

	require.NoError(t, c.DeleteFile(context.Background(), id, "a"))
	assert.Equal(t, []string{"r"}, gw.deletes())
	assert.Empty(t, repo.List())
}

func TestClearFiles_VentureRemovedDuringConfirmedDelete(t *testing.T) {
	gw := &removingGateway{fakeGateway: newFakeGateway()}
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("a", models.FileCompleted, "r"))
	gw.repo, gw.id = repo, id

	require.NoError(t, c.ClearFiles(context.Background(), id))
	assert.Equal(t, []string{"r"}, gw.deletes())
}

func TestClearFiles_NothingToClear(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo)

	require.NoError(t, c.ClearFiles(context.Background(), id))
	assert.Empty(t, gw.deletes())
}

// ---- DeleteVenture ----

func TestDeleteVenture(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("A", models.FileCompleted, "r-a"))

	require.NoError(t, c.DeleteVenture(context.Background(), id))
	assert.Equal(t, []string{"f1"}, gw.folderDeletes)
	assert.Empty(t, repo.List())
}

func TestDeleteVenture_FailureKeepsVenture(t *testing.T) {
	gw := newFakeGateway()
	gw.deleteFolderErr = gateway.ErrBackendUnavailable
	c, repo := newTestController(gw)
	id := seedVenture(t, repo, rec("A", models.FileCompleted, "r-a"))
	before, _ := repo.Get(id)

	err := c.DeleteVenture(context.Background(), id)
	require.ErrorIs(t, err, gateway.ErrDeleteFailed)
	require.ErrorIs(t, err, gateway.ErrBackendUnavailable)

	after, err := repo.Get(id)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestDeleteVenture_WithoutFolderIsLocal(t *testing.T) {
	gw := newFakeGateway()
	c, repo := newTestController(gw)
	require.NoError(t, repo.Add(models.Venture{ID: "v", Name: "local"}))

	require.NoError(t, c.DeleteVenture(context.Background(), "v"))
	assert.Empty(t, gw.folderDeletes)
	assert.Empty(t, repo.List())
}

func TestUpdateVenture(t *testing.T) {
	c, repo := newTestController(newFakeGateway())
	id := seedVenture(t, repo)
	name := "Tower A2"

	require.NoError(t, c.UpdateVenture(id, ventures.Patch{Name: &name}))
	v, _ := repo.Get(id)
	assert.Equal(t, "Tower A2", v.Name)
}

// ---- end to end ----

func TestWalkthrough_TowerA(t *testing.T) {
	gw := newFakeGateway()
	gw.uploadErr["second.pdf"] = fmt.Errorf("%w: connection reset", gateway.ErrUploadFailed)
	firstGate := gw.gate("first.pdf")
	secondGate := gw.gate("second.pdf")
	c, repo := newTestController(gw)
	ctx := context.Background()

	v, err := c.CreateVenture(ctx, "Tower A", "")
	require.NoError(t, err)
	require.Len(t, repo.List(), 1)
	assert.Equal(t, "f1", v.FolderRef)
	assert.Empty(t, files(t, repo, v.ID))

	tokens, err := c.UploadFiles(ctx, v.ID, []models.Payload{payload("first.pdf"), payload("second.pdf")})
	require.NoError(t, err)
	for _, f := range files(t, repo, v.ID) {
		assert.Equal(t, models.FileUploading, f.Status)
	}

	close(firstGate)
	require.Eventually(t, func() bool {
		f, _ := mustGet(repo, v.ID).FileByToken(tokens[0])
		return f.Status == models.FileCompleted
	}, 2*time.Second, 5*time.Millisecond)

	first, _ := mustGet(repo, v.ID).FileByToken(tokens[0])
	assert.Equal(t, "ref-first.pdf", first.RemoteRef)

	close(secondGate)
	c.Wait()

	second, _ := mustGet(repo, v.ID).FileByToken(tokens[1])
	assert.Equal(t, models.FileError, second.Status)
	assert.Contains(t, second.Error, "connection reset")

	require.NoError(t, c.DeleteFile(ctx, v.ID, tokens[0]))

	final := files(t, repo, v.ID)
	require.Len(t, final, 1)
	assert.Equal(t, tokens[1], final[0].Token)
	assert.Equal(t, models.FileError, final[0].Status)
}

func mustGet(repo ventures.Repository, id string) models.Venture {
	v, _ := repo.Get(id)
	return v
}

package diff_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tablediff/core/binary"
	corediff "tablediff/core/diff"
	"tablediff/core/storage/mocks"
	"tablediff/feature/diff"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T, db *gorm.DB, client *mocks.Client) *fiber.App {
	t.Helper()
	app := fiber.New()
	feature := diff.NewFeature(client, "datasets", zap.NewNop(), db, corediff.Config{
		Workers:          2,
		BatchSize:        2,
		ContentBatchSize: 2,
		ChunkSize:        2,
	})
	require.NoError(t, feature.Load(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHandler_ComparePrimaryKey(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := newTestApp(t, nil, new(mocks.Client))

		resp := doJSON(t, app, "POST", "/diff/primary-key", compareFixture())
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var res corediff.Result
		decodeJSON(t, resp, &res)
		assert.Len(t, res.Added, 1)
		assert.Len(t, res.Removed, 1)
		assert.Len(t, res.Modified, 1)
		assert.Len(t, res.Unchanged, 1)
		assert.Equal(t, corediff.ModePrimaryKey, res.Mode)
		assert.Equal(t, []string{"id"}, res.KeyColumns)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		app := newTestApp(t, nil, new(mocks.Client))

		req := httptest.NewRequest("POST", "/diff/primary-key", bytes.NewReader([]byte("{oops")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, 2000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingKeyColumnMessagePassesThrough", func(t *testing.T) {
		app := newTestApp(t, nil, new(mocks.Client))

		body := compareFixture()
		body.Options.KeyColumns = []string{"ghost"}
		resp := doJSON(t, app, "POST", "/diff/primary-key", body)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var errBody map[string]string
		decodeJSON(t, resp, &errBody)
		assert.Equal(t, `primary key column "ghost" not found in source dataset`, errBody["error"])
	})

	t.Run("DuplicateKeyMessagePassesThrough", func(t *testing.T) {
		app := newTestApp(t, nil, new(mocks.Client))

		body := diff.CompareRequest{
			Source:  diff.DatasetRef{Headers: []string{"id"}, Rows: [][]string{{"1"}, {"1"}}},
			Target:  diff.DatasetRef{Headers: []string{"id"}, Rows: [][]string{{"2"}}},
			Options: corediff.Options{KeyColumns: []string{"id"}},
		}
		resp := doJSON(t, app, "POST", "/diff/primary-key", body)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var errBody map[string]string
		decodeJSON(t, resp, &errBody)
		assert.Equal(t, `duplicate primary key "1" in source dataset: primary keys must be unique`, errBody["error"])
	})

	t.Run("BinaryFormat", func(t *testing.T) {
		app := newTestApp(t, nil, new(mocks.Client))

		resp := doJSON(t, app, "POST", "/diff/primary-key?binary=true", compareFixture())
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))

		payload, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		decoded, err := binary.NewCodec().Decode(payload)
		require.NoError(t, err)
		assert.Len(t, decoded.Modified, 1)
	})
}

func TestHandler_CompareContent(t *testing.T) {
	app := newTestApp(t, nil, new(mocks.Client))

	body := compareFixture()
	body.Options = corediff.Options{}
	resp := doJSON(t, app, "POST", "/diff/content", body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res corediff.Result
	decodeJSON(t, resp, &res)
	assert.Equal(t, corediff.ModeContent, res.Mode)
	assert.Empty(t, res.KeyColumns)
}

func pollRun(t *testing.T, app *fiber.App, id, query string) *http.Response {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := app.Test(httptest.NewRequest("GET", "/diff/runs/"+id+query, nil), 2000)
		require.NoError(t, err)
		if resp.StatusCode != fiber.StatusAccepted {
			return resp
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("run did not finish in time")
	return nil
}

func TestHandler_ChunkedLifecycle(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "datasets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("RemoveObject", mock.Anything, "datasets", mock.Anything, mock.Anything).
		Return(nil)
	app := newTestApp(t, newServiceDB(t), client)

	// Start the run
	resp := doJSON(t, app, "POST", "/diff/chunked", diff.ChunkedRequest{
		CompareRequest: compareFixture(),
		ChunkSize:      2,
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var run diff.DiffRun
	decodeJSON(t, resp, &run)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, diff.RunStatusPending, run.Status)

	// Poll until the merged result replaces the status payload
	final := pollRun(t, app, run.ID, "?word_diff=true")
	require.Equal(t, fiber.StatusOK, final.StatusCode)

	var res corediff.Result
	decodeJSON(t, final, &res)
	assert.Len(t, res.Added, 1)
	assert.Len(t, res.Modified, 1)
	assert.Equal(t, []string{"id", "name"}, res.Source.Headers)
	assert.Equal(t, []string{"id"}, res.KeyColumns)
	require.NotEmpty(t, res.Modified[0].Differences)
	assert.NotEmpty(t, res.Modified[0].Differences[0].WordDiff)

	// The run shows up in the listing with its summary counts
	listResp := doJSON(t, app, "GET", "/diff/runs", nil)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)
	var runs []diff.DiffRun
	decodeJSON(t, listResp, &runs)
	require.Len(t, runs, 1)
	assert.Equal(t, diff.RunStatusCompleted, runs[0].Status)
	assert.Equal(t, 4, runs[0].Total)

	// Binary download
	binResp := doJSON(t, app, "GET", "/diff/runs/"+run.ID+"/binary", nil)
	require.Equal(t, fiber.StatusOK, binResp.StatusCode)
	assert.Equal(t, "application/octet-stream", binResp.Header.Get("Content-Type"))
	assert.Contains(t, binResp.Header.Get("Content-Disposition"), run.ID)
	payload, err := io.ReadAll(binResp.Body)
	require.NoError(t, err)
	_, err = binary.NewCodec().Decode(payload)
	require.NoError(t, err)

	// Delete and verify it is gone
	delResp := doJSON(t, app, "DELETE", "/diff/runs/"+run.ID, nil)
	require.Equal(t, fiber.StatusOK, delResp.StatusCode)

	gone := doJSON(t, app, "GET", "/diff/runs/"+run.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, gone.StatusCode)
}

func TestHandler_ChunkedValidation(t *testing.T) {
	t.Run("NoKeyColumns", func(t *testing.T) {
		app := newTestApp(t, newServiceDB(t), new(mocks.Client))

		body := diff.ChunkedRequest{CompareRequest: compareFixture()}
		body.Options.KeyColumns = nil
		resp := doJSON(t, app, "POST", "/diff/chunked", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownRun", func(t *testing.T) {
		app := newTestApp(t, newServiceDB(t), new(mocks.Client))

		resp := doJSON(t, app, "GET", "/diff/runs/does-not-exist", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestHandler_NoDatabaseDegrades(t *testing.T) {
	app := newTestApp(t, nil, new(mocks.Client))

	// Synchronous comparisons still work without a database
	resp := doJSON(t, app, "POST", "/diff/primary-key", compareFixture())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Run persistence and table listings answer 503
	resp = doJSON(t, app, "POST", "/diff/chunked", diff.ChunkedRequest{CompareRequest: compareFixture()})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/diff/runs", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/diff/tables", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandler_ListDatasets(t *testing.T) {
	ch := make(chan minio.ObjectInfo, 2)
	ch <- minio.ObjectInfo{Key: "orders.csv", Size: 42}
	ch <- minio.ObjectInfo{Key: "notes.txt", Size: 7}
	close(ch)

	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "datasets", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))
	app := newTestApp(t, nil, client)

	resp := doJSON(t, app, "GET", "/diff/datasets", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var objects []diff.DatasetObject
	decodeJSON(t, resp, &objects)
	require.Len(t, objects, 1)
	assert.Equal(t, "orders.csv", objects[0].Name)
	assert.Equal(t, int64(42), objects[0].Size)
}

func TestHandler_ListTables(t *testing.T) {
	db := newServiceDB(t)
	require.NoError(t, db.Exec("CREATE TABLE customers (id INTEGER)").Error)
	app := newTestApp(t, db, new(mocks.Client))

	resp := doJSON(t, app, "GET", "/diff/tables", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var tables []string
	decodeJSON(t, resp, &tables)
	assert.Contains(t, tables, "customers")
}

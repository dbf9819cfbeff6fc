package catalog_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"etlcheck/internal/catalog"
	"etlcheck/internal/dialect"
	"etlcheck/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const samplePayload = `{"tables":[
  {"schema":"dbo","tableName":"Customer","columns":[
    {"name":"Id","dataType":"int","isNullable":false},
    {"name":"Name","dataType":"nvarchar","isNullable":true,"maxLength":100},
    {"name":"Notes","dataType":"nvarchar","isNullable":true,"maxLength":-1}
  ],"primaryKey":["Id"]},
  {"schema":"dbo","tableName":"","columns":[]}
]}`

func TestDecodePayload(t *testing.T) {
	db, err := catalog.DecodePayload([]byte(samplePayload))
	require.NoError(t, err)
	require.Equal(t, 1, db.TableCount())
	assert.Equal(t, 3, db.ColumnCount())

	tbl := db.Tables[0]
	assert.Equal(t, "dbo.Customer", tbl.FullName)
	assert.Equal(t, []string{"Id"}, tbl.PrimaryKey)
	require.NotNil(t, tbl.Columns[1].MaxLength)
	assert.Equal(t, 100, *tbl.Columns[1].MaxLength)
	assert.Nil(t, tbl.Columns[2].MaxLength)
	assert.True(t, tbl.Columns[1].IsNullable)
}

func TestDecodePayload_NoTables(t *testing.T) {
	for _, raw := range []string{``, `{}`, `{"tables":null}`, `{"tables":"nope"}`, `[{"tableName":"x"}]`} {
		_, err := catalog.DecodePayload([]byte(raw))
		assert.ErrorIs(t, err, catalog.ErrNoTables, "payload %q", raw)
	}
	_, err := catalog.DecodePayload([]byte(`{"tables":[`))
	assert.Error(t, err)
}

type fakeAgent struct {
	submitErr error
	statuses  []catalog.JobStatus
	polls     int32
}

func (a *fakeAgent) SubmitSchemaJob(ctx context.Context, id string) (string, error) {
	if a.submitErr != nil {
		return "", a.submitErr
	}
	return "job-" + id, nil
}

func (a *fakeAgent) JobStatus(ctx context.Context, jobID string) (*catalog.JobStatus, error) {
	n := int(atomic.AddInt32(&a.polls, 1)) - 1
	if n >= len(a.statuses) {
		n = len(a.statuses) - 1
	}
	st := a.statuses[n]
	return &st, nil
}

func TestJobFetcher_PollsUntilSuccess(t *testing.T) {
	agent := &fakeAgent{statuses: []catalog.JobStatus{
		{Status: catalog.JobPending},
		{Status: catalog.JobRunning},
		{Status: catalog.JobSucceeded, Payload: json.RawMessage(samplePayload)},
	}}
	f := &catalog.JobFetcher{Agent: agent, PollInterval: time.Millisecond, Timeout: time.Second, Log: zap.NewNop()}

	db, err := f.Fetch(context.Background(), "src")
	require.NoError(t, err)
	assert.Equal(t, 1, db.TableCount())
	assert.EqualValues(t, 3, atomic.LoadInt32(&agent.polls))
}

func TestJobFetcher_JobFailed(t *testing.T) {
	agent := &fakeAgent{statuses: []catalog.JobStatus{
		{Status: catalog.JobRunning},
		{Status: catalog.JobFailed, Error: "login failed for user"},
	}}
	f := &catalog.JobFetcher{Agent: agent, PollInterval: time.Millisecond, Timeout: time.Second}

	_, err := f.Fetch(context.Background(), "src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed for user")
}

func TestJobFetcher_Timeout(t *testing.T) {
	agent := &fakeAgent{statuses: []catalog.JobStatus{{Status: catalog.JobRunning}}}
	f := &catalog.JobFetcher{Agent: agent, PollInterval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}

	_, err := f.Fetch(context.Background(), "src")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJobFetcher_SubmitError(t *testing.T) {
	f := &catalog.JobFetcher{Agent: &fakeAgent{submitErr: errors.New("503")}}
	_, err := f.Fetch(context.Background(), "src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to submit schema job")
}

func TestHTTPAgent(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/schema-jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "warehouse", body["connectionId"])
		_ = json.NewEncoder(w).Encode(map[string]string{"jobId": "42"})
	})
	mux.HandleFunc("/schema-jobs/42", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 2 {
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "running"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"succeeded","payload":` + samplePayload + `}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := &catalog.JobFetcher{
		Agent:        catalog.NewHTTPAgent(srv.URL+"/", srv.Client()),
		PollInterval: time.Millisecond,
		Timeout:      time.Second,
	}
	db, err := f.Fetch(context.Background(), "warehouse")
	require.NoError(t, err)
	assert.Equal(t, "Customer", db.Tables[0].Name)
}

func TestHTTPAgent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := catalog.NewHTTPAgent(srv.URL, nil).SubmitSchemaJob(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "agent offline")
}

func TestSQLFetcher_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.db")
	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = seed.Exec(`CREATE TABLE stg_customer (customer_id INTEGER PRIMARY KEY, full_name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	f := &catalog.SQLFetcher{Connections: catalog.Connections{{Name: "stage", Dialect: "sqlite", DSN: path}}}
	db, err := f.Fetch(context.Background(), "stage")
	require.NoError(t, err)
	require.Equal(t, 1, db.TableCount())
	assert.Equal(t, "stg_customer", db.Tables[0].Name)
	assert.Equal(t, []string{"customer_id"}, db.Tables[0].PrimaryKey)
}

func TestSQLFetcher_MySQLResolvesDatabase(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	d := dialect.GetDialect("mysql")

	mock.ExpectQuery("SELECT DATABASE()").WillReturnRows(sqlmock.NewRows([]string{"DATABASE()"}).AddRow("shop"))
	mock.ExpectQuery(d.GetTablesQuery("shop")).WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_SCHEMA", "TABLE_NAME"}).AddRow("shop", "orders"))
	mock.ExpectQuery(d.GetColumnsQuery("shop")).WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}).AddRow("shop", "orders", "id", "int", nil, "NO"))
	mock.ExpectQuery(d.GetPrimaryKeysQuery("shop")).WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c"}))
	mock.ExpectQuery(d.GetForeignKeysQuery("shop")).WithArgs("shop").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e"}))
	mock.ExpectClose()

	var openedDriver string
	f := &catalog.SQLFetcher{
		Connections: catalog.Connections{{Name: "src", Driver: "mysql", DSN: "root@tcp(db)/"}},
		Open: func(driver, dsn string) (*sql.DB, error) {
			openedDriver = driver
			return mockDB, nil
		},
	}
	db, err := f.Fetch(context.Background(), "src")
	require.NoError(t, err)
	assert.Equal(t, "mysql", openedDriver)
	assert.Equal(t, "shop.orders", db.Tables[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFetcher_UnknownConnection(t *testing.T) {
	f := &catalog.SQLFetcher{}
	_, err := f.Fetch(context.Background(), "nowhere")
	assert.ErrorIs(t, err, catalog.ErrUnknownConnection)
}

func TestSQLFetcher_NoDriver(t *testing.T) {
	f := &catalog.SQLFetcher{Connections: catalog.Connections{{Name: "sf", Dialect: "snowflake"}}}
	_, err := f.Fetch(context.Background(), "sf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database/sql driver")
}

func TestMultiFetcher_Routes(t *testing.T) {
	var sqlCalls, remoteCalls int32
	m := &catalog.MultiFetcher{
		Connections: catalog.Connections{{Name: "local"}, {Name: "remote", AgentURL: "http://agent"}},
		SQL: catalog.FetcherFunc(func(ctx context.Context, id string) (*schema.Database, error) {
			atomic.AddInt32(&sqlCalls, 1)
			return oneTable(id), nil
		}),
		Remote: func(conn catalog.Connection) catalog.Fetcher {
			assert.Equal(t, "http://agent", conn.AgentURL)
			return catalog.FetcherFunc(func(ctx context.Context, id string) (*schema.Database, error) {
				atomic.AddInt32(&remoteCalls, 1)
				return oneTable(id), nil
			})
		},
	}

	_, err := m.Fetch(context.Background(), "local")
	require.NoError(t, err)
	_, err = m.Fetch(context.Background(), "remote")
	require.NoError(t, err)
	_, err = m.Fetch(context.Background(), "absent")
	assert.ErrorIs(t, err, catalog.ErrUnknownConnection)

	assert.EqualValues(t, 1, sqlCalls)
	assert.EqualValues(t, 1, remoteCalls)
}

func TestNewFetcher(t *testing.T) {
	m := catalog.NewFetcher(catalog.Connections{{Name: "a"}}, catalog.FetcherOptions{PollInterval: time.Second})
	require.NotNil(t, m.SQL)
	require.NotNil(t, m.Remote)
	jf, ok := m.Remote(catalog.Connection{AgentURL: "http://x/"}).(*catalog.JobFetcher)
	require.True(t, ok)
	assert.Equal(t, time.Second, jf.PollInterval)
	agent, ok := jf.Agent.(*catalog.HTTPAgent)
	require.True(t, ok)
	assert.Equal(t, "http://x", agent.BaseURL)
}

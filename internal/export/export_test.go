package export

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/filestore"
	"github.com/dbcove/dbcove/internal/logger"
)

type fakeSynth struct {
	doc *ddl.Document
	err error
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string, typ ddl.ObjectType, name string) (*ddl.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type fakeStore struct {
	buckets    []string
	putKey     string
	putContent string
	putSize    int64
	putErr     error
	presignErr error
	listed     filestore.ListOptions
	objects    []filestore.ObjectInfo
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

func (f *fakeStore) EnsureBucket(_ context.Context, bucket string) error {
	f.buckets = append(f.buckets, bucket)
	return nil
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, body io.Reader, size int64) (*filestore.ObjectInfo, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.putKey = key
	f.putContent = string(raw)
	f.putSize = size
	return &filestore.ObjectInfo{Key: key, Size: size, ContentType: filestore.ContentTypeSQL}, nil
}

func (f *fakeStore) Stat(_ context.Context, _, key string) (*filestore.ObjectInfo, error) {
	return &filestore.ObjectInfo{Key: key}, nil
}

func (f *fakeStore) List(_ context.Context, _ string, opts filestore.ListOptions) ([]filestore.ObjectInfo, error) {
	f.listed = opts
	return f.objects, nil
}

func (f *fakeStore) PresignGetURL(_ context.Context, _, key string, _ time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://store.local/" + key, nil
}

func newTestExporter(synth Synthesizer, store filestore.Store) *Exporter {
	e := New(synth, store, "ddl-exports", logger.Nop())
	e.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	}
	return e
}

func TestExport(t *testing.T) {
	doc := &ddl.Document{ObjectType: ddl.ObjectTable, Name: "USERS", SQL: `CREATE TABLE "USERS" ();`}
	store := &fakeStore{}
	e := newTestExporter(&fakeSynth{doc: doc}, store)

	res, err := e.Export(context.Background(), "crm-prod", ddl.ObjectTable, "users")
	require.NoError(t, err)

	assert.Equal(t, "exports/crm-prod/table/USERS-20260314T092653Z.sql", res.Key)
	assert.Equal(t, int64(len(doc.SQL)), res.Size)
	assert.Equal(t, "https://store.local/"+res.Key, res.DownloadURL)

	assert.Equal(t, []string{"ddl-exports"}, store.buckets)
	assert.Equal(t, doc.SQL, store.putContent)
}

func TestExport_SynthesisFailureUploadsNothing(t *testing.T) {
	store := &fakeStore{}
	e := newTestExporter(&fakeSynth{err: errs.New(errs.ErrKindNotFound, `table "GHOST" not found`)}, store)

	_, err := e.Export(context.Background(), "crm-prod", ddl.ObjectTable, "ghost")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Empty(t, store.buckets)
	assert.Empty(t, store.putKey)
}

func TestExport_PutFailurePropagates(t *testing.T) {
	doc := &ddl.Document{ObjectType: ddl.ObjectTable, Name: "USERS", SQL: "x"}
	store := &fakeStore{putErr: errs.New(errs.ErrKindPersistenceFailed, "upload failed")}
	e := newTestExporter(&fakeSynth{doc: doc}, store)

	_, err := e.Export(context.Background(), "crm-prod", ddl.ObjectTable, "users")
	require.Error(t, err)
	assert.True(t, errs.IsPersistenceFailed(err))
}

func TestExport_PresignFailureIsNotFatal(t *testing.T) {
	doc := &ddl.Document{ObjectType: ddl.ObjectView, Name: "V_OPEN", SQL: "CREATE VIEW ..."}
	store := &fakeStore{presignErr: errors.New("presign unsupported")}
	e := newTestExporter(&fakeSynth{doc: doc}, store)

	res, err := e.Export(context.Background(), "crm-prod", ddl.ObjectView, "v_open")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Key)
	assert.Empty(t, res.DownloadURL)
}

func TestPrevious(t *testing.T) {
	store := &fakeStore{objects: []filestore.ObjectInfo{{Key: "exports/crm-prod/table/USERS-1.sql"}}}
	e := newTestExporter(&fakeSynth{}, store)

	got, err := e.Previous(context.Background(), "crm-prod", 25)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "exports/crm-prod/", store.listed.Prefix)
	assert.Equal(t, 25, store.listed.Limit)
}

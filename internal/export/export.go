// Package export persists synthesized DDL documents to the configured
// object store and hands back download links.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/filestore"
	"github.com/dbcove/dbcove/internal/logger"
)

// DownloadTTL is how long a presigned export link stays valid.
const DownloadTTL = 15 * time.Minute

// Synthesizer is the slice of the DDL engine the exporter needs.
type Synthesizer interface {
	Synthesize(ctx context.Context, id string, typ ddl.ObjectType, name string) (*ddl.Document, error)
}

// Result describes one stored export.
type Result struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

// Exporter synthesizes DDL and writes it to the export bucket.
type Exporter struct {
	synth  Synthesizer
	store  filestore.Store
	bucket string
	log    *logger.Logger
	now    func() time.Time
}

// New creates an Exporter over synth and store, writing into bucket.
func New(synth Synthesizer, store filestore.Store, bucket string, log *logger.Logger) *Exporter {
	return &Exporter{
		synth:  synth,
		store:  store,
		bucket: bucket,
		log:    log,
		now:    time.Now,
	}
}

// objectKey builds a stable, listable layout:
// exports/<connection>/<type>/<NAME>-<UTC timestamp>.sql
func (e *Exporter) objectKey(id string, typ ddl.ObjectType, name string) string {
	stamp := e.now().UTC().Format("20060102T150405Z")
	return fmt.Sprintf("exports/%s/%s/%s-%s.sql", id, typ, name, stamp)
}

// Export synthesizes the DDL for one object, uploads it, and returns the
// stored key plus a time-limited download URL.
func (e *Exporter) Export(ctx context.Context, id string, typ ddl.ObjectType, name string) (*Result, error) {
	doc, err := e.synth.Synthesize(ctx, id, typ, name)
	if err != nil {
		return nil, err
	}

	if err := e.store.EnsureBucket(ctx, e.bucket); err != nil {
		return nil, err
	}

	key := e.objectKey(id, typ, doc.Name)
	body := strings.NewReader(doc.SQL)
	info, err := e.store.Put(ctx, e.bucket, key, body, int64(len(doc.SQL)))
	if err != nil {
		return nil, err
	}

	url, err := e.store.PresignGetURL(ctx, e.bucket, key, DownloadTTL)
	if err != nil {
		// The object is stored; a missing link is not worth failing the
		// export over.
		e.log.With().Str("key", key).Err(err).Logger().Warn("presign failed after export")
		url = ""
	}

	e.log.With().
		Str("connection", id).
		Str("object", doc.Name).
		Str("key", key).
		Logger().
		Info("ddl exported")

	return &Result{Key: info.Key, Size: info.Size, DownloadURL: url}, nil
}

// Previous lists earlier exports for one connection, newest-first by the
// backend's listing order.
func (e *Exporter) Previous(ctx context.Context, id string, limit int) ([]filestore.ObjectInfo, error) {
	return e.store.List(ctx, e.bucket, filestore.ListOptions{
		Prefix: "exports/" + id + "/",
		Limit:  limit,
	})
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/couchbase/gocb/v2"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/roster"
)

// rosterDocKey is the single document the whole roster snapshot lives under.
const rosterDocKey = "medimap/roster"

// CouchbaseConfig carries the connection settings, usually read from env in
// main.
type CouchbaseConfig struct {
	URL      string
	Username string
	Password string
	Bucket   string
}

// Couchbase stores the roster snapshot as one JSON document.
type Couchbase struct {
	cluster *gocb.Cluster
	bucket  *gocb.Bucket
}

// NewCouchbase connects to the cluster and waits for the bucket to be ready.
func NewCouchbase(cfg CouchbaseConfig) (*Couchbase, error) {
	log.Info().
		Str("url", cfg.URL).
		Str("bucket", cfg.Bucket).
		Msg("Creating Couchbase connection")

	cluster, err := gocb.Connect(cfg.URL, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{Username: cfg.Username, Password: cfg.Password},
	})
	if err != nil {
		return nil, fmt.Errorf("connect cluster: %w", err)
	}

	bucket := cluster.Bucket(cfg.Bucket)
	err = bucket.WaitUntilReady(30*time.Second, &gocb.WaitUntilReadyOptions{
		ServiceTypes: []gocb.ServiceType{gocb.ServiceTypeKeyValue},
	})
	if err != nil {
		return nil, fmt.Errorf("bucket not ready: %w", err)
	}

	log.Info().Msg("Couchbase connection created successfully")
	return &Couchbase{cluster: cluster, bucket: bucket}, nil
}

// Load implements Store. A missing snapshot document is not an error: it
// just means a fresh install.
func (c *Couchbase) Load(ctx context.Context) ([]roster.Patient, error) {
	col := c.bucket.DefaultCollection()
	res, err := col.Get(rosterDocKey, &gocb.GetOptions{Context: ctx})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get roster document: %w", err)
	}

	var patients []roster.Patient
	if err := res.Content(&patients); err != nil {
		return nil, fmt.Errorf("decode roster document: %w", err)
	}
	return patients, nil
}

// Save implements Store.
func (c *Couchbase) Save(ctx context.Context, patients []roster.Patient) error {
	col := c.bucket.DefaultCollection()
	_, err := col.Upsert(rosterDocKey, patients, &gocb.UpsertOptions{Context: ctx})
	if err != nil {
		return fmt.Errorf("upsert roster document: %w", err)
	}
	return nil
}

// Close implements Store.
func (c *Couchbase) Close() error {
	if c.cluster != nil {
		return c.cluster.Close(nil)
	}
	return nil
}

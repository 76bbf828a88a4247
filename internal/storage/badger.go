package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"curator/internal/domain"
)

const resourcePrefix = "resource:"

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
	now func() time.Time
}

// NewBadgerRepository opens (or creates) the database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.Info("BadgerDB opened successfully at path: ", dbPath)

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
		now: time.Now,
	}, nil
}

// Close closes the BadgerDB database.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

// Format: resource:{id}
func resourceKey(id string) []byte {
	return []byte(resourcePrefix + id)
}

// Insert stores a new resource. The write fails if the id is already taken,
// so an existing row is never overwritten.
func (r *BadgerRepository) Insert(ctx context.Context, res *domain.Resource) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.now().UTC()
	}
	log := r.log.WithFields(logrus.Fields{
		"id":      res.ID,
		"user_id": res.UserID,
		"url":     res.URL,
	})

	payload, err := json.Marshal(res)
	if err != nil {
		log.WithError(err).Error("Failed to marshal resource to JSON")
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	key := resourceKey(res.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("resource %s already exists", res.ID)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, payload))
	})
	if err != nil {
		log.WithError(err).Error("Failed to insert resource into BadgerDB")
		return fmt.Errorf("failed to insert resource: %w", err)
	}

	log.Info("Resource inserted")
	return nil
}

// List scans every stored resource, keeps the ones owned by userID and sorts
// them newest first.
func (r *BadgerRepository) List(ctx context.Context, userID string) ([]domain.Resource, error) {
	log := r.log.WithField("user_id", userID)

	resources := []domain.Resource{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(resourcePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var res domain.Resource
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &res)
			})
			if err != nil {
				return fmt.Errorf("failed to decode resource for key %s: %w", string(item.Key()), err)
			}
			if userID != "" && res.UserID != userID {
				continue
			}
			resources = append(resources, res)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to list resources from BadgerDB")
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})

	log.WithField("resource_count", len(resources)).Debug("Resources listed")
	return resources, nil
}

// Delete removes a resource by id. Badger deletes are idempotent.
func (r *BadgerRepository) Delete(ctx context.Context, id string) error {
	log := r.log.WithField("id", id)

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(resourceKey(id))
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete resource from BadgerDB")
		return fmt.Errorf("failed to delete resource %s: %w", id, err)
	}

	log.Info("Resource deleted")
	return nil
}

// RunGC reclaims value log space until ctx is cancelled.
func (r *BadgerRepository) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := r.db.RunValueLogGC(0.7)
			switch err {
			case nil:
				r.log.Info("BadgerDB GC completed")
			case badger.ErrNoRewrite:
				r.log.Debug("BadgerDB GC: no rewrite needed")
			default:
				r.log.WithError(err).Warn("BadgerDB GC failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }

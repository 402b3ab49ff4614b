package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapDestination writes audit records to a zap logger.
type ZapDestination struct {
	logger *zap.Logger
}

// NewZapDestination creates a destination named "audit" under logger.
func NewZapDestination(logger *zap.Logger) *ZapDestination {
	return &ZapDestination{logger: logger.Named("audit")}
}

func (d *ZapDestination) Write(_ context.Context, r Record) error {
	level := zapcore.InfoLevel
	switch r.Severity {
	case SeverityError, SeverityException:
		level = zapcore.ErrorLevel
	}
	fields := []zap.Field{
		zap.String("messageId", r.MessageID),
		zap.String("server", r.ServerName),
		zap.String("component", r.ComponentName),
		zap.String("action", r.Action),
		zap.String("severity", r.Severity),
	}
	if r.Exception != "" {
		fields = append(fields, zap.String("exception", r.Exception))
	}
	if ce := d.logger.Check(level, r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

// MemoryDestination keeps records in memory. It backs tests and the audit log REST query.
type MemoryDestination struct {
	mu      sync.Mutex
	records []Record
}

func (d *MemoryDestination) Write(_ context.Context, r Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, r)
	return nil
}

// Records returns a copy of the stored records.
func (d *MemoryDestination) Records() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Record(nil), d.records...)
}

// BadgerDestination persists audit records in BadgerDB, keyed by write time.
type BadgerDestination struct {
	db  *badger.DB
	seq atomic.Uint64
}

const badgerPrefix = "audit:"

// OpenBadgerDestination opens (or creates) the audit store at path. An empty path opens an
// in-memory store.
func OpenBadgerDestination(path string) (*BadgerDestination, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log store: %w", err)
	}
	return &BadgerDestination{db: db}, nil
}

func (d *BadgerDestination) Write(_ context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%s%020d:%08d", badgerPrefix, r.Time.UnixNano(), d.seq.Add(1)))
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Records returns the records written at or after since, oldest first.
func (d *BadgerDestination) Records(ctx context.Context, since time.Time) ([]Record, error) {
	var out []Record
	start := []byte(fmt.Sprintf("%s%020d", badgerPrefix, since.UnixNano()))
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(start); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Record
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &r)
			}); err != nil {
				return err
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// Close closes the underlying database.
func (d *BadgerDestination) Close() error {
	return d.db.Close()
}

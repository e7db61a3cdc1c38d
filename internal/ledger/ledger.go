package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/solstocks/trading-gateway/pkg/model"
)

const keyPrefix = "payment:"

// maxTxRetries bounds optimistic-transaction retries on contended references.
const maxTxRetries = 5

var (
	// ErrDuplicateReference is returned when inserting an existing reference.
	ErrDuplicateReference = errors.New("duplicate reference")
	// ErrNotFound is returned when the reference has no ledger record.
	ErrNotFound = errors.New("payment record not found")
	// ErrInvalidTransition is returned for any transition other than
	// pending -> confirmed or pending -> failed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Ledger is the durable payment record store keyed by reference.
type Ledger interface {
	Insert(ctx context.Context, rec *model.PaymentRecord) error
	Get(ctx context.Context, reference string) (*model.PaymentRecord, error)
	UpdateStatus(ctx context.Context, reference string, status model.Status, confirmedAt *time.Time) (*model.PaymentRecord, error)
	ListAll(ctx context.Context) ([]model.PaymentRecord, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// RedisLedger stores payment records as JSON values in Redis.
type RedisLedger struct {
	redis  *redis.Client
	logger *zap.Logger
}

// New connects a RedisLedger and verifies the connection.
func New(addr string, db int, password string, logger *zap.Logger) (*RedisLedger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisLedger{redis: rdb, logger: logger}, nil
}

// NewWithClient wraps an existing client (tests use miniredis through this).
func NewWithClient(rdb *redis.Client, logger *zap.Logger) *RedisLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLedger{redis: rdb, logger: logger}
}

func recordKey(reference string) string { return keyPrefix + reference }

// Insert stores a new record, failing with ErrDuplicateReference if the
// reference already exists. The existing record is left untouched.
func (l *RedisLedger) Insert(ctx context.Context, rec *model.PaymentRecord) error {
	if rec == nil || rec.Reference == "" {
		return fmt.Errorf("ledger: record with empty reference")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ledger: marshal record: %w", err)
	}

	ok, err := l.redis.SetNX(ctx, recordKey(rec.Reference), data, 0).Result()
	if err != nil {
		return fmt.Errorf("ledger: insert %s: %w", rec.Reference, err)
	}
	if !ok {
		return fmt.Errorf("ledger: insert %s: %w", rec.Reference, ErrDuplicateReference)
	}
	return nil
}

// Get fetches a single record by reference.
func (l *RedisLedger) Get(ctx context.Context, reference string) (*model.PaymentRecord, error) {
	data, err := l.redis.Get(ctx, recordKey(reference)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("ledger: get %s: %w", reference, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("ledger: get %s: %w", reference, err)
	}

	var rec model.PaymentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ledger: decode %s: %w", reference, err)
	}
	return &rec, nil
}

// UpdateStatus applies a status transition to one record. Only
// pending -> confirmed and pending -> failed are legal; terminal records
// are immutable. The read-modify-write runs inside a WATCH transaction so
// concurrent updates to the same reference serialize; updates to different
// references never contend.
func (l *RedisLedger) UpdateStatus(ctx context.Context, reference string, status model.Status, confirmedAt *time.Time) (*model.PaymentRecord, error) {
	if !status.Valid() || status == model.StatusPending {
		return nil, fmt.Errorf("ledger: update %s to %q: %w", reference, status, ErrInvalidTransition)
	}

	key := recordKey(reference)
	var updated *model.PaymentRecord

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("ledger: update %s: %w", reference, ErrNotFound)
		} else if err != nil {
			return err
		}

		var rec model.PaymentRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("ledger: decode %s: %w", reference, err)
		}
		if rec.Status != model.StatusPending {
			return fmt.Errorf("ledger: update %s from %q to %q: %w",
				reference, rec.Status, status, ErrInvalidTransition)
		}

		rec.Status = status
		if status == model.StatusConfirmed {
			if confirmedAt != nil {
				rec.ConfirmedAt = confirmedAt
			} else {
				now := time.Now().UTC()
				rec.ConfirmedAt = &now
			}
		}

		out, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("ledger: marshal %s: %w", reference, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		if err == nil {
			updated = &rec
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := l.redis.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue // another writer touched the key, re-read and retry
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("ledger: update %s: transaction contention, gave up", reference)
}

// ListAll returns every payment record ordered by CreatedAt descending.
// Individually corrupt entries are skipped, not fatal to the listing.
func (l *RedisLedger) ListAll(ctx context.Context) ([]model.PaymentRecord, error) {
	var records []model.PaymentRecord

	iter := l.redis.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := l.redis.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // deleted between scan and get
		} else if err != nil {
			return nil, fmt.Errorf("ledger: list read %s: %w", key, err)
		}

		var rec model.PaymentRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			l.logger.Warn("ledger.skip_corrupt_record",
				zap.String("key", key), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ledger: scan: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

func (l *RedisLedger) HealthCheck(ctx context.Context) error {
	if l.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := l.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (l *RedisLedger) Close() error {
	if l.redis != nil {
		return l.redis.Close()
	}
	return nil
}

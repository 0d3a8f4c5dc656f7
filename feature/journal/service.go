package journal

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"delivery-admin/core/database"
	"delivery-admin/core/storage"
	"delivery-admin/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrExportDisabled is returned by export operations when no object storage is configured.
var ErrExportDisabled = errors.New("journal export disabled: object storage not configured")

// Service persists and exports catalog operation records.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewService creates a journal service. client may be nil to disable exports.
func NewService(db *gorm.DB, client storage.Client, bucket, prefix string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "journal"
	}
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Migrate creates or updates the journal table and verifies its columns.
func (s *Service) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}

	missing, err := database.MissingColumns(s.db.WithContext(ctx), Entry{}.TableName(), requiredColumns)
	if err != nil {
		return fmt.Errorf("inspect journal: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("journal table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Record stores one entry.
func (s *Service) Record(ctx context.Context, entry Entry) error {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record journal entry: %w", err)
	}
	return nil
}

// ListByDate returns the entries created on the given local day, oldest first.
func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]Entry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	entries := make([]Entry, 0)
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list journal for %s: %w", start.Format(utils.DateLayout), err)
	}
	return entries, nil
}

// Export uploads the entries of one day as a JSON array to <prefix>/<YYYY-MM-DD>.json.
func (s *Service) Export(ctx context.Context, day time.Time) (*ExportReport, error) {
	if s.client == nil {
		return nil, ErrExportDisabled
	}

	entries, err := s.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	object := s.objectName(day)
	size, err := storage.PutJSON(ctx, s.client, s.bucket, object, entries)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Journal exported",
		zap.String("object", object),
		zap.Int("entries", len(entries)),
	)

	return &ExportReport{
		Date:    day.Format(utils.DateLayout),
		Object:  object,
		Entries: len(entries),
		Size:    size,
	}, nil
}

// Exports lists the days that have an uploaded export, newest first.
func (s *Service) Exports(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, ErrExportDisabled
	}

	keys, err := storage.ListKeys(ctx, s.client, s.bucket, s.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}

	days := make([]string, 0, len(keys))
	for _, key := range keys {
		name := path.Base(key)
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		days = append(days, strings.TrimSuffix(name, ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// ReadExport downloads a previously exported day.
func (s *Service) ReadExport(ctx context.Context, day time.Time) ([]Entry, error) {
	if s.client == nil {
		return nil, ErrExportDisabled
	}

	entries := make([]Entry, 0)
	if err := storage.GetJSON(ctx, s.client, s.bucket, s.objectName(day), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteExport removes an uploaded day.
func (s *Service) DeleteExport(ctx context.Context, day time.Time) error {
	if s.client == nil {
		return ErrExportDisabled
	}
	object := s.objectName(day)
	if err := s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", object, err)
	}
	return nil
}

func (s *Service) objectName(day time.Time) string {
	return s.prefix + "/" + day.Format(utils.DateLayout) + ".json"
}

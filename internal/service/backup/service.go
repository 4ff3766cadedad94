package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/myway/panel-api/internal/model"
	"github.com/myway/panel-api/internal/repository"
	"github.com/myway/panel-api/internal/service/store"
	apperrors "github.com/myway/panel-api/pkg/errors"
	"github.com/myway/panel-api/pkg/logger"
)

type Service struct {
	tx        repository.Transactor
	patients  repository.PatientRepository
	queue     repository.QueueRepository
	publisher store.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(
	tx repository.Transactor,
	patients repository.PatientRepository,
	queue repository.QueueRepository,
	publisher store.Publisher,
	log *logger.Logger,
) *Service {
	return &Service{
		tx:        tx,
		patients:  patients,
		queue:     queue,
		publisher: publisher,
		logger:    log.With("backup"),
		now:       time.Now,
	}
}

// Export returns every record with its id.
func (s *Service) Export(ctx context.Context) (*model.Backup, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	entries, err := s.queue.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	return &model.Backup{
		Version:    model.BackupVersion,
		ExportedAt: s.now().UTC(),
		Patients:   patients,
		Queue:      entries,
	}, nil
}

// Filename names an export taken now.
func (s *Service) Filename() string {
	return model.BackupFilename(s.now())
}

// Decode reads a backup document. Version 0 (missing) is accepted as 1.
func Decode(r io.Reader) (*model.Backup, error) {
	var b model.Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, apperrors.BadRequest("invalid backup file", err)
	}
	if b.Version != 0 && b.Version != model.BackupVersion {
		return nil, apperrors.BadRequest(fmt.Sprintf("unsupported backup version %d", b.Version), nil)
	}
	return &b, nil
}

// Import upserts every record by id in one transaction. One invalid record
// rejects the whole file.
func (s *Service) Import(ctx context.Context, b *model.Backup) (*model.ImportResult, error) {
	for i, p := range b.Patients {
		if p == nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("patients[%d] is empty", i), nil)
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.Status == "" {
			p.Status = model.PatientStatusActive
		}
		if err := p.Validate(); err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("patients[%d]: %v", i, err), err)
		}
	}
	for i, q := range b.Queue {
		if q == nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("queue[%d] is empty", i), nil)
		}
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		if q.Status == "" {
			q.Status = model.QueueStatusWaiting
		}
		if err := q.Validate(); err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("queue[%d]: %v", i, err), err)
		}
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, p := range b.Patients {
			if err := s.patients.Upsert(ctx, p); err != nil {
				return err
			}
		}
		for _, q := range b.Queue {
			if err := s.queue.Upsert(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import backup: %w", err)
	}

	res := &model.ImportResult{Patients: len(b.Patients), Queue: len(b.Queue)}
	s.logger.Info("Backup imported", "patients", res.Patients, "queue", res.Queue)

	for _, c := range []model.Collection{model.CollectionPatients, model.CollectionQueue} {
		if err := s.publisher.Publish(ctx, c, "import", ""); err != nil {
			s.logger.Error(err, "Failed to publish import", "collection", string(c))
		}
	}
	return res, nil
}

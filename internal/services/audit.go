package services

import (
	"context"
	"log"
	"time"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record enregistre de façon asynchrone ; un échec est seulement journalisé
func (s *AuditService) Record(entry models.AuditLog) {
	if entry.ID == "" {
		entry.ID = gocql.TimeUUID().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.Insert(ctx, &entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

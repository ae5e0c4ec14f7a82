package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

const createAuditTable = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		user_email text,
		action text,
		resource text,
		resource_id text,
		ip_address text,
		user_agent text,
		status int,
		success boolean,
		timestamp timestamp
	)`

// scyllaAudit écrit le journal d'audit dans ScyllaDB quand SCYLLA_HOSTS est défini
type scyllaAudit struct {
	manager *database.ScyllaManager
}

func NewScyllaAuditRepository(manager *database.ScyllaManager) (AuditRepository, error) {
	session, err := manager.Session()
	if err != nil {
		return nil, err
	}
	if err := session.Query(createAuditTable).Exec(); err != nil {
		return nil, fmt.Errorf("erreur création table audit_logs: %w", err)
	}
	return &scyllaAudit{manager: manager}, nil
}

func (r *scyllaAudit) Insert(ctx context.Context, entry *models.AuditLog) error {
	session, err := r.manager.Session()
	if err != nil {
		return err
	}

	id, err := gocql.ParseUUID(entry.ID)
	if err != nil {
		id = gocql.UUIDFromTime(entry.Timestamp)
		entry.ID = id.String()
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			ip_address, user_agent, status, success, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return session.Query(query,
		id, entry.UserID, entry.UserEmail, entry.Action, entry.Resource, entry.ResourceID,
		entry.IPAddress, entry.UserAgent, entry.Status, entry.Success, entry.Timestamp,
	).WithContext(ctx).Exec()
}

// List lit les dernières entrées ; la table n'a pas d'ordre global, le tri se fait ici
func (r *scyllaAudit) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	session, err := r.manager.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT id, user_id, user_email, action, resource, resource_id,
		       ip_address, user_agent, status, success, timestamp
		FROM audit_logs LIMIT ?`, limit*10).WithContext(ctx).Iter()

	logs := []models.AuditLog{}
	var (
		entry models.AuditLog
		id    gocql.UUID
	)
	for iter.Scan(&id, &entry.UserID, &entry.UserEmail, &entry.Action, &entry.Resource, &entry.ResourceID,
		&entry.IPAddress, &entry.UserAgent, &entry.Status, &entry.Success, &entry.Timestamp) {
		entry.ID = id.String()
		logs = append(logs, entry)
		entry = models.AuditLog{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sortAuditDesc(logs)
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func sortAuditDesc(logs []models.AuditLog) {
	sort.Slice(logs, func(i, j int) bool { return logs[i].Timestamp.After(logs[j].Timestamp) })
}

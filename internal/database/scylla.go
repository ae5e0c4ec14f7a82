package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gocql/gocql"
)

// --- Configuration ScyllaDB (journal d'audit) ---
type ScyllaKeyspaceConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
	Timeout  time.Duration
	NumConns int
}

// ScyllaManager garde une session unique et la recrée si elle devient invalide
type ScyllaManager struct {
	config  ScyllaKeyspaceConfig
	session *gocql.Session
	mu      sync.Mutex
}

func NewScyllaManager(cfg ScyllaKeyspaceConfig) *ScyllaManager {
	return &ScyllaManager{config: cfg}
}

func (sm *ScyllaManager) cluster() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(sm.config.Hosts...)
	cluster.Keyspace = sm.config.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = sm.config.Timeout
	cluster.NumConns = sm.config.NumConns
	cluster.ReconnectInterval = time.Second
	if sm.config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: sm.config.Username,
			Password: sm.config.Password,
		}
	}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

// Session retourne la session courante
func (sm *ScyllaManager) Session() (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.session != nil && !sm.session.Closed() {
		return sm.session, nil
	}

	session, err := sm.cluster().CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", sm.config.Keyspace, err)
	}
	sm.session = session
	log.Printf("✅ Nouvelle session ScyllaDB pour keyspace '%s'", sm.config.Keyspace)
	return session, nil
}

func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.session != nil {
		sm.session.Close()
		log.Printf("🔌 Session ScyllaDB fermée pour keyspace '%s'", sm.config.Keyspace)
	}
}

package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront_back_end/internal/config"
)

// Connections regroupe les clients ouverts au démarrage ; les champs optionnels peuvent être nil
type Connections struct {
	Mongo   *mongo.Client
	DB      *mongo.Database
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	MinIO   *minio.Client
	Scylla  *ScyllaManager
}

// --- Initialisation ---
func ConnectDatabases(cfg *config.Config) *Connections {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. MongoDB (obligatoire)
	client, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Échec connexion MongoDB: %v", err)
	}
	conns.Mongo = client
	conns.DB = client.Database(cfg.MongoDatabase)
	log.Println("✅ Connecté à MongoDB :", cfg.MongoDatabase)

	if err := EnsureIndexes(ctx, conns.DB); err != nil {
		log.Printf("⚠️ Création des index MongoDB incomplète: %v", err)
	}

	// 2. Redis (obligatoire)
	conns.Redis, err = ConnectRedis(ctx, cfg.RedisHost, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("❌ Erreur connexion Redis: %v", err)
	}
	log.Println("✅ Connecté à Redis")

	// 3. Elasticsearch (optionnel)
	if cfg.ElasticURL != "" {
		if conns.Elastic, err = ConnectElastic(cfg); err != nil {
			log.Printf("⚠️ Elasticsearch indisponible, recherche MongoDB utilisée: %v", err)
		} else {
			log.Println("✅ Connecté à Elasticsearch")
		}
	}

	// 4. MinIO (optionnel)
	if cfg.MinioEndpoint != "" {
		if conns.MinIO, err = ConnectMinIO(ctx, cfg); err != nil {
			log.Printf("⚠️ MinIO indisponible, upload d'images désactivé: %v", err)
		} else {
			log.Println("✅ Connecté à MinIO :", cfg.MinioEndpoint)
		}
	}

	// 5. ScyllaDB pour l'audit (optionnel)
	if len(cfg.ScyllaHosts) > 0 {
		conns.Scylla = NewScyllaManager(ScyllaKeyspaceConfig{
			Hosts:    cfg.ScyllaHosts,
			Keyspace: cfg.ScyllaKeyspace,
			Username: cfg.ScyllaUsername,
			Password: cfg.ScyllaPassword,
			Timeout:  5 * time.Second,
			NumConns: 4,
		})
		if _, err := conns.Scylla.Session(); err != nil {
			log.Printf("⚠️ ScyllaDB indisponible, audit stocké dans MongoDB: %v", err)
			conns.Scylla = nil
		}
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns
}

// Close ferme proprement les connexions
func (c *Connections) Close(ctx context.Context) {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️ Fermeture Redis: %v", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Printf("⚠️ Fermeture MongoDB: %v", err)
		}
	}
}

// =============================================
// MONGODB
// =============================================

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// =============================================
// REDIS
// =============================================

func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================

func ConnectElastic(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, err
	}

	res, err := client.Info()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: %s", res.String())
	}
	return client, nil
}

// =============================================
// MINIO
// =============================================

func ConnectMinIO(ctx context.Context, cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Println("🪣 Bucket créé :", cfg.MinioBucket)
	}
	return client, nil
}

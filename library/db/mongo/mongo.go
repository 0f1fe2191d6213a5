// Package mongo wraps the long-lived MongoDB client used by the service.
package mongo

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/game-media-api/library/log"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// DefaultDBName is used when neither the dial info nor the URI names a database.
	DefaultDBName = "game_db"

	defaultTimeout      = 30 * time.Second
	healthCheckInterval = 30 * time.Second
	defaultHeartbeat    = 10 * time.Second
)

// DB is the handle injected into data access objects.
type DB interface {
	Close(ctx context.Context) error
	GetCol(colName string) *mongo.Collection
	CurrentDB() *mongo.Database
}

// DialInfo defines how to reach MongoDB.
//
// URI takes precedence. Without it a mongodb:// URI is composed from
// Addr, User, Pwd and AuthDB.
type DialInfo struct {
	URI    string
	Addr   string
	DBName string
	User   string
	Pwd    string
	AuthDB string
}

type db struct {
	mu     sync.RWMutex
	cli    *mongo.Client
	dbName string
	host   string
	cancel context.CancelFunc
}

var (
	connectMongo = func(ctx context.Context, clientOpts *options.ClientOptions) (*mongo.Client, error) {
		return mongo.Connect(ctx, clientOpts)
	}
	pingMongo = func(ctx context.Context, cli *mongo.Client) error {
		return cli.Ping(ctx, readpref.Primary())
	}
	disconnectMongo = func(ctx context.Context, cli *mongo.Client) error {
		return cli.Disconnect(ctx)
	}
)

// connectionURI returns the connection string for the dial info.
func (d DialInfo) connectionURI() string {
	if uri := strings.TrimSpace(d.URI); uri != "" {
		return uri
	}

	uri := &url.URL{
		Scheme: "mongodb",
		Host:   d.Addr,
		Path:   "/" + d.DBName,
	}
	if d.User != "" || d.Pwd != "" {
		uri.User = url.UserPassword(d.User, d.Pwd)
	}
	if d.AuthDB != "" {
		query := url.Values{}
		query.Set("authSource", d.AuthDB)
		uri.RawQuery = query.Encode()
	}
	return uri.String()
}

// resolve validates the dial info and returns the URI, the database
// name and a credential-free host label for logging.
func (d DialInfo) resolve() (uri, dbName, host string, err error) {
	if strings.TrimSpace(d.URI) == "" && strings.TrimSpace(d.Addr) == "" {
		return "", "", "", errors.New("mongo uri or addr is required")
	}

	uri = d.connectionURI()
	host, pathDB, err := splitURI(uri)
	if err != nil {
		return "", "", "", err
	}

	dbName = d.DBName
	if dbName == "" {
		dbName = pathDB
	}
	if dbName == "" {
		dbName = DefaultDBName
	}

	return uri, dbName, host, nil
}

// splitURI extracts the host list and the database path of a
// mongodb:// or mongodb+srv:// URI without resolving anything.
// Errors never contain the uri since it may carry credentials.
func splitURI(uri string) (host, dbName string, err error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || (scheme != "mongodb" && scheme != "mongodb+srv") {
		return "", "", errors.New("invalid mongo connection string scheme")
	}

	authority, path, _ := strings.Cut(rest, "/")
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		authority = authority[i+1:]
	}
	if authority == "" {
		return "", "", errors.New("mongo connection string has no host")
	}

	path, _, _ = strings.Cut(path, "?")
	return authority, path, nil
}

// NewDB connects, pings the primary and starts a background health check.
// The returned handle is meant to live for the whole process.
func NewDB(ctx context.Context, dialInfo DialInfo) (DB, error) {
	uri, dbName, host, err := dialInfo.resolve()
	if err != nil {
		return nil, err
	}

	log.Logger.Info("try to connect to mongodb",
		zap.String("host", host),
		zap.String("db", dbName),
	)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetAppName("game-media-api").
		SetConnectTimeout(defaultTimeout).
		SetServerSelectionTimeout(defaultTimeout).
		SetHeartbeatInterval(defaultHeartbeat).
		SetMaxPoolSize(100).
		SetMaxConnIdleTime(300 * time.Second)

	cli, err := connectMongo(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect db")
	}

	// fail at startup, not on the first request
	if err := pingMongo(ctx, cli); err != nil {
		_ = disconnectMongo(context.Background(), cli)
		return nil, errors.Wrap(err, "ping db")
	}

	d := &db{cli: cli, dbName: dbName, host: host}
	hcCtx, hcCancel := context.WithCancel(context.Background())
	d.cancel = hcCancel
	go d.runHealthCheck(hcCtx)

	log.Logger.Info("connected to mongodb", zap.String("host", host), zap.String("db", dbName))
	return d, nil
}

// runHealthCheck only logs. The driver recovers connections by itself.
func (d *db) runHealthCheck(ctx context.Context) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cli := d.client()
		if cli == nil {
			return
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := pingMongo(pingCtx, cli)
		cancel()
		if err != nil && ctx.Err() == nil {
			log.Logger.Warn("mongodb ping failed",
				zap.Error(err),
				zap.String("host", d.host),
			)
		}
	}
}

// CurrentDB returns the configured database.
func (d *db) CurrentDB() *mongo.Database {
	return d.client().Database(d.dbName)
}

// GetCol returns a collection handle by name.
func (d *db) GetCol(colName string) *mongo.Collection {
	return d.CurrentDB().Collection(colName)
}

// Close stops the health check and disconnects. It is safe to call twice.
func (d *db) Close(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	d.mu.Lock()
	cli := d.cli
	d.cli = nil
	d.mu.Unlock()
	if cli == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	closeCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := disconnectMongo(closeCtx, cli); err != nil {
		return errors.Wrap(err, "disconnect db")
	}
	return nil
}

func (d *db) client() *mongo.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cli
}

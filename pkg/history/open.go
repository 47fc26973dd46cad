package history

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/bestof/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// MongoDatabase is the database used by the mongo backend.
const MongoDatabase = "bestof"

// Open returns the store for a backend. folder is the history folder of the
// file and sqlite backends; mongoURI is required for mongo.
func Open(ctx context.Context, backend, folder, mongoURI string) (Store, error) {
	switch backend {
	case "", BackendFile, BackendSQLite:
		if folder == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s history backend needs projects_history_folder", backendName(backend))
		}
		if backend == BackendSQLite {
			return OpenSQLite(filepath.Join(folder, SQLiteFile))
		}
		return NewFileStore(folder), nil
	case BackendMongo:
		if mongoURI == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo history backend needs BESTOF_MONGO_URI")
		}
		return OpenMongo(ctx, mongoURI, MongoDatabase)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown history backend %q", backend)
	}
}

func backendName(backend string) string {
	if backend == "" {
		return BackendFile
	}
	return backend
}

// Backends lists the accepted backend names.
func Backends() []string { return []string{BackendFile, BackendSQLite, BackendMongo} }

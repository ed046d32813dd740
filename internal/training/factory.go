package training

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/common/database"
	apperrors "kisan-intent/internal/common/errors"
	"kisan-intent/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// Connections holds the clients the store-backed sources read from. A nil
// field makes every source needing it fail as unavailable.
type Connections struct {
	Postgres      *database.SQLClient
	SQLite        *database.SQLClient
	Redis         redis.Cmdable
	Elasticsearch *elasticsearch.Client
}

// OpenConnections opens only the stores referenced by enabled sources. Open
// failures are logged and leave the field nil. The returned func closes
// whatever was opened.
func OpenConnections(ctx context.Context, log logger.Logger, db config.DatabaseConfig, sources []config.SourceConfig) (Connections, func()) {
	var conns Connections
	var closers []func() error

	need := make(map[string]bool)
	for _, src := range sources {
		if !src.Disabled {
			need[src.Type] = true
		}
	}

	if need[TypePostgres] {
		if c, err := database.NewPostgres(db.Postgres); err != nil {
			log.WithError(err).Warn("Postgres unavailable for training sources", nil)
		} else if err := c.Ping(ctx); err != nil {
			log.WithError(err).Warn("Postgres unavailable for training sources", nil)
			_ = c.Close()
		} else {
			conns.Postgres = c
			closers = append(closers, c.Close)
		}
	}

	if need[TypeSQLite] {
		if c, err := database.NewSQLite(db.SQLite); err != nil {
			log.WithError(err).Warn("SQLite unavailable for training sources", nil)
		} else {
			conns.SQLite = c
			closers = append(closers, c.Close)
		}
	}

	if need[TypeRedis] {
		if c, err := database.NewRedis(db.Redis); err != nil {
			log.WithError(err).Warn("Redis unavailable for training sources", nil)
		} else {
			conns.Redis = c.GetClient()
			closers = append(closers, c.Close)
		}
	}

	if need[TypeElasticsearch] {
		if c, err := database.NewElasticsearch(db.Elasticsearch); err != nil {
			log.WithError(err).Warn("Elasticsearch unavailable for training sources", nil)
		} else {
			conns.Elasticsearch = c.Client
		}
	}

	return conns, func() {
		for _, closeFn := range closers {
			_ = closeFn()
		}
	}
}

// FromConfig turns source settings into Sources. File paths containing glob
// metacharacters expand to one source per matching file. Disabled entries are
// dropped; entries that cannot be constructed become sources that fail on
// Load, so they show up in the Report.
func FromConfig(cfgs []config.SourceConfig, conns Connections) []Source {
	var out []Source
	for _, c := range cfgs {
		if c.Disabled {
			continue
		}
		out = append(out, fromConfig(c, conns)...)
	}
	return out
}

func fromConfig(c config.SourceConfig, conns Connections) []Source {
	name := c.Name
	if name == "" {
		name = c.Type
	}
	typ := strings.ToLower(c.Type)

	switch typ {
	case TypeCSV, TypeJSON, TypeYAML, "yml":
		if typ == "yml" {
			typ = TypeYAML
		}
		paths, err := expandPath(c.Path)
		if err != nil {
			return []Source{&brokenSource{name: name, typ: typ, err: apperrors.NewTrainingSourceUnavailableError(name, err)}}
		}
		var out []Source
		for _, p := range paths {
			srcName := name
			if len(paths) > 1 || p != c.Path {
				srcName = fmt.Sprintf("%s:%s", typ, p)
			}
			out = append(out, newFileSource(typ, srcName, p))
		}
		return out

	case TypePostgres:
		if conns.Postgres == nil {
			return []Source{missingConnection(name, typ)}
		}
		return []Source{NewSQLSource(name, typ, conns.Postgres, c.Query)}

	case TypeSQLite:
		if conns.SQLite == nil {
			return []Source{missingConnection(name, typ)}
		}
		return []Source{NewSQLSource(name, typ, conns.SQLite, c.Query)}

	case TypeRedis:
		if conns.Redis == nil {
			return []Source{missingConnection(name, typ)}
		}
		if c.Key == "" {
			return []Source{&brokenSource{name: name, typ: typ, err: apperrors.NewTrainingSourceMalformedError(name, "redis source needs a key")}}
		}
		return []Source{NewRedisSource(name, conns.Redis, c.Key)}

	case TypeElasticsearch:
		if conns.Elasticsearch == nil {
			return []Source{missingConnection(name, typ)}
		}
		if c.Index == "" {
			return []Source{&brokenSource{name: name, typ: typ, err: apperrors.NewTrainingSourceMalformedError(name, "elasticsearch source needs an index")}}
		}
		return []Source{NewElasticsearchSource(name, conns.Elasticsearch, c.Index, c.QueryField, c.IntentField, c.Limit)}
	}

	return []Source{&brokenSource{name: name, typ: typ, err: apperrors.NewTrainingSourceUnsupportedError(name, c.Type)}}
}

func newFileSource(typ, name, path string) Source {
	switch typ {
	case TypeCSV:
		return NewCSVSource(name, path)
	case TypeJSON:
		return NewJSONSource(name, path)
	default:
		return NewYAMLSource(name, path)
	}
}

func missingConnection(name, typ string) Source {
	return &brokenSource{
		name: name,
		typ:  typ,
		err:  apperrors.NewTrainingSourceUnavailableError(name, fmt.Errorf("no %s connection configured", typ)),
	}
}

// expandPath returns path itself unless it is a glob, in which case it must
// match at least one file.
func expandPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if !strings.ContainsAny(path, "*?[") {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", path)
	}
	return matches, nil
}

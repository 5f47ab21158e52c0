package topology

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/clustertools/dcswitch/internal/log"
	"github.com/clustertools/dcswitch/internal/util"
)

// MetaDBProvider resolves the site mapping from an inventory database.
// The table is expected to hold one row per cluster host.
type MetaDBProvider struct {
	config *MetaDBConfig
	logger *log.Logger
	db     *sqlx.DB
}

type metaDBRow struct {
	Hostname string `db:"hostname"`
	Site     string `db:"site"`
}

func NewMetaDBProvider(config *MetaDBConfig, logger *log.Logger) (*MetaDBProvider, error) {
	addr := util.JoinHostPort(config.Host, config.Port)
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s", config.User, config.Password, addr, config.Database)
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(2)
	return &MetaDBProvider{config: config, logger: logger, db: db}, nil
}

func (p *MetaDBProvider) Resolve(clusterID string) (Sites, error) {
	// ordering makes candidate selection deterministic
	query := fmt.Sprintf(
		"SELECT hostname, site FROM %s WHERE cluster = ? ORDER BY site, hostname",
		p.config.Table)
	var rows []metaDBRow
	if err := p.db.Select(&rows, query, clusterID); err != nil {
		return nil, fmt.Errorf("metadb lookup failed for cluster %q: %w", clusterID, err)
	}
	if len(rows) == 0 {
		return nil, &TopologyError{Cluster: clusterID, Reason: "no hosts found in metadb"}
	}
	var res Sites
	for _, row := range rows {
		if len(res) == 0 || res[len(res)-1].Name != row.Site {
			res = append(res, Site{Name: row.Site})
		}
		last := &res[len(res)-1]
		last.Hosts = append(last.Hosts, row.Hostname)
	}
	p.logger.Debugf("topology: metadb resolved %d hosts in %d sites for cluster %q", len(rows), len(res), clusterID)
	return res, nil
}

func (p *MetaDBProvider) Close() error {
	return p.db.Close()
}

var _ Provider = &MetaDBProvider{}

package sqldb

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// Open connects to the database named by databaseURL and bootstraps the
// schema. A mysql:// URL selects the MySQL driver; anything else is treated
// as a SQLite file path (sqlite:/// prefixes are accepted and stripped).
func Open(databaseURL string) (*Repo, error) {
	driver, dsn, dialect, err := resolveDSN(databaseURL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	repo := New(db, dialect)
	if err := repo.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return repo, nil
}

func resolveDSN(databaseURL string) (driver, dsn string, d Dialect, err error) {
	s := strings.TrimSpace(databaseURL)
	if s == "" {
		return "", "", "", fmt.Errorf("database URL is required")
	}

	if strings.HasPrefix(s, "mysql://") {
		u, perr := url.Parse(s)
		if perr != nil {
			return "", "", "", fmt.Errorf("parse mysql url: %w", perr)
		}
		auth := ""
		if u.User != nil {
			auth = u.User.Username()
			if pw, ok := u.User.Password(); ok {
				auth += ":" + pw
			}
		}
		host := u.Host
		if u.Port() == "" {
			host += ":3306"
		}
		name := strings.TrimPrefix(u.Path, "/")
		dsn = fmt.Sprintf("%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC", auth, host, name)
		return "mysql", dsn, DialectMySQL, nil
	}

	// SQLAlchemy-style sqlite URLs and bare file paths both land here.
	path := s
	for _, p := range []string{"sqlite:///", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(path, p) {
			path = strings.TrimPrefix(path, p)
			break
		}
	}
	dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	return "sqlite", dsn, DialectSQLite, nil
}

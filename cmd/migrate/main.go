package main

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"liars-server/internal/config"
	"liars-server/pkg/db"
)

func main() {
	conn := waitForDB()
	defer conn.Close()

	if err := db.MigrateDB(conn, config.Instance().MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB() *sql.DB {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			conn, err := db.Open(config.Instance().PGDSN)
			if err == nil {
				return conn
			}

			logrus.WithError(err).Debug("database not ready")
			time.Sleep(time.Millisecond * 500)
		}
	}
}

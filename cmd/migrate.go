package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		dsn := os.Getenv("MYSQL_DSN")
		if dsn == "" {
			user := os.Getenv("MYSQL_USER")
			pass := os.Getenv("MYSQL_PASS")
			host := os.Getenv("MYSQL_HOST")
			port := os.Getenv("MYSQL_PORT")
			db := os.Getenv("MYSQL_DB")
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, pass, host, port, db)
		}

		m, err := migrate.New("file://"+migrationsPath, "mysql://"+dsn)
		if err != nil {
			log.Fatalf("migrate init: %v", err)
		}
		defer m.Close()

		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No pending migrations.")
			return
		}
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		fmt.Println("Migrations applied.")
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")
	rootCmd.AddCommand(migrateCmd)
}

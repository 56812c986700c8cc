package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"escalafon/pkg/database"
)

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移（--down N 回退 N 个版本）",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "回退的版本数")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, closeFn, err := openDB()
	if err != nil {
		return err
	}
	defer closeFn()

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	if migrateDown > 0 {
		return database.RollbackMigrations(sqlDB, migrateDown, logger)
	}
	return database.RunMigrations(sqlDB, logger)
}

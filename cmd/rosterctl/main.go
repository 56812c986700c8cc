package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/config"
	"escalafon/internal/repository"
	"escalafon/internal/service"
	"escalafon/pkg/database"
	applogger "escalafon/pkg/logger"
)

var (
	configPath string
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "escalafon 运维命令行",
	Long: `rosterctl 直接连接数据库执行运维操作，不经过 HTTP 服务：

  migrate   执行或回退数据库迁移
  coverage  打印单位在岗人数校验结果
  export    导出单位排班表 xlsx`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		// 命令行输出给人看
		cfg.Log.Format = "console"
		logger, err = applogger.NewLogger(&cfg.Log, "rosterctl")
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出 debug 日志")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "单条命令超时时间")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB 连接数据库，返回关闭函数
func openDB() (*gorm.DB, func(), error) {
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}

// openService 构造业务层；命令行不使用 Redis 快照缓存与指标
func openService() (*service.Service, func(), error) {
	db, closeFn, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	svc, err := service.NewService(cfg, repository.NewRepository(db), nil, nil, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

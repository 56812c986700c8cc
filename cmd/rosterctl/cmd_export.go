package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出单位排班表 xlsx",
	Long: `生成与 /api/v1/export/roster 相同的排班表文件。

示例:
  rosterctl export --dependency dep-1 --start 2024-03-01 --days 31
  rosterctl export -d dep-1 --out /tmp/marzo.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addWindowFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "输出路径（默认当前目录下的导出文件名）")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	buf, filename, err := svc.Export.ExportRoster(ctx, windowDependency, windowRequest())
	if err != nil {
		return fmt.Errorf("导出排班表失败: %w", err)
	}

	path := exportOut
	if path == "" {
		path = filepath.Base(filename)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}

	logger.Info("排班表已导出", zap.String("path", path), zap.Int("bytes", buf.Len()))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"escalafon/internal/dto"
	"escalafon/internal/roster"
)

var (
	windowDependency  string
	windowStart       string
	windowDays        int
	coverageOutput    string
	coverageOnlyShort bool
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "打印单位在岗人数校验结果",
	Long: `按天、按班次列出在岗人数与是否达标。

示例:
  rosterctl coverage --dependency dep-1 --start 2024-03-04 --days 7
  rosterctl coverage --dependency dep-1 --output yaml --short`,
	Args: cobra.NoArgs,
	RunE: runCoverage,
}

func init() {
	addWindowFlags(coverageCmd)
	coverageCmd.Flags().StringVarP(&coverageOutput, "output", "o", "table", "输出格式: table | json | yaml")
	coverageCmd.Flags().BoolVar(&coverageOnlyShort, "short", false, "只输出未达标的班次")
}

// addWindowFlags 单位 + 时间窗口参数，coverage 与 export 共用
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&windowDependency, "dependency", "d", "", "单位 ID（必填）")
	cmd.Flags().StringVar(&windowStart, "start", "", "起始日期 YYYY-MM-DD（默认今天）")
	cmd.Flags().IntVar(&windowDays, "days", 0, "天数（默认取配置 roster.default_days）")
	_ = cmd.MarkFlagRequired("dependency")
}

func windowRequest() *dto.WindowRequest {
	return &dto.WindowRequest{Start: windowStart, Days: windowDays}
}

func runCoverage(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openService()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := svc.Roster.VerifyCoverage(ctx, windowDependency, windowRequest())
	if err != nil {
		return fmt.Errorf("在岗校验失败: %w", err)
	}
	if coverageOnlyShort {
		resp.Coverage = shortagesOnly(resp.Coverage)
	}
	return writeCoverage(cmd.OutOrStdout(), coverageOutput, resp)
}

// shortagesOnly 过滤掉达标的班次，去掉全部达标的日期
func shortagesOnly(m roster.CoverageMap) roster.CoverageMap {
	out := make(roster.CoverageMap)
	for day, shifts := range m {
		for name, c := range shifts {
			if c.Meets {
				continue
			}
			if out[day] == nil {
				out[day] = make(map[string]roster.ShiftCoverage)
			}
			out[day][name] = c
		}
	}
	return out
}

func writeCoverage(w io.Writer, format string, resp *dto.CoverageResponse) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(resp)
	case "table", "":
		return writeCoverageTable(w, resp)
	default:
		return fmt.Errorf("不支持的输出格式 %q（可选 table | json | yaml）", format)
	}
}

func writeCoverageTable(w io.Writer, resp *dto.CoverageResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "单位\t%s\n", resp.DependencyID)
	fmt.Fprintf(tw, "窗口\t%s +%d 天\n", resp.Start, resp.Days)
	fmt.Fprintf(tw, "最低在岗\t%d\n", resp.MinStaff)
	fmt.Fprintf(tw, "未达标\t%d\n\n", resp.Shortages)

	fmt.Fprintln(tw, "日期\t班次\t在岗\t结果\t人员")
	days := make([]string, 0, len(resp.Coverage))
	for day := range resp.Coverage {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		shifts := resp.Coverage[day]
		for _, name := range roster.CoverageShifts {
			c, ok := shifts[name]
			if !ok {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\n",
				day, name, len(c.Present), resp.MinStaff, coverageStatus(c), strings.Join(c.Present, ", "))
		}
	}
	return tw.Flush()
}

func coverageStatus(c roster.ShiftCoverage) string {
	switch {
	case c.Holiday:
		return "节假日"
	case c.Meets:
		return "OK"
	default:
		return "不足"
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"escalafon/internal/dto"
	"escalafon/internal/roster"
)

func sampleCoverage() *dto.CoverageResponse {
	cov := roster.CoverageMap{
		"2024-03-05": {
			roster.ShiftFirst:  {Meets: true, Present: []string{"Ana", "Beto", "Carla", "Dario"}},
			roster.ShiftSecond: {Meets: false, Present: []string{"Eva"}},
			roster.ShiftThird:  {Meets: true, Present: []string{"F", "G", "H", "I"}},
		},
		"2024-03-04": {
			roster.ShiftFirst:  {Meets: true, Present: []string{"Ana", "Beto", "Carla", "Dario"}},
			roster.ShiftSecond: {Meets: true, Present: []string{"E", "F", "G", "H"}},
			roster.ShiftThird:  {Meets: true, Present: []string{"I", "J", "K", "L"}},
		},
	}
	return &dto.CoverageResponse{
		DependencyID: "dep-1",
		Start:        "2024-03-04",
		Days:         2,
		MinStaff:     4,
		Shortages:    cov.Shortages(),
		Coverage:     cov,
	}
}

func TestWriteCoverage_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCoverage(&buf, "table", sampleCoverage()); err != nil {
		t.Fatalf("writeCoverage 失败: %v", err)
	}
	out := buf.String()

	first := strings.Index(out, "2024-03-04")
	second := strings.Index(out, "2024-03-05")
	if first < 0 || second < 0 || first > second {
		t.Errorf("日期应升序输出:\n%s", out)
	}
	if !strings.Contains(out, "1/4") || !strings.Contains(out, "不足") {
		t.Errorf("缺少未达标行:\n%s", out)
	}

	// 同一天内班次按固定顺序
	day := out[second:]
	if strings.Index(day, roster.ShiftFirst) > strings.Index(day, roster.ShiftSecond) {
		t.Errorf("班次顺序错误:\n%s", day)
	}
}

func TestWriteCoverage_JSONAndYAML(t *testing.T) {
	var jsonBuf bytes.Buffer
	if err := writeCoverage(&jsonBuf, "json", sampleCoverage()); err != nil {
		t.Fatalf("json 输出失败: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("json 无法解析: %v", err)
	}
	if decoded["shortages"].(float64) != 1 {
		t.Errorf("shortages = %v, want 1", decoded["shortages"])
	}

	var yamlBuf bytes.Buffer
	if err := writeCoverage(&yamlBuf, "yaml", sampleCoverage()); err != nil {
		t.Fatalf("yaml 输出失败: %v", err)
	}
	var y struct {
		DependencyID string                                     `yaml:"dependency_id"`
		Coverage     map[string]map[string]roster.ShiftCoverage `yaml:"coverage"`
	}
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &y); err != nil {
		t.Fatalf("yaml 无法解析: %v", err)
	}
	if y.DependencyID != "dep-1" {
		t.Errorf("dependency_id = %q", y.DependencyID)
	}
	if y.Coverage["2024-03-05"][roster.ShiftSecond].Meets {
		t.Error("2024-03-05 Second Shift 应未达标")
	}
}

func TestWriteCoverage_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCoverage(&buf, "csv", sampleCoverage()); err == nil {
		t.Fatal("未知格式应返回错误")
	}
}

func TestShortagesOnly(t *testing.T) {
	got := shortagesOnly(sampleCoverage().Coverage)
	if len(got) != 1 {
		t.Fatalf("应只剩 1 天, got %d", len(got))
	}
	shifts := got["2024-03-05"]
	if len(shifts) != 1 {
		t.Fatalf("应只剩 1 个班次, got %v", shifts)
	}
	if _, ok := shifts[roster.ShiftSecond]; !ok {
		t.Errorf("应保留 Second Shift, got %v", shifts)
	}
}

func TestCoverageStatus(t *testing.T) {
	cases := []struct {
		c    roster.ShiftCoverage
		want string
	}{
		{roster.ShiftCoverage{Meets: true, Holiday: true}, "节假日"},
		{roster.ShiftCoverage{Meets: true}, "OK"},
		{roster.ShiftCoverage{}, "不足"},
	}
	for _, tc := range cases {
		if got := coverageStatus(tc.c); got != tc.want {
			t.Errorf("coverageStatus(%+v) = %q, want %q", tc.c, got, tc.want)
		}
	}
}

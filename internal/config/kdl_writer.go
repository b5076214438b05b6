package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ToKDL renders cfg in the .codeaudit.kdl format read by parseKDL
func ToKDL(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("project {\n")
	fmt.Fprintf(&sb, "    root %s\n", strconv.Quote(cfg.Project.Root))
	if cfg.Project.Name != "" {
		fmt.Fprintf(&sb, "    name %s\n", strconv.Quote(cfg.Project.Name))
	}
	sb.WriteString("}\n\n")

	sb.WriteString("discovery {\n")
	sb.WriteString(formatKDLStringArray("include", cfg.Discovery.Include))
	sb.WriteString(formatKDLStringArray("data_extensions", cfg.Discovery.DataExtensions))
	fmt.Fprintf(&sb, "    max_file_size %d\n", cfg.Discovery.MaxFileSize)
	fmt.Fprintf(&sb, "    max_file_count %d\n", cfg.Discovery.MaxFileCount)
	fmt.Fprintf(&sb, "    respect_gitignore %t\n", cfg.Discovery.RespectGitignore)
	sb.WriteString("}\n\n")

	// Written as a block so the list stays readable
	sb.WriteString("exclude {\n")
	for _, p := range cfg.Discovery.Exclude {
		fmt.Fprintf(&sb, "    %s\n", strconv.Quote(p))
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "analysis {\n    workers %d\n}\n\n", cfg.Analysis.Workers)

	sb.WriteString("report {\n")
	fmt.Fprintf(&sb, "    output %s\n", strconv.Quote(cfg.Report.Output))
	fmt.Fprintf(&sb, "    graph_image %s\n", strconv.Quote(cfg.Report.GraphImage))
	fmt.Fprintf(&sb, "    graph %s // auto | dot | text | none\n", strconv.Quote(cfg.Report.Graph))
	fmt.Fprintf(&sb, "    tables %s // markdown | plain\n", strconv.Quote(cfg.Report.Tables))
	fmt.Fprintf(&sb, "    format %s // markdown | json | yaml\n", strconv.Quote(cfg.Report.Format))
	sb.WriteString("}\n\n")

	fmt.Fprintf(&sb, "watch {\n    debounce_ms %d\n}\n", cfg.Watch.DebounceMs)
	return sb.String()
}

func formatKDLStringArray(name string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "    " + name + " " + strings.Join(quoted, " ") + "\n"
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

type output string

const (
	outputTable output = "table"
	outputJSON  output = "json"
	outputYAML  output = "yaml"
)

func parseOutput(value string) (output, error) {
	switch o := output(strings.ToLower(strings.TrimSpace(value))); o {
	case outputTable, outputJSON, outputYAML:
		return o, nil
	case "":
		return outputTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q", value)
	}
}

// render writes value as json or yaml, or calls table for the table format.
func render(w io.Writer, value interface{}, table func(io.Writer) error) error {
	format, err := parseOutput(outputFormat)
	if err != nil {
		return err
	}
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case outputYAML:
		// Round-trip through JSON so YAML keys match the API field names.
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(generic)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		if err := table(tw); err != nil {
			return err
		}
		return tw.Flush()
	}
}

var chipColors = map[string]lipgloss.Color{
	"error":     lipgloss.Color("9"),
	"warning":   lipgloss.Color("11"),
	"info":      lipgloss.Color("14"),
	"primary":   lipgloss.Color("12"),
	"success":   lipgloss.Color("10"),
	"secondary": lipgloss.Color("13"),
	"default":   lipgloss.Color("7"),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func roleChip(role models.UserRole) string {
	info := models.LookupRole(role)
	color, ok := chipColors[info.Color]
	if !ok {
		color = chipColors["default"]
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(info.Label)
}

func statusChip(status models.RegistrationStatus) string {
	color := chipColors["warning"]
	switch status {
	case models.RegistrationApproved:
		color = chipColors["success"]
	case models.RegistrationRejected:
		color = chipColors["error"]
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(status))
}

func header(w io.Writer, columns ...string) {
	styled := make([]string, len(columns))
	for i, column := range columns {
		styled[i] = headerStyle.Render(column)
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return mutedStyle.Render("-")
	}
	return *value
}

package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle  = color.New(color.FgGreen, color.Bold).SprintFunc()
	literalStyle = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// helpRow is one aligned line of a help section.
type helpRow struct {
	left  string
	right string
}

// RenderHelp builds the help text for node. Styling follows fatih/color,
// which disables itself when output is not a terminal or NO_COLOR is set.
func RenderHelp(a *App, node *Command) string {
	var b strings.Builder

	if node.description != "" {
		b.WriteString(node.description)
		b.WriteString("\n\n")
	}

	usage := literalStyle(node.FullName()) + " [OPTIONS]"
	if len(node.subcommands) > 0 {
		usage += " [COMMAND]"
	}
	usage += " [ARGS]..."
	fmt.Fprintf(&b, "%s %s\n", headerStyle("Usage:"), usage)

	if len(node.subcommands) > 0 {
		var rows []helpRow
		for _, sub := range node.subcommands {
			names := append([]string{sub.name}, sub.aliases...)
			rows = append(rows, helpRow{left: strings.Join(names, ", "), right: sub.description})
		}
		writeSection(&b, "Commands:", rows)
	}

	sections := map[string][]helpRow{}
	var order []string
	for _, f := range node.flags {
		heading := f.heading
		if heading == "" {
			heading = "Options"
		}
		if _, seen := sections[heading]; !seen {
			order = append(order, heading)
		}
		sections[heading] = append(sections[heading], flagRow(f))
	}
	if _, seen := sections["Options"]; !seen {
		order = append([]string{"Options"}, order...)
	}
	if !node.claimsLong("help") {
		left := "    --help"
		if !node.claimsShort('h') {
			left = "-h, --help"
		}
		sections["Options"] = append(sections["Options"], helpRow{left: left, right: "Print help"})
	}
	if !node.claimsLong("version") {
		sections["Options"] = append(sections["Options"], helpRow{left: "    --version", right: "Print version"})
	}
	for _, heading := range order {
		writeSection(&b, heading+":", sections[heading])
	}

	return b.String()
}

func flagRow(f *Flag) helpRow {
	left := "    "
	if r, ok := f.ShortName(); ok {
		left = fmt.Sprintf("-%c, ", r)
	}
	left += "--" + f.LongName()
	if f.takesValue {
		left += " <" + f.ValueName() + ">"
	}

	right := f.help
	var notes []string
	if f.env != "" {
		notes = append(notes, "env: "+f.env)
	}
	if def, ok := f.DefaultValue(); ok {
		notes = append(notes, "default: "+def)
	}
	if len(f.aliases) > 0 {
		notes = append(notes, "aliases: "+strings.Join(f.aliases, ", "))
	}
	if f.required {
		notes = append(notes, "required")
	}
	for _, n := range notes {
		right = strings.TrimSpace(right + " [" + n + "]")
	}
	return helpRow{left: left, right: right}
}

func writeSection(b *strings.Builder, title string, rows []helpRow) {
	if len(rows) == 0 {
		return
	}
	width := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r.left); w > width {
			width = w
		}
	}
	fmt.Fprintf(b, "\n%s\n", headerStyle(title))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(r.left))
		line := "  " + literalStyle(r.left) + pad
		if r.right != "" {
			line += "  " + r.right
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
}

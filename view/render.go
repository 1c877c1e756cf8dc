// Package view turns branch records into widget markup. Everything here is a
// pure function of its arguments; hosts decide where the markup goes.
package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/yourorg/branch-search/branch"
)

//go:embed templates/*.html
var files embed.FS

var tmpl = template.Must(template.New("view").Funcs(template.FuncMap{
	"address": branch.OneLineAddress,
}).ParseFS(files, "templates/*.html"))

// CardClass marks list-view cards; Binder looks for it.
const CardClass = "branchCard"

// List renders one clickable card per record.
func List(records []branch.Record) string {
	return execute("list", records)
}

// Detail renders full details for each record. recordURL, when set, is
// linked as the place to see every branch.
func Detail(records []branch.Record, recordURL string) string {
	return execute("detail", struct {
		Records   []branch.Record
		RecordURL string
	}{records, recordURL})
}

// Notice renders a short status message in place of results.
func Notice(msg string) string {
	return execute("notice", msg)
}

type ShellData struct {
	Title       string
	SearchValue string
	Content     template.HTML // already rendered by List, Detail or Notice
	ListPath    string
	DetailPath  string
}

// Shell renders the page hosting the search input and result container.
func Shell(d ShellData) string {
	if d.Title == "" {
		d.Title = "Branch Search"
	}
	return execute("shell", d)
}

func execute(name string, data any) string {
	var b strings.Builder
	// templates are fixed and fully covered by tests; a failure here is a bug
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		panic("view: " + name + ": " + err.Error())
	}
	return b.String()
}

package abiindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NilFoundation/solbuild/common"
)

// IndexFileName is the name of the generated listing in every output directory.
const IndexFileName = "index.html"

const indexTmpl = `<html>
  <ul>
{{- range .Dirs}}
    <li><a href="{{.}}/index.html">{{.}}</a></li>
{{- end}}
{{- range .Files}}
    <li><a href="{{.}}">{{.}}</a></li>
{{- end}}
  </ul>
</html>`

// writeIndex renders the directory listing for dir: subdirectory entries
// first, then ABI files, each group sorted by name. Hidden files and the
// index itself stay out of the listing.
func writeIndex(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("can't list output directory %s: %w", dir, err)
	}

	var dirNames, fileNames []string
	for _, e := range entries {
		name := e.Name()
		if name == IndexFileName || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasSuffix(name, ".json") {
			fileNames = append(fileNames, name)
		} else {
			dirNames = append(dirNames, name)
		}
	}

	// os.ReadDir returns entries sorted by name, so both groups stay sorted.
	page, err := common.ParseTemplate(indexTmpl, map[string]any{
		"Dirs":  dirNames,
		"Files": fileNames,
	})
	if err != nil {
		return fmt.Errorf("can't render index for %s: %w", dir, err)
	}

	indexPath := filepath.Join(dir, IndexFileName)
	if err := os.WriteFile(indexPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("can't write %s: %w", indexPath, err)
	}
	return nil
}
